package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/models"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) error
}

// CreateProgramRequest is the payload for adding a catalog program.
type CreateProgramRequest struct {
	Title    string   `json:"title" validate:"required"`
	Summary  string   `json:"summary" validate:"required"`
	Category string   `json:"category" validate:"required,oneof=development design data marketing management"`
	Level    string   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Duration int      `json:"duration" validate:"required,gt=0"`
	Rating   float64  `json:"rating" validate:"gte=0,lte=5"`
	Skills   []string `json:"skills"`
	Price    float64  `json:"price" validate:"gte=0"`
	Currency string   `json:"currency"`
	Status   string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateProgramRequest carries the mutable program fields. Nil fields are
// left untouched.
type UpdateProgramRequest struct {
	Title    *string   `json:"title"`
	Summary  *string   `json:"summary"`
	Category *string   `json:"category" validate:"omitempty,oneof=development design data marketing management"`
	Level    *string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration *int      `json:"duration" validate:"omitempty,gt=0"`
	Rating   *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Skills   *[]string `json:"skills"`
	Price    *float64  `json:"price" validate:"omitempty,gte=0"`
	Currency *string   `json:"currency"`
	Status   *string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ProgramService manages the internship program catalog.
type ProgramService struct {
	repo     programRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(repo programRepository, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, validate: validate, logger: logger}
}

// List returns programs matching the filter along with the total count.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error) {
	programs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, total, nil
}

// Get fetches a program by ID.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch program")
	}
	return program, nil
}

// Create validates and inserts a new catalog program.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	status := models.ProgramStatus(req.Status)
	if status == "" {
		status = models.ProgramStatusActive
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	program := &models.Program{
		Title:    strings.TrimSpace(req.Title),
		Summary:  strings.TrimSpace(req.Summary),
		Category: models.ProgramCategory(req.Category),
		Level:    models.ProgramLevel(req.Level),
		Duration: req.Duration,
		Rating:   req.Rating,
		Skills:   req.Skills,
		Price:    req.Price,
		Currency: currency,
		Status:   status,
	}

	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}

	s.logger.Info("program created", zap.String("program_id", program.ID), zap.String("title", program.Title))
	return program, nil
}

// Update applies the provided fields to an existing program.
func (s *ProgramService) Update(ctx context.Context, id string, req UpdateProgramRequest) (*models.Program, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		program.Title = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		program.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.Category != nil {
		program.Category = models.ProgramCategory(*req.Category)
	}
	if req.Level != nil {
		program.Level = models.ProgramLevel(*req.Level)
	}
	if req.Duration != nil {
		program.Duration = *req.Duration
	}
	if req.Rating != nil {
		program.Rating = *req.Rating
	}
	if req.Skills != nil {
		program.Skills = *req.Skills
	}
	if req.Price != nil {
		program.Price = *req.Price
	}
	if req.Currency != nil {
		program.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Status != nil {
		program.Status = models.ProgramStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}
	return program, nil
}

// Delete removes a program from the catalog.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	return nil
}
