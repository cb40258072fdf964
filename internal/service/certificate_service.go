package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/dto"
	"github.com/noah-isme/certify-api/internal/importer"
	"github.com/noah-isme/certify-api/internal/models"
	"github.com/noah-isme/certify-api/internal/repository"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
	"github.com/noah-isme/certify-api/pkg/export"
)

type certificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error)
	FindByInternID(ctx context.Context, internID string) (*models.Certificate, error)
	ExistsByInternID(ctx context.Context, internID string) (bool, error)
	Create(ctx context.Context, cert *models.Certificate) error
	Update(ctx context.Context, cert *models.Certificate) error
	Delete(ctx context.Context, internID string) error
}

type verificationCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UpdateCertificateRequest carries the mutable certificate fields. Nil fields
// are left untouched. Duration stays unconstrained, matching the lenient
// import rule.
type UpdateCertificateRequest struct {
	Name           *string                   `json:"name"`
	Domain         *string                   `json:"domain"`
	Duration       *int                      `json:"duration"`
	StartingDate   *string                   `json:"startingDate"`
	CompletionDate *string                   `json:"completionDate"`
	Email          *string                   `json:"email" validate:"omitempty,email"`
	Status         *models.CertificateStatus `json:"status" validate:"omitempty,oneof=active revoked"`
}

// CertificateService implements certificate issuance, lookup and lifecycle.
// Single-record creation runs through the same normalization pipeline as bulk
// import so both paths accept the same key spellings and date formats.
type CertificateService struct {
	repo     certificateRepository
	cache    verificationCache
	validate *validator.Validate
	pdf      *export.PDFExporter
	cacheTTL time.Duration
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewCertificateService constructs the certificate service.
func NewCertificateService(repo certificateRepository, cache verificationCache, cacheTTL time.Duration, logger *zap.Logger, metrics *MetricsService) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CertificateService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: cacheTTL,
		logger:   logger,
		metrics:  metrics,
	}
}

// Create issues a single certificate. Validation defects are returned as a
// list so the handler can echo them; a duplicate intern ID is a conflict.
func (s *CertificateService) Create(ctx context.Context, raw map[string]interface{}) (*models.Certificate, []string, error) {
	rec := importer.Normalize(raw)
	if defects := importer.Validate(rec); len(defects) > 0 {
		return nil, defects, appErrors.Clone(appErrors.ErrValidation, "Validation failed")
	}

	exists, err := s.repo.ExistsByInternID(ctx, rec.InternID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for an existing certificate")
	}
	if exists {
		return nil, nil, appErrors.Clone(appErrors.ErrConflict, duplicateInternIDMessage)
	}

	cert := certificateFromRecord(rec)
	if err := s.repo.Create(ctx, cert); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, appErrors.Clone(appErrors.ErrConflict, duplicateInternIDMessage)
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create certificate")
	}

	s.logger.Info("certificate issued", zap.String("intern_id", cert.InternID))
	return cert, nil, nil
}

// Get fetches a certificate by intern ID.
func (s *CertificateService) Get(ctx context.Context, internID string) (*models.Certificate, error) {
	internID = strings.ToUpper(strings.TrimSpace(internID))
	cert, err := s.repo.FindByInternID(ctx, internID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch certificate")
	}
	return cert, nil
}

// List returns certificates matching the filter along with the total count.
func (s *CertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	certificates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	return certificates, total, nil
}

// Verify resolves a public verification lookup. A revoked or missing
// certificate produces a failure payload, not an error; errors are reserved
// for infrastructure problems.
func (s *CertificateService) Verify(ctx context.Context, internID string) (*dto.VerificationSuccess, *dto.VerificationFailure, error) {
	internID = strings.ToUpper(strings.TrimSpace(internID))
	cacheKey := "verify:" + internID

	if s.cache != nil {
		var cached dto.VerificationSuccess
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			s.metrics.ObserveVerification("valid")
			return &cached, nil, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	cert, err := s.repo.FindByInternID(ctx, internID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.ObserveVerification("not_found")
			return nil, &dto.VerificationFailure{Valid: false, Message: "No certificate found for this Intern ID"}, nil
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify certificate")
	}

	if cert.Status == models.CertificateStatusRevoked {
		s.metrics.ObserveVerification("revoked")
		return nil, &dto.VerificationFailure{Valid: false, Message: "This certificate has been revoked"}, nil
	}

	result := &dto.VerificationSuccess{
		Valid:          true,
		Name:           cert.Name,
		Domain:         cert.Domain,
		Duration:       cert.Duration,
		InternID:       cert.InternID,
		StartingDate:   cert.StartingDate,
		CompletionDate: cert.CompletionDate,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache verification", zap.String("intern_id", internID), zap.Error(err))
		}
	}

	s.metrics.ObserveVerification("valid")
	return result, nil, nil
}

// Update applies the provided fields to an existing certificate. Date fields
// must parse in one of the accepted layouts and are stored canonically.
func (s *CertificateService) Update(ctx context.Context, internID string, req UpdateCertificateRequest) (*models.Certificate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate payload")
	}

	cert, err := s.Get(ctx, internID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cert.Name = strings.TrimSpace(*req.Name)
	}
	if req.Domain != nil {
		cert.Domain = strings.TrimSpace(*req.Domain)
	}
	if req.Duration != nil {
		cert.Duration = *req.Duration
	}
	if req.StartingDate != nil {
		canonical, ok := canonicalDate(*req.StartingDate)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "startingDate must be a valid date in DD-MM-YYYY or YYYY-MM-DD format")
		}
		cert.StartingDate = canonical
	}
	if req.CompletionDate != nil {
		canonical, ok := canonicalDate(*req.CompletionDate)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "completionDate must be a valid date in DD-MM-YYYY or YYYY-MM-DD format")
		}
		cert.CompletionDate = canonical
	}
	if req.Email != nil {
		cert.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Status != nil {
		cert.Status = *req.Status
	}

	if err := s.repo.Update(ctx, cert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update certificate")
	}

	s.invalidateVerification(ctx, cert.InternID)
	return cert, nil
}

// Revoke marks a certificate as revoked so verification stops vouching for it.
func (s *CertificateService) Revoke(ctx context.Context, internID string) (*models.Certificate, error) {
	status := models.CertificateStatusRevoked
	return s.Update(ctx, internID, UpdateCertificateRequest{Status: &status})
}

// Delete removes a certificate permanently.
func (s *CertificateService) Delete(ctx context.Context, internID string) error {
	cert, err := s.Get(ctx, internID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, cert.InternID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete certificate")
	}
	s.invalidateVerification(ctx, cert.InternID)
	return nil
}

// RenderPDF produces the printable certificate document.
func (s *CertificateService) RenderPDF(ctx context.Context, internID string) ([]byte, error) {
	cert, err := s.Get(ctx, internID)
	if err != nil {
		return nil, err
	}
	doc := export.CertificateDocument{
		InternID:       cert.InternID,
		Name:           cert.Name,
		Domain:         cert.Domain,
		DurationMonths: cert.Duration,
		StartingDate:   cert.StartingDate,
		CompletionDate: cert.CompletionDate,
	}
	if cert.MentorName != nil {
		doc.MentorName = *cert.MentorName
	}
	data, err := s.pdf.RenderCertificate(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate PDF")
	}
	return data, nil
}

func (s *CertificateService) invalidateVerification(ctx context.Context, internID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "verify:"+internID); err != nil {
		s.logger.Warn("failed to invalidate verification cache", zap.String("intern_id", internID), zap.Error(err))
	}
}

// canonicalDate parses a date in any accepted layout and reformats it into
// the canonical DD-MM-YYYY form.
func canonicalDate(value string) (string, bool) {
	t, ok := importer.ParseDate(strings.TrimSpace(value))
	if !ok {
		return "", false
	}
	return importer.CanonicalDate(t), true
}
