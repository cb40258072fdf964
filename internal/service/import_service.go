package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/dto"
	"github.com/noah-isme/certify-api/internal/importer"
	"github.com/noah-isme/certify-api/internal/models"
	"github.com/noah-isme/certify-api/internal/repository"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
)

const duplicateInternIDMessage = "Certificate with this Intern ID already exists"

type importCertificateRepository interface {
	FindByInternID(ctx context.Context, internID string) (*models.Certificate, error)
	Create(ctx context.Context, cert *models.Certificate) error
}

// ImportService coordinates bulk certificate ingestion. Each row passes
// through normalize, validate, duplicate-check and insert independently; a
// failure in one row never aborts the batch.
type ImportService struct {
	repo     importCertificateRepository
	maxBatch int
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewImportService constructs the import service.
func NewImportService(repo importCertificateRepository, maxBatch int, logger *zap.Logger, metrics *MetricsService) *ImportService {
	if maxBatch <= 0 {
		maxBatch = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{repo: repo, maxBatch: maxBatch, logger: logger, metrics: metrics}
}

// MaxBatch exposes the configured batch cap.
func (s *ImportService) MaxBatch() int {
	return s.maxBatch
}

// Import runs a batch through the pipeline and returns the tri-partition
// report. The report is built as a fold over the rows; the only side effect
// is one insert per valid, non-duplicate row. An oversize batch is rejected
// upfront with nothing processed.
func (s *ImportService) Import(ctx context.Context, req dto.BulkImportRequest) (*dto.ImportReport, error) {
	if len(req.Certificates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "certificates must be a non-empty array")
	}
	if len(req.Certificates) > s.maxBatch {
		return nil, appErrors.Clone(appErrors.ErrBatchTooLarge,
			fmt.Sprintf("batch of %d exceeds the maximum of %d certificates", len(req.Certificates), s.maxBatch))
	}

	report := &dto.ImportReport{
		Counts:     dto.ImportCounts{Total: len(req.Certificates)},
		Successful: make([]dto.ImportSuccess, 0, len(req.Certificates)),
		Failed:     make([]dto.ImportFailure, 0),
		Skipped:    make([]dto.ImportSkip, 0),
	}

	for i, raw := range req.Certificates {
		outcome := s.processRow(ctx, i+1, raw)
		switch {
		case outcome.success != nil:
			report.Successful = append(report.Successful, *outcome.success)
			report.Counts.Successful++
			s.metrics.ObserveImportOutcome("successful")
		case outcome.skip != nil:
			report.Skipped = append(report.Skipped, *outcome.skip)
			report.Counts.Skipped++
			s.metrics.ObserveImportOutcome("skipped")
		default:
			report.Failed = append(report.Failed, *outcome.failure)
			report.Counts.Failed++
			s.metrics.ObserveImportOutcome("failed")
		}
	}

	s.logger.Info("bulk import processed",
		zap.Int("total", report.Counts.Total),
		zap.Int("successful", report.Counts.Successful),
		zap.Int("failed", report.Counts.Failed),
		zap.Int("skipped", report.Counts.Skipped),
	)

	return report, nil
}

type rowOutcome struct {
	success *dto.ImportSuccess
	failure *dto.ImportFailure
	skip    *dto.ImportSkip
}

// processRow resolves a single row to exactly one outcome. A panic while
// processing is converted into a failure for that row only.
func (s *ImportService) processRow(ctx context.Context, index int, raw map[string]interface{}) (out rowOutcome) {
	internID := ""
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while importing row", zap.Int("index", index), zap.Any("panic", r))
			out = rowOutcome{failure: &dto.ImportFailure{
				Index:    index,
				InternID: internID,
				Errors:   []string{"unexpected error while processing record"},
			}}
		}
	}()

	rec := importer.Normalize(raw)
	internID = rec.InternID

	if defects := importer.Validate(rec); len(defects) > 0 {
		return rowOutcome{failure: &dto.ImportFailure{Index: index, InternID: rec.InternID, Errors: defects}}
	}

	existing, err := s.repo.FindByInternID(ctx, rec.InternID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return rowOutcome{failure: &dto.ImportFailure{
			Index:    index,
			InternID: rec.InternID,
			Errors:   []string{"failed to check for an existing certificate"},
		}}
	}
	if existing != nil {
		return rowOutcome{skip: &dto.ImportSkip{Index: index, InternID: rec.InternID, Reason: duplicateInternIDMessage}}
	}

	cert := certificateFromRecord(rec)
	if err := s.repo.Create(ctx, cert); err != nil {
		// The duplicate check above is only an optimistic fast path; a row
		// losing the race to a concurrent insert lands here.
		message := "failed to persist certificate"
		if repository.IsUniqueViolation(err) {
			message = duplicateInternIDMessage
		}
		s.logger.Warn("import row insert failed", zap.Int("index", index), zap.String("intern_id", rec.InternID), zap.Error(err))
		return rowOutcome{failure: &dto.ImportFailure{Index: index, InternID: rec.InternID, Errors: []string{message}}}
	}

	return rowOutcome{success: &dto.ImportSuccess{Index: index, InternID: cert.InternID, Name: cert.Name}}
}

// certificateFromRecord maps a canonical record onto the persistence model.
func certificateFromRecord(rec importer.Record) *models.Certificate {
	cert := &models.Certificate{
		InternID:       rec.InternID,
		Name:           rec.Name,
		Domain:         rec.Domain,
		StartingDate:   rec.StartingDate,
		CompletionDate: rec.CompletionDate,
		Email:          rec.Email,
		Status:         models.CertificateStatus(rec.Status),
	}
	if rec.Duration != nil {
		cert.Duration = *rec.Duration
	}
	if rec.Mentor != nil {
		if rec.Mentor.Name != "" {
			name := rec.Mentor.Name
			cert.MentorName = &name
		}
		if rec.Mentor.Email != "" {
			email := rec.Mentor.Email
			cert.MentorEmail = &email
		}
		if rec.Mentor.ContactNo != "" {
			contact := rec.Mentor.ContactNo
			cert.MentorContact = &contact
		}
	}
	return cert
}
