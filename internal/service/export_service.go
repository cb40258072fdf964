package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/models"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
	"github.com/noah-isme/certify-api/pkg/export"
	"github.com/noah-isme/certify-api/pkg/jobs"
	"github.com/noah-isme/certify-api/pkg/storage"
)

type exportCertificateLister interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error)
}

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// ExportConfig tunes the export worker pool and file retention.
type ExportConfig struct {
	Workers         int
	Retries         int
	CleanupInterval time.Duration
	FileTTL         time.Duration
}

// ExportStatus is the job status payload returned to clients, including a
// signed download token once the file is ready.
type ExportStatus struct {
	Job           *models.ExportJob `json:"job"`
	DownloadToken string            `json:"download_token,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
}

// ExportService generates certificate roster files asynchronously. Requests
// create a pending job row; workers render the file and flip the job state.
type ExportService struct {
	certs   exportCertificateLister
	repo    exportJobRepository
	files   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	queue   *jobs.Queue
	cfg     ExportConfig
	logger  *zap.Logger
	cleanup context.CancelFunc
}

// NewExportService constructs the export service and its worker queue.
func NewExportService(certs exportCertificateLister, repo exportJobRepository, files *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		certs:  certs,
		repo:   repo,
		files:  files,
		signer: signer,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		cfg:    cfg,
		logger: logger,
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and the retention sweeper.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)

	if s.cfg.CleanupInterval > 0 && s.cfg.FileTTL > 0 {
		cleanupCtx, cancel := context.WithCancel(ctx)
		s.cleanup = cancel
		go s.sweep(cleanupCtx)
	}
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	if s.cleanup != nil {
		s.cleanup()
	}
	s.queue.Stop()
}

// Request creates a pending export job and enqueues it for rendering.
func (s *ExportService) Request(ctx context.Context, format models.ExportFormat, requestedBy string) (*models.ExportJob, error) {
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ExportJob{
		Format:      format,
		Status:      models.ExportJobPending,
		RequestedBy: requestedBy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "roster_export", Payload: job.ID}); err != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, "queue unavailable"); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.String("job_id", job.ID), zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	s.logger.Info("export job queued", zap.String("job_id", job.ID), zap.String("format", string(format)))
	return job, nil
}

// Status returns a job with a signed download token once completed.
func (s *ExportService) Status(ctx context.Context, id string) (*ExportStatus, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch export job")
	}

	status := &ExportStatus{Job: job}
	if job.Status == models.ExportJobCompleted && job.FilePath != "" {
		token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		status.DownloadToken = token
		status.ExpiresAt = &expiresAt
	}
	return status, nil
}

// ResolveDownload validates a signed token and returns the local file path.
func (s *ExportService) ResolveDownload(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	return s.files.Path(relPath), nil
}

// process renders a queued export job. Errors returned here trigger the
// queue's retry policy; the job row is only marked failed on the final give-up.
func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	jobID, ok := job.Payload.(string)
	if !ok || jobID == "" {
		return fmt.Errorf("export job payload must be a job id")
	}

	record, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", jobID, err)
	}

	if err := s.repo.MarkProcessing(ctx, jobID); err != nil {
		return err
	}

	data, err := s.render(ctx, record.Format)
	if err != nil {
		if job.Attempt >= s.cfg.Retries {
			if markErr := s.repo.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
				s.logger.Warn("failed to mark export job failed", zap.String("job_id", jobID), zap.Error(markErr))
			}
		}
		return err
	}

	filename := fmt.Sprintf("rosters/%s.%s", jobID, record.Format)
	relPath, err := s.files.Save(filename, data)
	if err != nil {
		return err
	}

	if err := s.repo.MarkCompleted(ctx, jobID, relPath); err != nil {
		return err
	}

	s.logger.Info("export job completed", zap.String("job_id", jobID), zap.String("file", relPath))
	return nil
}

// render pages through every certificate and renders the roster in the
// requested format.
func (s *ExportService) render(ctx context.Context, format models.ExportFormat) ([]byte, error) {
	rows := make([]map[string]string, 0)

	page := 1
	for {
		certificates, total, err := s.certs.List(ctx, models.CertificateFilter{Page: page, PageSize: 100})
		if err != nil {
			return nil, fmt.Errorf("list certificates for export: %w", err)
		}
		for _, cert := range certificates {
			rows = append(rows, map[string]string{
				"Intern ID":       cert.InternID,
				"Name":            cert.Name,
				"Domain":          cert.Domain,
				"Duration":        strconv.Itoa(cert.Duration),
				"Starting Date":   cert.StartingDate,
				"Completion Date": cert.CompletionDate,
				"Status":          string(cert.Status),
			})
		}
		if len(rows) >= total || len(certificates) == 0 {
			break
		}
		page++
	}

	dataset := export.RosterDataset(rows)
	switch format {
	case models.ExportFormatCSV:
		return s.csv.Render(dataset)
	case models.ExportFormatPDF:
		return s.pdf.RenderTable(dataset, "Certificate Roster")
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (s *ExportService) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.files.CleanupOlderThan(s.cfg.FileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("expired export files removed", zap.Int("count", len(deleted)))
			}
		}
	}
}
