package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/certify-api/internal/models"
)

// ExportRepository tracks asynchronous roster export jobs.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository constructs an ExportRepository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts a pending export job.
func (r *ExportRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	const query = `INSERT INTO export_jobs (id, format, status, file_path, requested_by, error, created_at, updated_at, completed_at)
        VALUES (:id, :format, :status, :file_path, :requested_by, :error, :created_at, :updated_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// FindByID fetches an export job.
func (r *ExportRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, "SELECT * FROM export_jobs WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing moves a job into the processing state.
func (r *ExportRepository) MarkProcessing(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE export_jobs SET status = $2, updated_at = $3 WHERE id = $1", id, models.ExportJobProcessing, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export processing: %w", err)
	}
	return nil
}

// MarkCompleted stores the generated file path and completion time.
func (r *ExportRepository) MarkCompleted(ctx context.Context, id, filePath string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, "UPDATE export_jobs SET status = $2, file_path = $3, updated_at = $4, completed_at = $4 WHERE id = $1", id, models.ExportJobCompleted, filePath, now); err != nil {
		return fmt.Errorf("mark export completed: %w", err)
	}
	return nil
}

// MarkFailed records the failure reason.
func (r *ExportRepository) MarkFailed(ctx context.Context, id, reason string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE export_jobs SET status = $2, error = $3, updated_at = $4 WHERE id = $1", id, models.ExportJobFailed, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	return nil
}
