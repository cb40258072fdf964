package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/certify-api/internal/models"
)

// CertificateRepository manages persistence for certificate records. The
// unique index on intern_id is the authoritative guard against duplicate
// keys; the exists-check in callers is an optimistic fast path only.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs a CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

const certificateColumns = `id, intern_id, name, domain, duration, starting_date, completion_date, email, status, mentor_name, mentor_email, mentor_contact, created_at, updated_at`

// List returns certificates matching the provided filters.
func (r *CertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	base := "FROM certificates"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Domain != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(domain) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Domain))
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(intern_id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"intern_id":  "intern_id",
		"name":       "name",
		"domain":     "domain",
		"created_at": "created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", certificateColumns, base, column, order, size, offset)

	var certificates []models.Certificate
	if err := r.db.SelectContext(ctx, &certificates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list certificates: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}
	return certificates, total, nil
}

// FindByInternID fetches a certificate by its natural key.
func (r *CertificateRepository) FindByInternID(ctx context.Context, internID string) (*models.Certificate, error) {
	query := fmt.Sprintf("SELECT %s FROM certificates WHERE intern_id = $1", certificateColumns)
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, internID); err != nil {
		return nil, err
	}
	return &cert, nil
}

// ExistsByInternID checks if a certificate with the given key exists.
func (r *CertificateRepository) ExistsByInternID(ctx context.Context, internID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM certificates WHERE intern_id = $1 LIMIT 1", internID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check intern id: %w", err)
	}
	return true, nil
}

// Create inserts a new certificate record.
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}
	cert.UpdatedAt = now
	const query = `INSERT INTO certificates (id, intern_id, name, domain, duration, starting_date, completion_date, email, status, mentor_name, mentor_email, mentor_contact, created_at, updated_at)
        VALUES (:id, :intern_id, :name, :domain, :duration, :starting_date, :completion_date, :email, :status, :mentor_name, :mentor_email, :mentor_contact, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// Update modifies an existing certificate.
func (r *CertificateRepository) Update(ctx context.Context, cert *models.Certificate) error {
	cert.UpdatedAt = time.Now().UTC()
	const query = `UPDATE certificates SET name = :name, domain = :domain, duration = :duration, starting_date = :starting_date, completion_date = :completion_date, email = :email, status = :status, updated_at = :updated_at WHERE intern_id = :intern_id`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	return nil
}

// Delete removes a certificate by its natural key.
func (r *CertificateRepository) Delete(ctx context.Context, internID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM certificates WHERE intern_id = $1", internID); err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether the error is a Postgres unique constraint
// violation, the signal of a lost duplicate-check/insert race.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
