package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/certify-api/internal/models"
)

func newCertificateMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func certificateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "intern_id", "name", "domain", "duration", "starting_date", "completion_date", "email", "status", "mentor_name", "mentor_email", "mentor_contact", "created_at", "updated_at"}).
		AddRow("1", "ITID00001", "Jane Doe", "Web Development", 6, "01-01-2024", "01-07-2024", "jane@example.com", "active", nil, nil, nil, time.Now(), time.Now())
}

func TestCertificateRepositoryList(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM certificates WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WillReturnRows(certificateRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM certificates WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	certificates, total, err := repo.List(context.Background(), models.CertificateFilter{})
	require.NoError(t, err)
	assert.Len(t, certificates, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryFindByInternID(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM certificates WHERE intern_id = \$1`).
		WithArgs("ITID00001").
		WillReturnRows(certificateRows())

	cert, err := repo.FindByInternID(context.Background(), "ITID00001")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", cert.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryFindByInternIDMissing(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM certificates WHERE intern_id = \$1`).
		WithArgs("ITID00404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByInternID(context.Background(), "ITID00404")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCertificateRepositoryExistsByInternID(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM certificates WHERE intern_id = \$1 LIMIT 1`).
		WithArgs("ITID00001").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByInternID(context.Background(), "ITID00001")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(`SELECT 1 FROM certificates WHERE intern_id = \$1 LIMIT 1`).
		WithArgs("ITID00404").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.ExistsByInternID(context.Background(), "ITID00404")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCertificateMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectExec("INSERT INTO certificates").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cert := &models.Certificate{InternID: "ITID00001", Name: "Jane Doe", Domain: "Web Development", Duration: 6, StartingDate: "01-01-2024", CompletionDate: "01-07-2024", Status: models.CertificateStatusActive}
	err := repo.Create(context.Background(), cert)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}
