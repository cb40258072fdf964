package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/dto"
	"github.com/noah-isme/certify-api/internal/models"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
)

type mockCertificateRepo struct {
	store       map[string]*models.Certificate
	createErrOn map[string]error
	findErrOn   map[string]error
	createCalls int
	deleted     []string
}

func newMockCertificateRepo() *mockCertificateRepo {
	return &mockCertificateRepo{
		store:       make(map[string]*models.Certificate),
		createErrOn: make(map[string]error),
		findErrOn:   make(map[string]error),
	}
}

func (m *mockCertificateRepo) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	certificates := make([]models.Certificate, 0, len(m.store))
	for _, cert := range m.store {
		certificates = append(certificates, *cert)
	}
	return certificates, len(certificates), nil
}

func (m *mockCertificateRepo) FindByInternID(ctx context.Context, internID string) (*models.Certificate, error) {
	if err, ok := m.findErrOn[internID]; ok {
		return nil, err
	}
	cert, ok := m.store[internID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *cert
	return &copied, nil
}

func (m *mockCertificateRepo) ExistsByInternID(ctx context.Context, internID string) (bool, error) {
	if err, ok := m.findErrOn[internID]; ok {
		return false, err
	}
	_, ok := m.store[internID]
	return ok, nil
}

func (m *mockCertificateRepo) Create(ctx context.Context, cert *models.Certificate) error {
	m.createCalls++
	if err, ok := m.createErrOn[cert.InternID]; ok {
		return err
	}
	if _, exists := m.store[cert.InternID]; exists {
		return &pq.Error{Code: "23505"}
	}
	copied := *cert
	m.store[cert.InternID] = &copied
	return nil
}

func (m *mockCertificateRepo) Update(ctx context.Context, cert *models.Certificate) error {
	copied := *cert
	m.store[cert.InternID] = &copied
	return nil
}

func (m *mockCertificateRepo) Delete(ctx context.Context, internID string) error {
	delete(m.store, internID)
	m.deleted = append(m.deleted, internID)
	return nil
}

func validRow(internID string) map[string]interface{} {
	return map[string]interface{}{
		"internId":       internID,
		"name":           "jane doe",
		"domain":         "Web Development",
		"duration":       float64(6),
		"startingDate":   "2024-01-15",
		"completionDate": "15-07-2024",
	}
}

func newImportService(repo *mockCertificateRepo) *ImportService {
	return NewImportService(repo, 1000, zap.NewNop(), nil)
}

func TestImportPartitionsOutcomes(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00002"] = &models.Certificate{InternID: "ITID00002", Name: "Existing"}
	svc := newImportService(repo)

	rows := []map[string]interface{}{
		validRow("ITID00001"),
		validRow("ITID00002"),
		{"name": "No Id", "domain": "Design"},
	}

	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Counts.Total)
	assert.Equal(t, 1, report.Counts.Successful)
	assert.Equal(t, 1, report.Counts.Skipped)
	assert.Equal(t, 1, report.Counts.Failed)

	require.Len(t, report.Successful, 1)
	assert.Equal(t, 1, report.Successful[0].Index)
	assert.Equal(t, "ITID00001", report.Successful[0].InternID)
	assert.Equal(t, "Jane Doe", report.Successful[0].Name)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].Index)
	assert.Equal(t, "Certificate with this Intern ID already exists", report.Skipped[0].Reason)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, 3, report.Failed[0].Index)
	assert.Contains(t, report.Failed[0].Errors, "internId is required")
}

func TestImportAcceptsDisplayNameKeys(t *testing.T) {
	repo := newMockCertificateRepo()
	svc := newImportService(repo)

	rows := []map[string]interface{}{{
		"Intern ID":       "itid00042",
		"Name":            "GRACE HOPPER",
		"Domain":          "Data Science",
		"Duration":        "3",
		"Starting Date":   float64(45641),
		"Completion Date": "15-03-2025",
	}}

	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.NoError(t, err)
	require.Equal(t, 1, report.Counts.Successful)

	stored := repo.store["ITID00042"]
	require.NotNil(t, stored)
	assert.Equal(t, "Grace Hopper", stored.Name)
	assert.Equal(t, 3, stored.Duration)
	assert.Equal(t, "15-12-2024", stored.StartingDate)
	assert.Equal(t, "15-03-2025", stored.CompletionDate)
}

func TestImportReimportIsAllSkipped(t *testing.T) {
	repo := newMockCertificateRepo()
	svc := newImportService(repo)
	rows := []map[string]interface{}{validRow("ITID00001"), validRow("ITID00002")}

	first, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Counts.Successful)

	second, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Counts.Successful)
	assert.Equal(t, 2, second.Counts.Skipped)
}

func TestImportInBatchDuplicateSkipsSecond(t *testing.T) {
	repo := newMockCertificateRepo()
	svc := newImportService(repo)
	rows := []map[string]interface{}{validRow("ITID00001"), validRow("itid00001")}

	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Counts.Successful)
	assert.Equal(t, 1, report.Counts.Skipped)
	assert.Equal(t, 2, report.Skipped[0].Index)
}

func TestImportRowFailureIsIsolated(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.createErrOn["ITID00002"] = errors.New("connection reset")
	svc := newImportService(repo)

	rows := []map[string]interface{}{validRow("ITID00001"), validRow("ITID00002"), validRow("ITID00003")}
	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Counts.Successful)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 2, report.Failed[0].Index)
	assert.Contains(t, report.Failed[0].Errors, "failed to persist certificate")
}

func TestImportLostInsertRaceIsFailed(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.createErrOn["ITID00001"] = &pq.Error{Code: "23505"}
	svc := newImportService(repo)

	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: []map[string]interface{}{validRow("ITID00001")}})
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Errors, "Certificate with this Intern ID already exists")
}

func TestImportDuplicateCheckErrorFailsRow(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.findErrOn["ITID00001"] = errors.New("timeout")
	svc := newImportService(repo)

	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: []map[string]interface{}{validRow("ITID00001"), validRow("ITID00002")}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Counts.Failed)
	assert.Equal(t, 1, report.Counts.Successful)
	assert.Equal(t, 1, repo.createCalls)
}

func TestImportRejectsOversizeBatchWithoutProcessing(t *testing.T) {
	repo := newMockCertificateRepo()
	svc := newImportService(repo)

	rows := make([]map[string]interface{}, 1001)
	for i := range rows {
		rows[i] = validRow(fmt.Sprintf("ITID%05d", i))
	}

	_, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: rows})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBatchTooLarge.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.createCalls)

	exact := rows[:1000]
	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: exact})
	require.NoError(t, err)
	assert.Equal(t, 1000, report.Counts.Successful)
}

func TestImportRejectsEmptyBatch(t *testing.T) {
	svc := newImportService(newMockCertificateRepo())
	_, err := svc.Import(context.Background(), dto.BulkImportRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportUnparseableDateFailsValidation(t *testing.T) {
	svc := newImportService(newMockCertificateRepo())
	row := validRow("ITID00001")
	row["startingDate"] = "sometime soon"

	report, err := svc.Import(context.Background(), dto.BulkImportRequest{Certificates: []map[string]interface{}{row}})
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	joined := strings.Join(report.Failed[0].Errors, "; ")
	assert.Contains(t, joined, "startingDate must be a valid date")
}

func TestImportReportMessage(t *testing.T) {
	report := &dto.ImportReport{Counts: dto.ImportCounts{Total: 5, Successful: 3, Failed: 1, Skipped: 1}}
	assert.Equal(t, "Processed 5 certificates. 3 successful, 1 failed, 1 skipped.", report.Message())
}
