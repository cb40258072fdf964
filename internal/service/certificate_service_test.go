package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/models"
	appErrors "github.com/noah-isme/certify-api/pkg/errors"
)

type mockVerificationCache struct {
	entries map[string][]byte
	gets    int
	hits    int
}

func newMockVerificationCache() *mockVerificationCache {
	return &mockVerificationCache{entries: make(map[string][]byte)}
}

func (m *mockVerificationCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	m.hits++
	return json.Unmarshal(raw, dest)
}

func (m *mockVerificationCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockVerificationCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func newCertificateService(repo *mockCertificateRepo, cache *mockVerificationCache) *CertificateService {
	return NewCertificateService(repo, cache, time.Minute, zap.NewNop(), nil)
}

func TestCertificateServiceCreate(t *testing.T) {
	repo := newMockCertificateRepo()
	svc := newCertificateService(repo, newMockVerificationCache())

	cert, defects, err := svc.Create(context.Background(), validRow("itid00100"))
	require.NoError(t, err)
	require.Empty(t, defects)
	assert.Equal(t, "ITID00100", cert.InternID)
	assert.Equal(t, models.CertificateStatusActive, cert.Status)
	assert.NotNil(t, repo.store["ITID00100"])
}

func TestCertificateServiceCreateValidationDefects(t *testing.T) {
	svc := newCertificateService(newMockCertificateRepo(), newMockVerificationCache())

	_, defects, err := svc.Create(context.Background(), map[string]interface{}{"name": "Jane"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, defects, "internId is required")
	assert.Contains(t, defects, "domain is required")
}

func TestCertificateServiceCreateConflict(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100"}
	svc := newCertificateService(repo, newMockVerificationCache())

	_, _, err := svc.Create(context.Background(), validRow("ITID00100"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Certificate with this Intern ID already exists", appErr.Message)
}

func TestCertificateServiceCreateExistsCheckError(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.findErrOn["ITID00100"] = errors.New("connection reset")
	svc := newCertificateService(repo, newMockVerificationCache())

	_, _, err := svc.Create(context.Background(), validRow("ITID00100"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Zero(t, repo.createCalls)
}

func TestCertificateServiceVerify(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{
		InternID:       "ITID00100",
		Name:           "Jane Doe",
		Domain:         "Web Development",
		Duration:       6,
		StartingDate:   "01-01-2024",
		CompletionDate: "01-07-2024",
		Status:         models.CertificateStatusActive,
	}
	cache := newMockVerificationCache()
	svc := newCertificateService(repo, cache)

	success, failure, err := svc.Verify(context.Background(), "itid00100")
	require.NoError(t, err)
	require.Nil(t, failure)
	assert.True(t, success.Valid)
	assert.Equal(t, "ITID00100", success.InternID)
	assert.Equal(t, "01-01-2024", success.StartingDate)

	// second lookup is served from cache
	_, _, err = svc.Verify(context.Background(), "ITID00100")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}

func TestCertificateServiceVerifyMissing(t *testing.T) {
	svc := newCertificateService(newMockCertificateRepo(), newMockVerificationCache())

	success, failure, err := svc.Verify(context.Background(), "ITID00404")
	require.NoError(t, err)
	assert.Nil(t, success)
	require.NotNil(t, failure)
	assert.False(t, failure.Valid)
	assert.Equal(t, "No certificate found for this Intern ID", failure.Message)
}

func TestCertificateServiceVerifyRevoked(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100", Status: models.CertificateStatusRevoked}
	svc := newCertificateService(repo, newMockVerificationCache())

	success, failure, err := svc.Verify(context.Background(), "ITID00100")
	require.NoError(t, err)
	assert.Nil(t, success)
	require.NotNil(t, failure)
	assert.Equal(t, "This certificate has been revoked", failure.Message)
}

func TestCertificateServiceUpdateCanonicalisesDates(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100", StartingDate: "01-01-2024"}
	cache := newMockVerificationCache()
	cache.entries["verify:ITID00100"] = []byte(`{}`)
	svc := newCertificateService(repo, cache)

	start := "2024-02-01"
	cert, err := svc.Update(context.Background(), "ITID00100", UpdateCertificateRequest{StartingDate: &start})
	require.NoError(t, err)
	assert.Equal(t, "01-02-2024", cert.StartingDate)
	// cached verification is invalidated
	assert.NotContains(t, cache.entries, "verify:ITID00100")
}

func TestCertificateServiceUpdateRejectsBadDate(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100"}
	svc := newCertificateService(repo, newMockVerificationCache())

	bad := "soon"
	_, err := svc.Update(context.Background(), "ITID00100", UpdateCertificateRequest{CompletionDate: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCertificateServiceUpdateRejectsOutOfEnumStatus(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100", Status: models.CertificateStatusActive}
	svc := newCertificateService(repo, newMockVerificationCache())

	suspended := models.CertificateStatus("suspended")
	_, err := svc.Update(context.Background(), "ITID00100", UpdateCertificateRequest{Status: &suspended})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	// the stored record is untouched and still verifies
	assert.Equal(t, models.CertificateStatusActive, repo.store["ITID00100"].Status)

	success, failure, err := svc.Verify(context.Background(), "ITID00100")
	require.NoError(t, err)
	require.Nil(t, failure)
	assert.True(t, success.Valid)
}

func TestCertificateServiceUpdateRejectsBadEmail(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100"}
	svc := newCertificateService(repo, newMockVerificationCache())

	bad := "not-an-email"
	_, err := svc.Update(context.Background(), "ITID00100", UpdateCertificateRequest{Email: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCertificateServiceUpdateKeepsLenientDuration(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100", Duration: 6}
	svc := newCertificateService(repo, newMockVerificationCache())

	// zero and negative durations stay accepted, same as the import path
	zero := 0
	cert, err := svc.Update(context.Background(), "ITID00100", UpdateCertificateRequest{Duration: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, cert.Duration)
}

func TestCertificateServiceRevoke(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100", Status: models.CertificateStatusActive}
	svc := newCertificateService(repo, newMockVerificationCache())

	cert, err := svc.Revoke(context.Background(), "ITID00100")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusRevoked, cert.Status)
}

func TestCertificateServiceDelete(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100"}
	svc := newCertificateService(repo, newMockVerificationCache())

	require.NoError(t, svc.Delete(context.Background(), "ITID00100"))
	assert.Contains(t, repo.deleted, "ITID00100")

	err := svc.Delete(context.Background(), "ITID00100")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCertificateServiceRenderPDF(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.store["ITID00100"] = &models.Certificate{InternID: "ITID00100", Name: "Jane Doe", Domain: "Web Development", Duration: 6, StartingDate: "01-01-2024", CompletionDate: "01-07-2024", Status: models.CertificateStatusActive}
	svc := newCertificateService(repo, newMockVerificationCache())

	data, err := svc.RenderPDF(context.Background(), "ITID00100")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
