package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/certify-api/internal/models"
	"github.com/noah-isme/certify-api/internal/service"
)

func newCertificateTestHandler(store *fakeCertificateStore) *CertificateHandler {
	svc := service.NewCertificateService(store, nil, time.Minute, zap.NewNop(), nil)
	return NewCertificateHandler(svc)
}

func TestCertificateHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCertificateTestHandler(newFakeCertificateStore())

	body := `{"internId":"itid00001","name":"jane doe","domain":"Web Development","duration":6,"startingDate":"2024-01-01","completionDate":"01-07-2024"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/certificates", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "ITID00001", data["internId"])
	assert.Equal(t, "Jane Doe", data["name"])
}

func TestCertificateHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCertificateStore()
	store.store["ITID00001"] = &models.Certificate{InternID: "ITID00001"}
	handler := newCertificateTestHandler(store)

	body := `{"internId":"ITID00001","name":"Jane Doe","domain":"Web Development","duration":6,"startingDate":"01-01-2024","completionDate":"01-07-2024"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/certificates", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Certificate with this Intern ID already exists", payload["message"])
}

func TestCertificateHandlerCreateValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCertificateTestHandler(newFakeCertificateStore())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/certificates", bytes.NewBufferString(`{"name":"Jane"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Validation failed", payload["message"])
	assert.NotEmpty(t, payload["errors"])
}

func TestCertificateHandlerVerifyWireFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCertificateStore()
	store.store["ITID00001"] = &models.Certificate{
		InternID:       "ITID00001",
		Name:           "Jane Doe",
		Domain:         "Web Development",
		Duration:       6,
		StartingDate:   "01-01-2024",
		CompletionDate: "01-07-2024",
		Status:         models.CertificateStatusActive,
	}
	handler := newCertificateTestHandler(store)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/verify/ITID00001", nil)
	c.Params = gin.Params{{Key: "internId", Value: "ITID00001"}}

	handler.Verify(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	// keys are the literal display labels
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["valid"])
	assert.Equal(t, "ITID00001", payload["Intern ID"])
	assert.Equal(t, "01-01-2024", payload["Starting Date"])
	assert.Equal(t, "01-07-2024", payload["Completion Date"])
	assert.Equal(t, "Jane Doe", payload["Name"])
	assert.Equal(t, float64(6), payload["Duration"])
}

func TestCertificateHandlerVerifyMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCertificateTestHandler(newFakeCertificateStore())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/verify/ITID00404", nil)
	c.Params = gin.Params{{Key: "internId", Value: "ITID00404"}}

	handler.Verify(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["valid"])
	assert.Equal(t, "No certificate found for this Intern ID", payload["message"])
}

func TestCertificateHandlerVerifyRevoked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCertificateStore()
	store.store["ITID00001"] = &models.Certificate{InternID: "ITID00001", Status: models.CertificateStatusRevoked}
	handler := newCertificateTestHandler(store)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/verify/ITID00001", nil)
	c.Params = gin.Params{{Key: "internId", Value: "ITID00001"}}

	handler.Verify(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["valid"])
	assert.Equal(t, "This certificate has been revoked", payload["message"])
}

func TestCertificateHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeCertificateStore()
	store.store["ITID00001"] = &models.Certificate{InternID: "ITID00001"}
	handler := newCertificateTestHandler(store)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/certificates/ITID00001", nil)
	c.Params = gin.Params{{Key: "internId", Value: "ITID00001"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.store)
}
