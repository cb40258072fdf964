package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runCORS(t *testing.T, allowed []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, "/verify/ITID00001", nil)
	if origin != "" {
		c.Request.Header.Set("Origin", origin)
	}
	New(allowed)(c)
	return rec
}

func TestCORSOpenConfigAllowsAnyPage(t *testing.T) {
	rec := runCORS(t, nil, http.MethodGet, "https://partner.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSListedOriginGetsCredentials(t *testing.T) {
	rec := runCORS(t, []string{"https://admin.example/"}, http.MethodGet, "https://admin.example")
	assert.Equal(t, "https://admin.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSUnlistedOriginGetsNothing(t *testing.T) {
	rec := runCORS(t, []string{"https://admin.example"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	rec := runCORS(t, nil, http.MethodOptions, "https://partner.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
