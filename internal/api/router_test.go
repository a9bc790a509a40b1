package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/magda-melody/internal/config"
	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(authMode string) *config.Config {
	return &config.Config{
		Environment:     "test",
		DefaultTempo:    120,
		DefaultLength:   16,
		MaxMelodyLength: 128,
		AuthMode:        authMode,
	}
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	router := SetupRouter(nil, testConfig("none"), "test", library.LearnedPatterns{}, nil)

	for _, path := range []string{"/health", "/api/metrics", "/api/v1/catalog"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestRouterGenerateEchoesRequestID(t *testing.T) {
	router := SetupRouter(nil, testConfig("none"), "test", library.LearnedPatterns{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/melodies/generate", bytes.NewBufferString(`{"length":8,"seed":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"request_id":"`+w.Header().Get("X-Request-ID")+`"`)
}

func TestRouterGatewayModeRequiresUser(t *testing.T) {
	router := SetupRouter(nil, testConfig("gateway"), "test", library.LearnedPatterns{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req.Header.Set("X-User-ID", "7")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays public
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
