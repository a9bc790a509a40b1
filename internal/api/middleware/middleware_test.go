package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handlers...)
	router.GET("/whoami", func(c *gin.Context) {
		id, ok := GetUserIDFromGateway(c)
		c.JSON(http.StatusOK, gin.H{"user": id, "found": ok, "request_id": c.GetString("request_id")})
	})
	router.GET("/panic", func(_ *gin.Context) {
		panic("boom")
	})
	return router
}

func TestRequestTrackingAssignsID(t *testing.T) {
	router := newRouter(RequestTracking(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRequestTrackingKeepsGatewayID(t *testing.T) {
	router := newRouter(RequestTracking(nil))
	id := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), id)
}

func TestRequestTrackingReplacesInvalidID(t *testing.T) {
	router := newRouter(RequestTracking(nil))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEqual(t, "not-a-uuid", w.Header().Get("X-Request-ID"))
}

func TestGatewayAuthRequiresUserHeader(t *testing.T) {
	router := newRouter(GatewayAuth())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"42","found":true,"request_id":""}`, w.Body.String())
}

func TestNoAuthIsAnonymous(t *testing.T) {
	router := newRouter(NoAuth())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.JSONEq(t, `{"user":"anonymous","found":true,"request_id":""}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(CORS())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/whoami", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
}

func TestRecoverWithSentry(t *testing.T) {
	router := newRouter(RecoverWithSentry())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
