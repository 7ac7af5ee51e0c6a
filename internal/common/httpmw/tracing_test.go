package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOtelTracingPropagatesSpanContext(t *testing.T) {
	router := gin.New()
	router.Use(OtelTracing("test-server"))

	var span trace.Span
	router.GET("/agents/:agentId", func(c *gin.Context) {
		span = trace.SpanFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": c.Param("agentId")})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agents/a-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a-1")
	assert.NotNil(t, span)
}

func TestOtelTracingPreservesErrorStatus(t *testing.T) {
	router := gin.New()
	router.Use(OtelTracing("test-server"))
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
