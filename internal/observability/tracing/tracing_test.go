package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/milkledger/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
)

func TestSafeAttributesDropsCustomerData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/customers/:id"),
		attribute.String("customer.name", "Asha"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorKeepsPrefixOnly(t *testing.T) {
	err := SafeError(errors.New("list records: pq: relation does not exist"))
	assert.EqualError(t, err, "list records")
	assert.Nil(t, SafeError(nil))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOn")
	assert.Contains(t, sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestNewExporterRejectsUnknownProtocol(t *testing.T) {
	_, err := newExporter(t.Context(), "carrier-pigeon", "")
	assert.Error(t, err)
}

func TestGinMiddlewareStartsSpanAndCorrelation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := NewProvider(nil, Config{ServiceName: "milkledger-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var spanCtx trace.SpanContext
	var cid string
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		spanCtx = trace.SpanFromContext(c.Request.Context()).SpanContext()
		cid = correlation.ExtractCorrelationID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(correlation.HeaderName, "corr-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, spanCtx.TraceID().IsValid())
	assert.Equal(t, "corr-42", cid)
	assert.Equal(t, "corr-42", w.Header().Get(correlation.HeaderName))
}
