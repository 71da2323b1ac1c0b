package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/milkledger/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)

	var seenRequestID string
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{ErrorClassifier: func(error) string { return "store_error" }}))
	r.GET("/customers", func(c *gin.Context) {
		seenRequestID = obscontext.RequestIDFromContext(c.Request.Context())
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("X-Request-Id", "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-7", seenRequestID)
	assert.Equal(t, "req-7", w.Header().Get("X-Request-Id"))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/customers", fields["route"])
	assert.Equal(t, "store_error", fields["error_type"])
	assert.Equal(t, "req-7", fields["request_id"])
}

func TestGinMiddlewareTagsResourceAndEntity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)

	var resource string
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{ErrorClassifier: func(error) string { return "not_found" }}))
	r.DELETE("/records/:id", func(c *gin.Context) {
		resource = obscontext.ResourceFromContext(c.Request.Context())
		_ = c.Error(errors.New("record not found"))
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/records/1234", nil))

	assert.Equal(t, obscontext.ResourceRecord, resource)
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "1234", fields["entity_id"])
	assert.Equal(t, "record", fields["resource"])
	assert.Equal(t, "not_found", fields["error_type"])
	_, hasError := fields["error"]
	assert.False(t, hasError)
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Len(t, w.Header().Get("X-Request-Id"), 36)
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewGormLogger(zap.New(core), false)
	ctx := context.Background()
	begin := time.Now()
	query := func() (string, int64) { return "SELECT * FROM customers", 2 }

	l.Trace(ctx, begin, query, nil)
	assert.Equal(t, 0, logs.Len())

	l.Trace(ctx, begin, query, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	l.Trace(ctx, begin, query, errors.New("connection refused"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.ErrorLevel, entry.Level)
	assert.Equal(t, "SELECT", entry.ContextMap()["operation"])
	assert.Equal(t, "customers", entry.ContextMap()["table"])

	l.LogMode(gormlogger.Info).Trace(ctx, begin, query, nil)
	assert.Equal(t, 2, logs.Len())
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "INSERT", operationFromSQL(`INSERT INTO "customers" ("id") VALUES ($1)`))
	assert.Equal(t, "SELECT", operationFromSQL("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "milk_records", tableFromSQL("SELECT r.id FROM milk_records AS r INNER JOIN customers AS c ON c.id = r.customer_id"))
	assert.Equal(t, "customers", tableFromSQL(`UPDATE "customers" SET "is_active"=$1`))
	assert.Equal(t, "other", tableFromSQL("SELECT 1"))
}
