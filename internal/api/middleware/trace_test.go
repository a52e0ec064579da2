package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	base, logs := logger.GetTestLogger(t)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	TraceMiddleware(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/publicacion", nil))

	require.Len(t, seen, 32)
	assert.Equal(t, seen, rec.Header().Get(TraceIDHeader))
	logger.AssertLogContains(t, logs, "request started")
	logger.AssertLogContains(t, logs, "inside handler")
	logger.AssertLogContains(t, logs, seen)
}

func TestTraceMiddleware_FreshIDPerRequest(t *testing.T) {
	h := TraceMiddleware(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	first, second := httptest.NewRecorder(), httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, first.Header().Get(TraceIDHeader))
	assert.NotEqual(t, first.Header().Get(TraceIDHeader), second.Header().Get(TraceIDHeader))
}
