package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	handler := testutils.NewTestSlogHandler()
	base := slog.New(handler)

	var seenTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	NewTraceMiddleware(base)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/libros/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, seenTraceID)
	assert.Equal(t, seenTraceID, w.Header().Get(shared.TraceIDHeader))
	assert.True(t, handler.HasMessage("request started"))
	assert.True(t, handler.HasMessage("inside handler"))
}
