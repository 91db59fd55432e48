package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logsRouter(logDir string) *gin.Engine {
	handler := NewLogsHandler(logDir)
	router := gin.New()
	router.POST("/api/v1/logs", handler.ReceiveFrontendLogs)
	return router
}

func TestLogsHandler_ReceiveFrontendLogs(t *testing.T) {
	logDir := t.TempDir()

	body := []byte(`{"logs": [
		{"level": "error", "message": "dialog failed to open", "context": {"fragment": "formDialog"}},
		{"level": "info", "message": "page loaded"}
	]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/logs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	logsRouter(logDir).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":2`)

	written, err := os.ReadFile(filepath.Join(logDir, "frontend.log"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "dialog failed to open")
	assert.Contains(t, string(written), `"service":"landing"`)
	assert.Contains(t, string(written), `"fragment":"formDialog"`)
}

func TestLogsHandler_RejectsInvalidLevel(t *testing.T) {
	body := []byte(`{"logs": [{"level": "critical", "message": "boom"}]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/logs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	logsRouter(t.TempDir()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogsHandler_RejectsEmptyBatch(t *testing.T) {
	body := []byte(`{"logs": []}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/logs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	logsRouter(t.TempDir()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
