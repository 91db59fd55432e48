package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/pkg/logger"
)

type LogsHandler struct {
	logDir string
	mu     sync.Mutex
}

type LogBatchRequest struct {
	Logs []models.FrontendLogEntry `json:"logs" binding:"required,max=100,dive"`
}

func NewLogsHandler(logDir string) *LogsHandler {
	return &LogsHandler{
		logDir: logDir,
	}
}

// ReceiveFrontendLogs handles POST /api/v1/logs, the landing page's log sink
func (h *LogsHandler) ReceiveFrontendLogs(c *gin.Context) {
	var req LogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(req.Logs) == 0 {
		respondError(c, http.StatusBadRequest, "No logs provided", nil)
		return
	}

	if err := h.writeLogsToFile(req.Logs); err != nil {
		logger.Error("Failed to write frontend logs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to write logs", err)
		return
	}

	logger.Info("Received frontend logs", zap.Int("count", len(req.Logs)))
	c.JSON(http.StatusOK, gin.H{"success": true, "received": len(req.Logs)})
}

func (h *LogsHandler) writeLogsToFile(logs []models.FrontendLogEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(h.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(h.logDir, "frontend.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open frontend log file: %w", err)
	}
	defer f.Close()

	// One JSON line per entry, matching the backend log format
	encoder := json.NewEncoder(f)
	for _, entry := range logs {
		logLine := map[string]interface{}{
			"ts":      time.Now().UTC().Format(time.RFC3339Nano),
			"level":   entry.Level,
			"msg":     entry.Message,
			"service": "landing",
		}
		for k, v := range entry.Context {
			logLine[k] = v
		}

		if err := encoder.Encode(logLine); err != nil {
			return fmt.Errorf("failed to encode log entry: %w", err)
		}
	}

	return nil
}
