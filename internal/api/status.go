package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"engezna/internal/parser"
)

// StatusResponse service status
type StatusResponse struct {
	Version        string     `json:"version"`
	LastImportID   string     `json:"lastImportId,omitempty"`
	LastImportTime *time.Time `json:"lastImportTime,omitempty"`
	LastStatus     string     `json:"lastStatus,omitempty"`
}

// GetStatus service status
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{Version: h.version}

	runs, err := h.coordinator.ListRuns(1)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read last import")
		errorResponse(c, http.StatusInternalServerError, codeInternal, "failed to read status")
		return
	}
	if len(runs) > 0 {
		last := runs[0]
		resp.LastImportID = last.ID
		resp.LastImportTime = &last.CreatedAt
		resp.LastStatus = string(last.Status)
	}
	success(c, resp)
}

// GetPatterns header keywords and variant groups used by detection
// GET /api/patterns
func (h *Handler) GetPatterns(c *gin.Context) {
	success(c, parser.Snapshot())
}
