package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"engezna/internal/importer"
)

// ListImports recorded imports, newest first
// GET /api/imports?limit=N
func (h *Handler) ListImports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		errorResponse(c, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
		return
	}

	runs, err := h.coordinator.ListRuns(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list imports")
		errorResponse(c, http.StatusInternalServerError, codeInternal, "failed to list imports")
		return
	}
	success(c, runs)
}

// GetImport one recorded import with its sheet detections
// GET /api/imports/:id
func (h *Handler) GetImport(c *gin.Context) {
	run, err := h.coordinator.GetRun(c.Param("id"))
	if err != nil {
		if importer.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, codeNotFound, "import not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to load import")
		errorResponse(c, http.StatusInternalServerError, codeInternal, "failed to load import")
		return
	}
	success(c, run)
}
