package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"engezna/internal/importer"
	"engezna/internal/model"
	"engezna/internal/service/excel"
)

type upload struct {
	filename string
	data     []byte
}

// readUpload reads the "file" form field, enforcing size and extension.
func (h *Handler) readUpload(c *gin.Context) (*upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+(1<<20))

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(c, http.StatusRequestEntityTooLarge, codeTooLarge, fmt.Sprintf("file exceeds %d MB", h.maxUpload>>20))
			return nil, false
		}
		errorResponse(c, http.StatusBadRequest, codeBadRequest, "missing upload field \"file\"")
		return nil, false
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		errorResponse(c, http.StatusRequestEntityTooLarge, codeTooLarge, fmt.Sprintf("file exceeds %d MB", h.maxUpload>>20))
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		errorResponse(c, http.StatusBadRequest, codeBadFile, "only .xlsx and .xlsm workbooks are supported")
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, codeBadFile, "failed to read upload")
		return nil, false
	}
	return &upload{filename: header.Filename, data: data}, true
}

// Import extracts an uploaded workbook and streams progress as server-sent events.
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	var overrides map[string]model.ManualMapping
	if raw := c.PostForm("overrides"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			errorResponse(c, http.StatusBadRequest, codeBadMapping, "invalid overrides: "+err.Error())
			return
		}
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, http.StatusInternalServerError, codeInternal, "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	events := h.coordinator.Import(c.Request.Context(), importer.ImportOptions{
		Filename:  up.filename,
		Data:      up.data,
		Overrides: overrides,
	})

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			h.log.Warn().Err(err).Str("event", event.Type).Msg("failed to encode progress event")
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

// Preview detects the columns of every sheet of an uploaded workbook.
// POST /api/import/preview
func (h *Handler) Preview(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	previews, err := h.coordinator.Preview(up.data)
	if err != nil {
		h.extractionError(c, err)
		return
	}
	success(c, gin.H{
		"filename": up.filename,
		"sheets":   previews,
	})
}

// Extract runs extraction over sheets sent as JSON. With ?format=xlsx the result is
// returned as a review workbook.
// POST /api/import/extract
func (h *Handler) Extract(c *gin.Context) {
	var req model.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, codeBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.coordinator.Extract(c.Request.Context(), req)
	if err != nil {
		h.extractionError(c, err)
		return
	}
	if c.Query("format") == "xlsx" {
		h.writeReview(c, result)
		return
	}
	success(c, result)
}

// writeReview sends the result as a review workbook download
func (h *Handler) writeReview(c *gin.Context, result *model.MultiSheetResult) {
	f, err := excel.NewExporter().Export(result)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, codeInternal, "failed to build review workbook")
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, codeInternal, "failed to build review workbook")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="catalog-review.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Detect detects the columns of one sheet sent as JSON.
// POST /api/import/detect
func (h *Handler) Detect(c *gin.Context) {
	var req model.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, codeBadRequest, "invalid request: "+err.Error())
		return
	}
	success(c, h.coordinator.Detect(req))
}

func (h *Handler) extractionError(c *gin.Context, err error) {
	var sheetErr *excel.SheetError
	switch {
	case errors.As(err, &sheetErr):
		errorResponse(c, http.StatusUnprocessableEntity, codeBadMapping, sheetErr.Error())
	case errors.Is(err, excel.ErrNoUsableSheets), errors.Is(err, excel.ErrEmptyWorkbook):
		errorResponse(c, http.StatusUnprocessableEntity, codeNoSheets, err.Error())
	default:
		h.log.Warn().Err(err).Msg("extraction failed")
		errorResponse(c, http.StatusBadRequest, codeBadFile, err.Error())
	}
}
