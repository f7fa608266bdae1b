// Package api exposes the extraction engine over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"engezna/internal/importer"
)

// error codes carried in Response.Code
const (
	codeOK           = 0
	codeBadRequest   = 1001
	codeBadFile      = 1002
	codeTooLarge     = 1003
	codeNoSheets     = 2001
	codeBadMapping   = 2002
	codeNotFound     = 3001
	codeInternal     = 5000
	defaultMaxUpload = 20 << 20
)

// Handler HTTP handlers
type Handler struct {
	coordinator *importer.Coordinator
	maxUpload   int64
	version     string
	log         zerolog.Logger
}

// HandlerOptions handler settings
type HandlerOptions struct {
	MaxUploadBytes int64
	Version        string
	Logger         zerolog.Logger
}

// NewHandler creates the API handler
func NewHandler(coordinator *importer.Coordinator, opts HandlerOptions) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	return &Handler{
		coordinator: coordinator,
		maxUpload:   opts.MaxUploadBytes,
		version:     opts.Version,
		log:         opts.Logger,
	}
}

// RegisterRoutes registers the API under router
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/patterns", h.GetPatterns)

	// workbook upload
	router.POST("/import", h.Import)
	router.POST("/import/preview", h.Preview)

	// pre-read sheets
	router.POST("/import/extract", h.Extract)
	router.POST("/import/detect", h.Detect)

	router.GET("/imports", h.ListImports)
	router.GET("/imports/:id", h.GetImport)
}

// Response JSON envelope
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    codeOK,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: message,
	})
}
