package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"engezna/internal/api"
	"engezna/internal/config"
	"engezna/internal/importer"
	"engezna/internal/service/excel"
	"engezna/internal/store"
)

// Server HTTP server
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	log    zerolog.Logger
	http   *http.Server
}

// NewServer creates the server and opens the database under the data directory
func NewServer(cfg *config.AppConfig, logger zerolog.Logger, version string) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "engezna.db"))
	if err != nil {
		return nil, err
	}

	uploadDir := ""
	if cfg.Data.KeepUploads {
		uploadDir = filepath.Join(dataDir, "uploads")
	}

	coordinator := importer.NewCoordinator(sqliteStore, importer.Options{
		Extractor: excel.ExtractorOptions{
			LowConfidence:   cfg.Import.ConfidenceThreshold,
			DefaultCategory: cfg.Import.DefaultCategory,
			Concurrency:     cfg.Import.Concurrency,
		},
		UploadDir: uploadDir,
		Logger:    logger,
	})

	s := &Server{
		router: gin.New(),
		store:  sqliteStore,
		api: api.NewHandler(coordinator, api.HandlerOptions{
			MaxUploadBytes: int64(cfg.Import.MaxUploadMB) << 20,
			Version:        version,
			Logger:         logger,
		}),
		log: logger,
	}
	s.setupRoutes()
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLogger())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	s.router.GET("/healthz", func(c *gin.Context) {
		if err := s.store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evt := s.log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = s.log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// Handler root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run serves until Shutdown is called
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes the database
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(s.http.Shutdown(ctx), s.store.Close())
}

// GetStore returns the store (for tests)
func (s *Server) GetStore() *store.Store {
	return s.store
}
