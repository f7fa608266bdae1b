package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engezna/internal/config"
	"engezna/internal/logging"
	"engezna/internal/server"
)

var version = "dev"

var (
	port     = flag.Int("port", 0, "listen port (only used when config.toml does not set one)")
	devMode  = flag.Bool("dev", false, "development mode")
	dataDir  = flag.String("dataDir", "", "data directory (overrides config)")
	logLevel = flag.String("log-level", "", "log level (overrides config)")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "engezna",
	})
	logger.Info().
		Str("version", version).
		Str("config", info.ConfigPath).
		Bool("fromFile", info.FromFile).
		Str("dataDir", config.ResolveDataDir(cfg)).
		Msg("starting")

	srv, err := server.NewServer(cfg, logger, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create server")
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr()).Msg("listening")
		serverErrors <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}
