// Package main is the interactive terminal entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hollowdeep/hollowdeep/internal/config"
	"github.com/hollowdeep/hollowdeep/internal/telemetry"
)

var configPath = flag.String("config", "config/config.yaml", "path to configuration file")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	var tracer trace.Tracer = telemetry.NoopTracer()
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Warn("telemetry setup failed, continuing without", zap.Error(err))
		} else {
			tracer = telemetry.Tracer("dispatch")
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Error("telemetry shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	session, err := newSession(cfg, logger, tracer)
	if err != nil {
		logger.Fatal("failed to initialize session", zap.Error(err))
	}
	defer session.Close()

	if err := session.Run(ctx); err != nil {
		logger.Fatal("session ended with error", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
