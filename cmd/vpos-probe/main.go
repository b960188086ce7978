package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/vpos-gateway/internal/adapters/modirum"
	"github.com/kevin07696/vpos-gateway/internal/adapters/transport"
	"github.com/kevin07696/vpos-gateway/internal/config"
	pkghttp "github.com/kevin07696/vpos-gateway/pkg/http"
)

// vpos-probe runs a single Status query against the configured gateway.
// Useful as a credential and connectivity smoke check.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: vpos-probe <tx-id>")
		os.Exit(2)
	}
	txID := os.Args[1]

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	timeout := time.Duration(cfg.Gateway.Timeout) * time.Second
	client := pkghttp.NewClient(pkghttp.GatewayClientConfig(), timeout)

	gateway := modirum.New(&modirum.Config{
		MerchantID:   cfg.Gateway.MerchantID,
		SharedSecret: cfg.Gateway.SharedSecret,
		TestURL:      cfg.Gateway.TestURL,
		LiveURL:      cfg.Gateway.LiveURL,
		Live:         cfg.Gateway.Live,
	}, transport.NewHTTP(client, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	outcome, err := gateway.Status(ctx, txID)
	if err != nil {
		logger.Fatal("Status query failed", zap.Error(err))
	}

	logger.Info("Status query completed",
		zap.Bool("success", outcome.Success),
		zap.String("message", outcome.Message),
		zap.String("authorization_id", outcome.AuthorizationID),
	)
	for key, value := range outcome.RawFields {
		if value != "" {
			fmt.Printf("%s=%s\n", key, value)
		}
	}
}

func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
