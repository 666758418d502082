package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/parkingsystem/config"
	"github.com/Domenick1991/parkingsystem/internal/bootstrap"
	"github.com/Domenick1991/parkingsystem/internal/logging"
	"github.com/Domenick1991/parkingsystem/internal/telemetry"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logging.Fatalf("load config: %v", err)
	}
	logging.Init(cfg.Telemetry.ServiceName, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logging.Fatalf("init telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logging.Errorf(shutdownCtx, "shutdown telemetry: %v", err)
		}
	}()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		logging.Fatalf("build app: %v", err)
	}
	defer app.Close()

	if err := bootstrap.Run(ctx, cfg, app.Parking, app.Checks); err != nil {
		logging.Errorf(ctx, "server error: %v", err)
	}
}
