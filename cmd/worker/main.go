package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/parkingsystem/config"
	"github.com/Domenick1991/parkingsystem/internal/bootstrap"
	"github.com/Domenick1991/parkingsystem/internal/kafka"
	"github.com/Domenick1991/parkingsystem/internal/logging"
	"github.com/Domenick1991/parkingsystem/internal/receipt"
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
	logging.Init(cfg.Telemetry.ServiceName+"-worker", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		logging.Fatalf("build app: %v", err)
	}
	defer app.Close()

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.ReceiptsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReceiptsTopic)
		defer consumer.Close()

		sender := receipt.NewSender(os.Stdout)
		go func() {
			if err := consumer.Consume(ctx, sender.Send); err != nil {
				logging.Errorf(ctx, "receipt consumer stopped: %v", err)
			}
		}()
	} else {
		logging.Info(ctx, "kafka receipts topic not configured, receipts disabled")
	}

	occupancyTicker := time.NewTicker(time.Duration(cfg.Worker.OccupancyReportMinutes) * time.Minute)
	defer occupancyTicker.Stop()

	for {
		select {
		case <-occupancyTicker.C:
			availability, err := app.Parking.Availability(ctx)
			if err != nil {
				logging.Errorf(ctx, "occupancy report: %v", err)
				continue
			}
			for _, a := range availability {
				logging.WithFields(ctx, map[string]interface{}{
					"category": string(a.Category),
					"free":     a.Free,
					"total":    a.Total,
				}).Info("occupancy")
			}
		case <-ctx.Done():
			logging.Info(context.Background(), "shutting down worker")
			return
		}
	}
}
