package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/parkingsystem/api"
	"github.com/Domenick1991/parkingsystem/config"
	"github.com/Domenick1991/parkingsystem/internal/cache"
	"github.com/Domenick1991/parkingsystem/internal/kafka"
	"github.com/Domenick1991/parkingsystem/internal/logging"
	"github.com/Domenick1991/parkingsystem/internal/repository"
	"github.com/Domenick1991/parkingsystem/internal/service/allocation"
	"github.com/Domenick1991/parkingsystem/internal/service/fare"
	"github.com/Domenick1991/parkingsystem/internal/service/parking"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the wired parking service and the dependencies it was built from.
type App struct {
	Parking *parking.ParkingService
	Checks  map[string]api.Pinger

	closers []func()
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Build opens storage, seeds the facility and wires the optional Redis cache and Kafka producer.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Checks: make(map[string]api.Pinger)}

	spots, tickets, err := app.openStorage(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	if err := spots.Seed(ctx, repository.FacilityLayout(cfg.Parking.CarSpots, cfg.Parking.BikeSpots)); err != nil {
		app.Close()
		return nil, fmt.Errorf("seed spots: %w", err)
	}

	opts := []parking.ParkingServiceOption{
		parking.WithVehicleLockTTL(time.Duration(cfg.Parking.VehicleLockSeconds) * time.Second),
	}

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Parking.AvailabilityCacheSeconds)*time.Second)
		app.closers = append(app.closers, func() { _ = redisCache.Close() })
		app.Checks["redis"] = redisCache
		opts = append(opts, parking.WithCache(redisCache))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		app.closers = append(app.closers, func() { _ = producer.Close() })
		app.Checks["kafka"] = pingFunc(producer.CheckConnection)
		opts = append(opts,
			parking.WithProducer(producer, cfg.Kafka.TicketEventsTopic),
			parking.WithReceiptsTopic(cfg.Kafka.ReceiptsTopic),
		)
	}

	app.Parking = parking.NewParkingService(
		allocation.NewAllocator(spots),
		spots,
		tickets,
		fare.NewCalculator(),
		opts...,
	)
	return app, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config) (repository.SpotRepository, repository.TicketRepository, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logging.Info(ctx, "using in-memory storage")
		return repository.NewMemorySpotRepository(), repository.NewMemoryTicketRepository(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	a.Checks["postgres"] = pool

	if err := repository.Migrate(ctx, pool); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return repository.NewSpotRepository(pool), repository.NewTicketRepository(pool), nil
}

// Close releases dependencies in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
