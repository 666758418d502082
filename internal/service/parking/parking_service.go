package parking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/Domenick1991/parkingsystem/internal/kafka"
	"github.com/Domenick1991/parkingsystem/internal/logging"
	"github.com/Domenick1991/parkingsystem/internal/metrics"
	"github.com/Domenick1991/parkingsystem/internal/repository"
	"github.com/Domenick1991/parkingsystem/internal/service/allocation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Domenick1991/parkingsystem/internal/service/parking"

type ParkingUseCase interface {
	Enter(ctx context.Context, input EnterInput) (*domain.OpenTicket, error)
	Exit(ctx context.Context, regNumber string) (*domain.ClosedTicket, error)
	Availability(ctx context.Context) ([]domain.Availability, error)
	Spots(ctx context.Context, category string, availableOnly bool) ([]domain.ParkingSpot, error)
}

type FareCalculator interface {
	Close(ticket domain.OpenTicket, outTime time.Time) (domain.ClosedTicket, error)
}

type Cache interface {
	GetAvailability(ctx context.Context) ([]domain.Availability, error)
	SetAvailability(ctx context.Context, availability []domain.Availability) error
	InvalidateAvailability(ctx context.Context) error
	AcquireVehicleLock(ctx context.Context, regNumber string, ttl time.Duration) (bool, error)
	ReleaseVehicleLock(ctx context.Context, regNumber string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type EnterInput struct {
	VehicleRegNumber string `json:"vehicle_reg_number"`
	Category         string `json:"category"`
}

type ParkingService struct {
	allocator      allocation.SpotAllocator
	spots          repository.SpotRepository
	tickets        repository.TicketRepository
	fares          FareCalculator
	cache          Cache
	producer       Producer
	ticketTopic    string
	receiptsTopic  string
	vehicleLockTTL time.Duration
	now            func() time.Time

	tracer  trace.Tracer
	entries metric.Int64Counter
	exits   metric.Int64Counter
}

type ParkingServiceOption func(*ParkingService)

func WithCache(cache Cache) ParkingServiceOption {
	return func(s *ParkingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, ticketTopic string) ParkingServiceOption {
	return func(s *ParkingService) {
		s.producer = producer
		s.ticketTopic = ticketTopic
	}
}

func WithReceiptsTopic(topic string) ParkingServiceOption {
	return func(s *ParkingService) {
		s.receiptsTopic = topic
	}
}

func WithVehicleLockTTL(ttl time.Duration) ParkingServiceOption {
	return func(s *ParkingService) {
		s.vehicleLockTTL = ttl
	}
}

func WithClock(now func() time.Time) ParkingServiceOption {
	return func(s *ParkingService) {
		s.now = now
	}
}

func NewParkingService(
	allocator allocation.SpotAllocator,
	spots repository.SpotRepository,
	tickets repository.TicketRepository,
	fares FareCalculator,
	opts ...ParkingServiceOption,
) *ParkingService {
	s := &ParkingService{
		allocator:      allocator,
		spots:          spots,
		tickets:        tickets,
		fares:          fares,
		vehicleLockTTL: 10 * time.Second,
		now:            time.Now,
		tracer:         otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if s.entries, err = meter.Int64Counter("parking_entries_total",
		metric.WithDescription("Vehicle entry attempts"), metric.WithUnit("1")); err != nil {
		logging.Warnf(context.Background(), "create entries counter: %v", err)
	}
	if s.exits, err = meter.Int64Counter("parking_exits_total",
		metric.WithDescription("Vehicle exit attempts"), metric.WithUnit("1")); err != nil {
		logging.Warnf(context.Background(), "create exits counter: %v", err)
	}
	return s
}

// Enter allocates a spot for the vehicle and opens a ticket on it. A vehicle with
// earlier tickets is a recurring client and gets the loyalty flag.
func (s *ParkingService) Enter(ctx context.Context, input EnterInput) (*domain.OpenTicket, error) {
	ctx, span := s.tracer.Start(ctx, "parking.enter", trace.WithAttributes(
		attribute.String("vehicle.category", input.Category),
	))
	defer span.End()

	ticket, err := s.enter(ctx, input)
	s.record(ctx, span, s.entries, input.Category, err)
	if err == nil {
		span.SetAttributes(attribute.Int("spot.id", ticket.Spot.ID), attribute.Bool("ticket.loyalty", ticket.Loyalty))
	}
	return ticket, err
}

func (s *ParkingService) enter(ctx context.Context, input EnterInput) (*domain.OpenTicket, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	regNumber, err := normalizeRegNumber(input.VehicleRegNumber)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireVehicleLock(ctx, regNumber, s.vehicleLockTTL)
		if err != nil {
			return nil, fmt.Errorf("lock vehicle %s: %w", regNumber, err)
		}
		if !ok {
			return nil, fmt.Errorf("vehicle %s: %w", regNumber, domain.ErrVehicleLocked)
		}
		defer func() {
			if err := s.cache.ReleaseVehicleLock(ctx, regNumber); err != nil {
				logging.Warnf(ctx, "release lock for vehicle %s: %v", regNumber, err)
			}
		}()
	}

	if _, err := s.tickets.GetOpenByVehicle(ctx, regNumber); err == nil {
		return nil, fmt.Errorf("vehicle %s: %w", regNumber, domain.ErrVehicleAlreadyParked)
	} else if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, err
	}

	previous, err := s.tickets.CountByVehicle(ctx, regNumber)
	if err != nil {
		return nil, fmt.Errorf("count tickets for %s: %w", regNumber, err)
	}

	spot, err := s.allocator.NextAvailableSpot(ctx, category)
	if err != nil {
		return nil, err
	}

	ticket := &domain.OpenTicket{
		Spot:             spot,
		VehicleRegNumber: regNumber,
		InTime:           s.now(),
		Loyalty:          previous > 0,
	}
	if err := s.tickets.CreateOpen(ctx, ticket); err != nil {
		if releaseErr := s.allocator.ReleaseSpot(ctx, spot); releaseErr != nil {
			logging.Errorf(ctx, "release spot %d after failed ticket: %v", spot.ID, releaseErr)
		}
		s.refreshAvailability(ctx)
		return nil, fmt.Errorf("save ticket: %w", err)
	}

	logging.WithFields(ctx, map[string]interface{}{
		"ticket_id": ticket.ID,
		"spot_id":   spot.ID,
		"category":  string(category),
		"loyalty":   ticket.Loyalty,
	}).Info("ticket opened")

	if err := s.publish(ctx, kafka.EventTicketOpened, s.openEvent(*ticket)); err != nil {
		logging.Warnf(ctx, "publish %s for ticket %d: %v", kafka.EventTicketOpened, ticket.ID, err)
	}
	s.refreshAvailability(ctx)
	return ticket, nil
}

// Exit closes the vehicle's open ticket with its fare and frees the spot.
func (s *ParkingService) Exit(ctx context.Context, regNumber string) (*domain.ClosedTicket, error) {
	ctx, span := s.tracer.Start(ctx, "parking.exit")
	defer span.End()

	closed, err := s.exit(ctx, regNumber)
	category := ""
	if closed != nil {
		category = string(closed.Spot.Category)
		span.SetAttributes(attribute.Int("spot.id", closed.Spot.ID), attribute.Float64("ticket.price", closed.Price))
	}
	s.record(ctx, span, s.exits, category, err)
	return closed, err
}

func (s *ParkingService) exit(ctx context.Context, regNumber string) (*domain.ClosedTicket, error) {
	regNumber, err := normalizeRegNumber(regNumber)
	if err != nil {
		return nil, err
	}

	open, err := s.tickets.GetOpenByVehicle(ctx, regNumber)
	if err != nil {
		return nil, err
	}

	closed, err := s.fares.Close(*open, s.now())
	if err != nil {
		return nil, fmt.Errorf("fare for ticket %d: %w", open.ID, err)
	}

	if err := s.tickets.Close(ctx, closed); err != nil {
		return nil, fmt.Errorf("save ticket %d: %w", closed.ID, err)
	}
	if err := s.allocator.ReleaseSpot(ctx, closed.Spot); err != nil {
		if reopenErr := s.tickets.Reopen(ctx, closed.ID); reopenErr != nil {
			logging.Errorf(ctx, "reopen ticket %d after failed release: %v", closed.ID, reopenErr)
		}
		return nil, err
	}
	closed.Spot.Available = true

	logging.WithFields(ctx, map[string]interface{}{
		"ticket_id": closed.ID,
		"spot_id":   closed.Spot.ID,
		"price":     closed.Price,
	}).Info("ticket closed")
	metrics.ObserveFare(closed)

	event := s.closedEvent(closed)
	if err := s.publish(ctx, kafka.EventTicketClosed, event); err != nil {
		logging.Warnf(ctx, "publish %s for ticket %d: %v", kafka.EventTicketClosed, closed.ID, err)
	}
	s.refreshAvailability(ctx)
	return &closed, nil
}

// Availability reports free and total spots per category, served from the cache when warm.
func (s *ParkingService) Availability(ctx context.Context) ([]domain.Availability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailability(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	availability, err := s.countAvailability(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAvailability(ctx, availability)
	}
	return availability, nil
}

func (s *ParkingService) Spots(ctx context.Context, category string, availableOnly bool) ([]domain.ParkingSpot, error) {
	var c domain.Category
	if category != "" {
		parsed, err := domain.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		c = parsed
	}
	return s.spots.List(ctx, c, availableOnly)
}

func (s *ParkingService) countAvailability(ctx context.Context) ([]domain.Availability, error) {
	spots, err := s.spots.List(ctx, "", false)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[domain.Category]*domain.Availability)
	availability := make([]domain.Availability, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		availability = append(availability, domain.Availability{Category: c})
	}
	for i := range availability {
		byCategory[availability[i].Category] = &availability[i]
	}
	for _, spot := range spots {
		a, ok := byCategory[spot.Category]
		if !ok {
			continue
		}
		a.Total++
		if spot.Available {
			a.Free++
		}
	}
	metrics.ObserveAvailability(availability)
	return availability, nil
}

func (s *ParkingService) refreshAvailability(ctx context.Context) {
	availability, err := s.countAvailability(ctx)
	if err != nil {
		logging.Warnf(ctx, "refresh availability: %v", err)
		if s.cache != nil {
			_ = s.cache.InvalidateAvailability(ctx)
		}
		return
	}
	if s.cache != nil {
		if err := s.cache.SetAvailability(ctx, availability); err != nil {
			logging.Warnf(ctx, "cache availability: %v", err)
		}
	}
}

func (s *ParkingService) record(ctx context.Context, span trace.Span, counter metric.Int64Counter, category string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("status", status),
		))
	}
}

func (s *ParkingService) publish(ctx context.Context, eventType string, event kafka.TicketEvent) error {
	if s.producer == nil || s.ticketTopic == "" {
		return nil
	}
	key := strconv.FormatInt(event.TicketID, 10)
	if err := s.producer.Publish(ctx, s.ticketTopic, key, event); err != nil {
		return err
	}
	if eventType == kafka.EventTicketClosed && s.receiptsTopic != "" {
		return s.producer.Publish(ctx, s.receiptsTopic, key, event)
	}
	return nil
}

func (s *ParkingService) openEvent(t domain.OpenTicket) kafka.TicketEvent {
	return kafka.TicketEvent{
		ID:               uuid.NewString(),
		Type:             kafka.EventTicketOpened,
		TicketID:         t.ID,
		SpotID:           t.Spot.ID,
		Category:         string(t.Spot.Category),
		VehicleRegNumber: t.VehicleRegNumber,
		InTime:           t.InTime,
		Loyalty:          t.Loyalty,
	}
}

func (s *ParkingService) closedEvent(t domain.ClosedTicket) kafka.TicketEvent {
	event := s.openEvent(t.OpenTicket)
	event.Type = kafka.EventTicketClosed
	outTime, price := t.OutTime, t.Price
	event.OutTime = &outTime
	event.Price = &price
	return event
}

func normalizeRegNumber(regNumber string) (string, error) {
	regNumber = strings.ToUpper(strings.TrimSpace(regNumber))
	if regNumber == "" {
		return "", fmt.Errorf("vehicle registration number is required: %w", domain.ErrInvalidInput)
	}
	return regNumber, nil
}

var _ ParkingUseCase = (*ParkingService)(nil)
