// Package fare prices a parking stay from its in-time, out-time, vehicle
// category and loyalty flag. It performs no I/O and never reads the clock.
package fare

import (
	"fmt"
	"time"

	"github.com/Domenick1991/parkingsystem/internal/domain"
)

const (
	// Hourly rates per vehicle category.
	CarRatePerHour  = 1.5
	BikeRatePerHour = 1.0

	// FreeMinutes is the grace period billed at zero.
	FreeMinutes = 30.0
	// LoyaltyReduction is applied to the fare of recurring clients.
	LoyaltyReduction = 0.95

	minutesInHour = 60.0
)

// HourlyRate returns the rate for a recognized category.
func HourlyRate(category domain.Category) (float64, error) {
	switch category {
	case domain.CategoryCar:
		return CarRatePerHour, nil
	case domain.CategoryBike:
		return BikeRatePerHour, nil
	default:
		return 0, fmt.Errorf("unknown parking type %q: %w", category, domain.ErrInvalidInput)
	}
}

// Calculate returns the fare for a stay. The result is not rounded and has no daily cap.
func Calculate(category domain.Category, inTime, outTime time.Time, loyalty bool) (float64, error) {
	rate, err := HourlyRate(category)
	if err != nil {
		return 0, err
	}
	if outTime.Before(inTime) {
		return 0, fmt.Errorf("out-time %s before in-time %s: %w",
			outTime.Format(time.RFC3339), inTime.Format(time.RFC3339), domain.ErrInvalidTimeRange)
	}

	minutes := outTime.Sub(inTime).Minutes()
	if minutes <= FreeMinutes {
		return 0, nil
	}

	price := minutes / minutesInHour * rate
	if loyalty {
		price *= LoyaltyReduction
	}
	return price, nil
}

// Close prices an open ticket and returns it as closed.
func Close(ticket domain.OpenTicket, outTime time.Time) (domain.ClosedTicket, error) {
	price, err := Calculate(ticket.Spot.Category, ticket.InTime, outTime, ticket.Loyalty)
	if err != nil {
		return domain.ClosedTicket{}, err
	}
	return domain.ClosedTicket{
		OpenTicket: ticket,
		OutTime:    outTime,
		Price:      price,
	}, nil
}

// Calculator adapts the package functions to the parking service.
type Calculator struct{}

// NewCalculator returns the stateless fare calculator.
func NewCalculator() Calculator {
	return Calculator{}
}

// Close delegates to the package-level Close.
func (Calculator) Close(ticket domain.OpenTicket, outTime time.Time) (domain.ClosedTicket, error) {
	return Close(ticket, outTime)
}
