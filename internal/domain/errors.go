package domain

import "errors"

var (
	// ErrInvalidInput is returned for an unset or unknown vehicle category.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTimeRange is returned when a ticket's out-time precedes its in-time.
	ErrInvalidTimeRange = errors.New("out-time is before in-time")
	// ErrNoAvailableSpot is returned when every spot of a category is taken.
	ErrNoAvailableSpot = errors.New("no available spot")

	ErrSpotNotFound         = errors.New("spot not found")
	ErrSpotOccupied         = errors.New("spot already has an open ticket")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrVehicleAlreadyParked = errors.New("vehicle already parked")
	ErrVehicleLocked        = errors.New("vehicle entry already in progress")
)
