package domain

import "time"

// OpenTicket is issued on entry. It has no out-time and no price.
type OpenTicket struct {
	ID               int64       `json:"id"`
	Spot             ParkingSpot `json:"spot"`
	VehicleRegNumber string      `json:"vehicle_reg_number"`
	InTime           time.Time   `json:"in_time"`
	Loyalty          bool        `json:"loyalty"`
}

// ClosedTicket is the only way a ticket carries an out-time and a price.
type ClosedTicket struct {
	OpenTicket
	OutTime time.Time `json:"out_time"`
	Price   float64   `json:"price"`
}
