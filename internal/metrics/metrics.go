package metrics

import (
	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SpotsFree = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_spots_free",
		Help: "Number of free parking spots per vehicle category.",
	}, []string{"category"})

	SpotsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_spots_total",
		Help: "Number of parking spots per vehicle category.",
	}, []string{"category"})

	FareAmount = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_fare_amount",
		Help:    "Fares charged on exit.",
		Buckets: []float64{0, 0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"category", "loyalty"})
)

func ObserveAvailability(availability []domain.Availability) {
	for _, a := range availability {
		SpotsFree.WithLabelValues(string(a.Category)).Set(float64(a.Free))
		SpotsTotal.WithLabelValues(string(a.Category)).Set(float64(a.Total))
	}
}

func ObserveFare(ticket domain.ClosedTicket) {
	loyalty := "false"
	if ticket.Loyalty {
		loyalty = "true"
	}
	FareAmount.WithLabelValues(string(ticket.Spot.Category), loyalty).Observe(ticket.Price)
}
