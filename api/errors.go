package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTimeRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTicketNotFound), errors.Is(err, domain.ErrSpotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoAvailableSpot),
		errors.Is(err, domain.ErrVehicleAlreadyParked),
		errors.Is(err, domain.ErrSpotOccupied),
		errors.Is(err, domain.ErrVehicleLocked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
