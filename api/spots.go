package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/parkingsystem/internal/service/parking"
	"github.com/gin-gonic/gin"
)

type SpotHandler struct {
	service parking.ParkingUseCase
}

func NewSpotHandler(service parking.ParkingUseCase) *SpotHandler {
	return &SpotHandler{service: service}
}

func (h *SpotHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/availability", h.availability)
}

func (h *SpotHandler) list(c *gin.Context) {
	availableOnly := false
	if raw := c.Query("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid available flag"})
			return
		}
		availableOnly = v
	}

	spots, err := h.service.Spots(c.Request.Context(), c.Query("category"), availableOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, spots)
}

func (h *SpotHandler) availability(c *gin.Context) {
	availability, err := h.service.Availability(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}
