package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/Domenick1991/parkingsystem/internal/service/parking"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service parking.ParkingUseCase
}

type enterRequest struct {
	VehicleRegNumber string `json:"vehicle_reg_number" binding:"required"`
	Category         string `json:"category" binding:"required"`
}

type ticketResponse struct {
	ID               int64    `json:"id"`
	SpotID           int      `json:"spot_id"`
	Category         string   `json:"category"`
	VehicleRegNumber string   `json:"vehicle_reg_number"`
	InTime           string   `json:"in_time"`
	OutTime          string   `json:"out_time,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	Loyalty          bool     `json:"loyalty"`
}

func NewTicketHandler(service parking.ParkingUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.enter)
	router.POST("/:reg/exit", h.exit)
}

func (h *TicketHandler) enter(c *gin.Context) {
	var req enterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.Enter(c.Request.Context(), parking.EnterInput{
		VehicleRegNumber: req.VehicleRegNumber,
		Category:         req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, openTicketResponse(*ticket))
}

func (h *TicketHandler) exit(c *gin.Context) {
	ticket, err := h.service.Exit(c.Request.Context(), c.Param("reg"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := openTicketResponse(ticket.OpenTicket)
	resp.OutTime = ticket.OutTime.Format(time.RFC3339)
	price := ticket.Price
	resp.Price = &price
	c.JSON(http.StatusOK, resp)
}

func openTicketResponse(t domain.OpenTicket) ticketResponse {
	return ticketResponse{
		ID:               t.ID,
		SpotID:           t.Spot.ID,
		Category:         string(t.Spot.Category),
		VehicleRegNumber: t.VehicleRegNumber,
		InTime:           t.InTime.Format(time.RFC3339),
		Loyalty:          t.Loyalty,
	}
}
