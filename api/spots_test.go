package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Domenick1991/parkingsystem/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSpotHandler_list(t *testing.T) {
	mockService := &MockParkingUseCase{}
	handler := NewSpotHandler(mockService)
	c, w := newTestContext("GET", "/api/v1/spots?category=CAR&available=true", "")

	spots := []domain.ParkingSpot{{ID: 1, Category: domain.CategoryCar, Available: true}}
	mockService.On("Spots", c.Request.Context(), "CAR", true).Return(spots, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.ParkingSpot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, spots, got)

	mockService.AssertExpectations(t)
}

func TestSpotHandler_list_BadFlag(t *testing.T) {
	mockService := &MockParkingUseCase{}
	handler := NewSpotHandler(mockService)
	c, w := newTestContext("GET", "/api/v1/spots?available=maybe", "")

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Spots", mock.Anything, mock.Anything, mock.Anything)
}

func TestSpotHandler_list_UnknownCategory(t *testing.T) {
	mockService := &MockParkingUseCase{}
	handler := NewSpotHandler(mockService)
	c, w := newTestContext("GET", "/api/v1/spots?category=boat", "")

	mockService.On("Spots", c.Request.Context(), "boat", false).Return(nil, domain.ErrInvalidInput)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpotHandler_availability(t *testing.T) {
	mockService := &MockParkingUseCase{}
	handler := NewSpotHandler(mockService)
	c, w := newTestContext("GET", "/api/v1/spots/availability", "")

	availability := []domain.Availability{
		{Category: domain.CategoryCar, Free: 1, Total: 3},
		{Category: domain.CategoryBike, Free: 2, Total: 2},
	}
	mockService.On("Availability", c.Request.Context()).Return(availability, nil)

	handler.availability(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, availability, got)
}

func TestSpotHandler_availability_Error(t *testing.T) {
	mockService := &MockParkingUseCase{}
	handler := NewSpotHandler(mockService)
	c, w := newTestContext("GET", "/api/v1/spots/availability", "")

	mockService.On("Availability", c.Request.Context()).Return(nil, errors.New("db down"))

	handler.availability(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}
