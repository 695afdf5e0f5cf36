package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickride/internal/domain"
	"quickride/internal/repository"
	"quickride/internal/service"
)

// DriverHandler handles HTTP requests from drivers.
type DriverHandler struct {
	driverService *service.DriverService
	tripService   *service.TripService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, tripService *service.TripService) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		tripService:   tripService,
	}
}

// RegisterRequest is the HTTP request body for driver registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
	Phone    string `json:"phone"`
}

// RegisterResponse is the HTTP response for driver registration.
type RegisterResponse struct {
	Message  string `json:"message"`
	DriverID string `json:"driverId"`
}

// LoginRequest is the HTTP request body for driver login.
type LoginRequest struct {
	Phone string `json:"phone"`
}

// LoginResponse is the HTTP response for driver login.
type LoginResponse struct {
	Message  string `json:"message"`
	DriverID string `json:"driverId"`
	Name     string `json:"name"`
}

// ClaimRequest is the HTTP request body for accepting a trip.
type ClaimRequest struct {
	DriverID string `json:"driverId"`
}

// UpdateStatusRequest is the HTTP request body for a trip status update.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Register handles POST /driver/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		Name:     req.Name,
		IDNumber: req.IDNumber,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message:  "Driver registered successfully",
		DriverID: driver.ID,
	})
}

// Login handles POST /driver/login
func (h *DriverHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Login(c.Request.Context(), req.Phone)
	if err != nil {
		// An unknown phone is a bad login attempt, not a missing resource.
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone not registered"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message:  "Login successful",
		DriverID: driver.ID,
		Name:     driver.Name,
	})
}

// PendingTrips handles GET /driver/trips/pending
func (h *DriverHandler) PendingTrips(c *gin.Context) {
	trips, err := h.tripService.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if trips == nil {
		trips = []*domain.Trip{}
	}
	c.JSON(http.StatusOK, trips)
}

// Accept handles POST /driver/trips/:id/accept
func (h *DriverHandler) Accept(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.Claim(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// Decline handles POST /driver/trips/:id/decline. Declining is an
// acknowledgment only; the trip stays pending for other drivers.
func (h *DriverHandler) Decline(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Trip declined"})
}

// UpdateStatus handles POST /driver/trips/:id/update
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.TripStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}
