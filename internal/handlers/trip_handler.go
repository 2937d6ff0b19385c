package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/internal/services"
)

// TripHandler handles trip catalog operations.
type TripHandler struct {
	tripSvc   *services.TripCatalogService
	ledgerSvc *services.BookingLedgerService
	auditSvc  *services.AuditService
	logger    *logrus.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripSvc *services.TripCatalogService, ledgerSvc *services.BookingLedgerService, auditSvc *services.AuditService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{tripSvc: tripSvc, ledgerSvc: ledgerSvc, auditSvc: auditSvc, logger: logger}
}

// ListTrips returns all cataloged trips.
func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripSvc.ListTrips(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GetTrip returns one trip with its current availability.
func (h *TripHandler) GetTrip(c *gin.Context) {
	id := c.Param("id")
	trip, err := h.tripSvc.GetTrip(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	bookings, err := h.ledgerSvc.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip":            trip,
		"available_seats": h.tripSvc.AvailableSeats(trip, bookings),
	})
}

// CreateTrip creates a cataloged trip.
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, err := h.tripSvc.CreateTrip(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "create", "trip", trip.ID)
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// UpdateTrip applies a partial trip update.
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	id := c.Param("id")
	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, err := h.tripSvc.UpdateTrip(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "update", "trip", id)
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DeleteTrip removes a trip and its bookings.
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	id := c.Param("id")
	if err := h.tripSvc.DeleteTrip(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "delete", "trip", id)
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// ExpireTrips sweeps past trips on demand.
func (h *TripHandler) ExpireTrips(c *gin.Context) {
	expired, err := h.tripSvc.ExpireTrips(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "expire", "trip", "")
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}
