package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/internal/monitoring"
	"github.com/rahhaltours/admin-backend/internal/services"
)

// BookingHandler handles booking ledger operations.
type BookingHandler struct {
	ledgerSvc *services.BookingLedgerService
	auditSvc  *services.AuditService
	logger    *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(ledgerSvc *services.BookingLedgerService, auditSvc *services.AuditService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{ledgerSvc: ledgerSvc, auditSvc: auditSvc, logger: logger}
}

// ListBookings returns all bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.ledgerSvc.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns one booking.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.ledgerSvc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// CreateBooking books seats on a cataloged trip.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.ledgerSvc.CreateBooking(c.Request.Context(), &req)
	monitoring.ObserveLedgerOp("create_booking", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "create", "booking", booking.ID)
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// CreateCustomBooking stores a one-off itinerary booking.
func (h *BookingHandler) CreateCustomBooking(c *gin.Context) {
	var req models.CreateCustomBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.ledgerSvc.CreateCustomBooking(c.Request.Context(), &req)
	monitoring.ObserveLedgerOp("create_custom_booking", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "create", "customBooking", booking.ID)
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// EditBooking moves or resizes a booking.
func (h *BookingHandler) EditBooking(c *gin.Context) {
	id := c.Param("id")
	var req models.EditBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.ledgerSvc.EditBooking(c.Request.Context(), id, &req)
	monitoring.ObserveLedgerOp("edit_booking", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "update", "booking", id)
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// DeleteBooking removes a booking, releasing its seats.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	err := h.ledgerSvc.DeleteBooking(c.Request.Context(), id)
	monitoring.ObserveLedgerOp("delete_booking", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "delete", "booking", id)
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

// ListBookingsForTrip returns the bookings referencing one trip.
func (h *BookingHandler) ListBookingsForTrip(c *gin.Context) {
	bookings, err := h.ledgerSvc.ListBookingsForTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListBookedUsers returns the passenger list of a trip.
func (h *BookingHandler) ListBookedUsers(c *gin.Context) {
	users, err := h.ledgerSvc.ListBookedUsers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
