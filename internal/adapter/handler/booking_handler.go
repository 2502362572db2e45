package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/services"
)

type BookingHandler struct {
	svc *services.BookingService
	log logrus.FieldLogger
}

func NewBookingHandler(svc *services.BookingService, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

// createBookingRequest has no tourist field: the tourist always comes from
// the caller's identity.
type createBookingRequest struct {
	PackageID        string     `json:"package_id" binding:"required"`
	BookingDate      *time.Time `json:"booking_date"`
	ParticipantCount int        `json:"participant_count"`
}

type editBookingRequest struct {
	PackageID        *string    `json:"package_id"`
	BookingDate      *time.Time `json:"booking_date"`
	ParticipantCount *int       `json:"participant_count"`
	Version          *int       `json:"version"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		badRequest(c, "invalid package id")
		return
	}

	create := services.CreateBookingRequest{
		PackageID:        packageID,
		ParticipantCount: req.ParticipantCount,
	}
	if req.BookingDate != nil {
		create.BookingDate = *req.BookingDate
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), PrincipalFrom(c), create)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.svc.ListBookings(c.Request.Context(), PrincipalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	booking, err := h.svc.UpdateStatus(c.Request.Context(), PrincipalFrom(c), bookingID, req.Status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) EditBooking(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	changes := services.BookingChanges{
		BookingDate:      req.BookingDate,
		ParticipantCount: req.ParticipantCount,
		Version:          req.Version,
	}
	if req.PackageID != nil {
		packageID, err := uuid.Parse(*req.PackageID)
		if err != nil {
			badRequest(c, "invalid package id")
			return
		}
		changes.PackageID = &packageID
	}

	booking, err := h.svc.EditBooking(c.Request.Context(), PrincipalFrom(c), bookingID, changes)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bookingIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}
