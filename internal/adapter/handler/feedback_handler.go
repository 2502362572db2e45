package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/services"
)

type FeedbackHandler struct {
	svc *services.FeedbackService
	log logrus.FieldLogger
}

func NewFeedbackHandler(svc *services.FeedbackService, log logrus.FieldLogger) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, log: log}
}

type createFeedbackRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req createFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		badRequest(c, "invalid booking id")
		return
	}

	feedback, err := h.svc.CreateFeedback(c.Request.Context(), PrincipalFrom(c), services.CreateFeedbackRequest{
		BookingID: bookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	entries, err := h.svc.ListFeedback(c.Request.Context(), PrincipalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *FeedbackHandler) ListEligibleBookings(c *gin.Context) {
	bookings, err := h.svc.ListEligibleBookings(c.Request.Context(), PrincipalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}
