package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrInvalidReference, http.StatusUnprocessableEntity, "invalid_reference"},
	{domain.ErrCapacityExceeded, http.StatusUnprocessableEntity, "capacity_exceeded"},
	{domain.ErrInvalidStatus, http.StatusUnprocessableEntity, "invalid_status"},
	{domain.ErrInvalidRating, http.StatusUnprocessableEntity, "invalid_rating"},
	{domain.ErrNotEligible, http.StatusUnprocessableEntity, "not_eligible"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
}

// writeError maps business-rule errors to their status and hides storage faults.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		body := gin.H{
			"error":   e.code,
			"message": err.Error(),
		}
		if e.err == domain.ErrConflict {
			body["retryable"] = true
		}
		c.JSON(e.status, body)
		return
	}

	log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "internal server error",
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}
