package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/services"
)

type PackageHandler struct {
	svc *services.PackageService
	log logrus.FieldLogger
}

func NewPackageHandler(svc *services.PackageService, log logrus.FieldLogger) *PackageHandler {
	return &PackageHandler{svc: svc, log: log}
}

type createPackageRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	DurationDays int     `json:"duration_days"`
	Price        float64 `json:"price"`
	MaxGroupSize int     `json:"max_group_size"`
	TourImage    string  `json:"tour_image"`
}

func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req createPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}

	pkg, err := h.svc.CreatePackage(c.Request.Context(), PrincipalFrom(c), services.CreatePackageRequest{
		Title:        req.Title,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		MaxGroupSize: req.MaxGroupSize,
		TourImage:    req.TourImage,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) ListPackages(c *gin.Context) {
	packages, err := h.svc.ListPackages(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}
