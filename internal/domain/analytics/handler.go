package analytics

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/losmon/losmon/internal/domain/patient"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics/departments", h.DepartmentStats)
	api.GET("/analytics/los-distribution", h.LOSDistribution)
	api.GET("/analytics/summary", h.PatientSummary)
	api.GET("/analytics/recent-vitals", h.RecentVitals)
	api.GET("/analytics/patients/:id", h.PatientDetail)
}

func (h *Handler) DepartmentStats(c echo.Context) error {
	stats, err := h.svc.DepartmentStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) LOSDistribution(c echo.Context) error {
	dist, err := h.svc.LOSDistribution(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dist)
}

func (h *Handler) PatientSummary(c echo.Context) error {
	summary, err := h.svc.PatientSummary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) RecentVitals(c echo.Context) error {
	vitals, err := h.svc.RecentVitals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, vitals)
}

func (h *Handler) PatientDetail(c echo.Context) error {
	detail, err := h.svc.PatientDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}
