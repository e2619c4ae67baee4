package tracking

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/tracking", h.GetHistory)
	api.GET("/patients/:id/tracking/latest", h.GetLatest)
}

// GetHistory returns the full tracking series for a patient, oldest first.
// A patient with no records renders an empty list.
func (h *Handler) GetHistory(c echo.Context) error {
	records, err := h.svc.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if records == nil {
		records = []*Record{}
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) GetLatest(c echo.Context) error {
	rec, err := h.svc.Latest(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return echo.NewHTTPError(http.StatusNotFound, "no tracking records")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}
