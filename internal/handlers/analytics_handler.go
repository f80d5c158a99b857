package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler handles HTTP requests for reaction analytics
type AnalyticsHandler struct {
	analyticsRepository repositories.AnalyticsRepository
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsRepo repositories.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsRepository: analyticsRepo}
}

// RegisterAnalyticsRoutes registers analytics-related routes
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(g *echo.Group) {
	g.GET("/analytics", h.GetDailyTotals)
}

// GetDailyTotals returns the per-day like totals across the whole system,
// oldest day first. An empty store is reported as a 204, not as an empty
// list; a 204 carries no body on the wire, so the status alone is the signal.
func (h *AnalyticsHandler) GetDailyTotals(c echo.Context) error {
	totals, err := h.analyticsRepository.DailyTotals(c.Request().Context())
	if err != nil {
		if errors.Is(err, repositories.ErrNoAnalyticsData) {
			return c.NoContent(http.StatusNoContent)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, totals)
}
