package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/middleware"
	"github.com/daniel1743/finanza-suite-sub000/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// InsightsHandler exposes the analysis engines over HTTP
type InsightsHandler struct {
	insightService *service.InsightService
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(insightService *service.InsightService) *InsightsHandler {
	return &InsightsHandler{insightService: insightService}
}

// GetAlerts handles GET /api/insights/alerts
func (h *InsightsHandler) GetAlerts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	alerts, err := h.insightService.CheckAlerts(userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to check alerts")
		return NewInternalError(c, "Failed to check alerts")
	}

	return c.JSON(http.StatusOK, alerts)
}

// GetAdjustments handles GET /api/insights/alerts/adjustments
func (h *InsightsHandler) GetAdjustments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	category := c.QueryParam("category")
	if category == "" {
		return NewValidationError(c, "Category query parameter is required", []ValidationError{
			{Field: "category", Message: "Must not be empty"},
		})
	}

	suggestions, err := h.insightService.BudgetAdjustments(userID, category, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Str("category", category).Msg("Failed to generate adjustment suggestions")
		return NewInternalError(c, "Failed to generate adjustment suggestions")
	}

	return c.JSON(http.StatusOK, suggestions)
}

// GetHealth handles GET /api/insights/health
func (h *InsightsHandler) GetHealth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	report, err := h.insightService.HealthReport(userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to build health report")
		return NewInternalError(c, "Failed to build health report")
	}

	return c.JSON(http.StatusOK, report)
}

// GetRecurringImpact handles GET /api/insights/recurring/impact
func (h *InsightsHandler) GetRecurringImpact(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	overview, err := h.insightService.RecurringImpact(userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to calculate recurring impact")
		return NewInternalError(c, "Failed to calculate recurring impact")
	}

	return c.JSON(http.StatusOK, overview)
}

// GetReminders handles GET /api/insights/recurring/reminders
func (h *InsightsHandler) GetReminders(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	reminders, err := h.insightService.CheckReminders(userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to check reminders")
		return NewInternalError(c, "Failed to check reminders")
	}

	return c.JSON(http.StatusOK, reminders)
}

// DismissReminder handles POST /api/insights/recurring/reminders/:key/dismiss
func (h *InsightsHandler) DismissReminder(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	key := c.Param("key")
	if key == "" {
		return NewValidationError(c, "Reminder key is required", nil)
	}

	if err := h.insightService.DismissReminder(userID, key, time.Now().UTC()); err != nil {
		log.Error().Err(err).Int32("user_id", userID).Str("key", key).Msg("Failed to dismiss reminder")
		return NewInternalError(c, "Failed to dismiss reminder")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetGoalProjection handles GET /api/goals/:id/projection
func (h *InsightsHandler) GetGoalProjection(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	outlook, err := h.insightService.GoalOutlook(userID, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("goal_id", id.String()).Msg("Failed to project goal")
		return NewInternalError(c, "Failed to project goal")
	}

	return c.JSON(http.StatusOK, outlook)
}

// GetGoalScenarios handles GET /api/goals/:id/scenarios
func (h *InsightsHandler) GetGoalScenarios(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	outlook, err := h.insightService.GoalOutlook(userID, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("goal_id", id.String()).Msg("Failed to simulate goal scenarios")
		return NewInternalError(c, "Failed to simulate goal scenarios")
	}

	return c.JSON(http.StatusOK, outlook.Scenarios)
}
