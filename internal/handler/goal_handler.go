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
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings-goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create/update request body
type GoalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Priority      string `json:"priority"`
}

// ContributionRequest represents the contribution request body
type ContributionRequest struct {
	Amount string  `json:"amount"`
	Note   *string `json:"note"`
}

func (r *GoalRequest) toInput() (service.CreateGoalInput, error) {
	target, err := decimal.NewFromString(r.TargetAmount)
	if err != nil {
		return service.CreateGoalInput{}, err
	}

	current := decimal.Zero
	if r.CurrentAmount != "" {
		current, err = decimal.NewFromString(r.CurrentAmount)
		if err != nil {
			return service.CreateGoalInput{}, err
		}
	}

	input := service.CreateGoalInput{
		Name:          r.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Icon:          r.Icon,
		Color:         r.Color,
		Priority:      domain.GoalPriority(r.Priority),
	}

	if r.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, r.Deadline)
		if err != nil {
			return service.CreateGoalInput{}, err
		}
		input.Deadline = &deadline
	}

	return input, nil
}

// CreateGoal handles POST /api/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount or deadline format", nil)
	}

	created, err := h.goalService.CreateGoal(userID, input)
	if err != nil {
		if problem := goalValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetGoals handles GET /api/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list goals")
		return NewInternalError(c, "Failed to list goals")
	}

	return c.JSON(http.StatusOK, goals)
}

// UpdateGoal handles PUT /api/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount or deadline format", nil)
	}

	updated, err := h.goalService.UpdateGoal(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		if problem := goalValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Str("goal_id", id.String()).Msg("Failed to update goal")
		return NewInternalError(c, "Failed to update goal")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteGoal handles DELETE /api/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("goal_id", id.String()).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	return c.NoContent(http.StatusNoContent)
}

// Contribute handles POST /api/goals/:id/contributions
func (h *GoalHandler) Contribute(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req ContributionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	result, err := h.goalService.Contribute(userID, id, amount, req.Note, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Int32("user_id", userID).Str("goal_id", id.String()).Msg("Failed to record contribution")
		return NewInternalError(c, "Failed to record contribution")
	}

	log.Info().Int32("user_id", userID).Str("goal_id", id.String()).Str("amount", amount.String()).Msg("Contribution recorded")

	return c.JSON(http.StatusCreated, result)
}

// GetContributions handles GET /api/goals/:id/contributions
func (h *GoalHandler) GetContributions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	contributions, err := h.goalService.ListContributions(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("goal_id", id.String()).Msg("Failed to list contributions")
		return NewInternalError(c, "Failed to list contributions")
	}

	return c.JSON(http.StatusOK, contributions)
}

func goalValidationProblem(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required", []ValidationError{
			{Field: "name", Message: "Must not be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Name too long", []ValidationError{
			{Field: "name", Message: "Exceeds the maximum length"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrNegativeAmount):
		return NewValidationError(c, "Invalid current amount", []ValidationError{
			{Field: "currentAmount", Message: "Amount must not be negative"},
		})
	case errors.Is(err, domain.ErrInvalidPriority):
		return NewValidationError(c, "Invalid priority", []ValidationError{
			{Field: "priority", Message: "Must be low, medium, or high"},
		})
	}
	return nil
}
