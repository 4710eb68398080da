package handler

import (
	"errors"
	"net/http"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/middleware"
	"github.com/daniel1743/finanza-suite-sub000/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update request body
type BudgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Period   string `json:"period"`
}

// CreateBudget handles POST /api/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	created, err := h.budgetService.CreateBudget(userID, service.CreateBudgetInput{
		Category: req.Category,
		Amount:   amount,
		Period:   domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetCategoryTaken) {
			return NewConflictError(c, "A budget for this category already exists")
		}
		if problem := budgetValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetBudgets handles GET /api/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	budgets, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	return c.JSON(http.StatusOK, budgets)
}

// UpdateBudget handles PUT /api/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	updated, err := h.budgetService.UpdateBudget(userID, id, service.CreateBudgetInput{
		Category: req.Category,
		Amount:   amount,
		Period:   domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if errors.Is(err, domain.ErrBudgetCategoryTaken) {
			return NewConflictError(c, "A budget for this category already exists")
		}
		if problem := budgetValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Str("budget_id", id.String()).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteBudget handles DELETE /api/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(userID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("budget_id", id.String()).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	return c.NoContent(http.StatusNoContent)
}

func budgetValidationProblem(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Category is required", []ValidationError{
			{Field: "category", Message: "Must not be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Category too long", []ValidationError{
			{Field: "category", Message: "Exceeds the maximum length"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidPeriod):
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "period", Message: "Only monthly budgets are supported"},
		})
	}
	return nil
}
