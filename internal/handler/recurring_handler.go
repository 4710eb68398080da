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

// RecurringHandler handles recurring-expense HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringExpenseService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringExpenseService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringExpenseRequest represents the create/update request body
type RecurringExpenseRequest struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	DueDay   int    `json:"dueDay"`
	Enabled  *bool  `json:"enabled"`
}

func (r *RecurringExpenseRequest) toInput() (service.CreateRecurringExpenseInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return service.CreateRecurringExpenseInput{}, err
	}

	return service.CreateRecurringExpenseInput{
		Name:     r.Name,
		Amount:   amount,
		Category: r.Category,
		DueDay:   r.DueDay,
		Enabled:  r.Enabled,
	}, nil
}

// CreateRecurringExpense handles POST /api/recurring
func (h *RecurringHandler) CreateRecurringExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	var req RecurringExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	created, err := h.recurringService.CreateRecurringExpense(userID, input)
	if err != nil {
		if problem := recurringValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create recurring expense")
		return NewInternalError(c, "Failed to create recurring expense")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetRecurringExpenses handles GET /api/recurring
func (h *RecurringHandler) GetRecurringExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	enabledOnly := c.QueryParam("enabled") == "true"

	expenses, err := h.recurringService.ListRecurringExpenses(userID, enabledOnly)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list recurring expenses")
		return NewInternalError(c, "Failed to list recurring expenses")
	}

	return c.JSON(http.StatusOK, expenses)
}

// UpdateRecurringExpense handles PUT /api/recurring/:id
func (h *RecurringHandler) UpdateRecurringExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring expense ID", nil)
	}

	var req RecurringExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	updated, err := h.recurringService.UpdateRecurringExpense(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrRecurringExpenseNotFound) {
			return NewNotFoundError(c, "Recurring expense not found")
		}
		if problem := recurringValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Str("expense_id", id.String()).Msg("Failed to update recurring expense")
		return NewInternalError(c, "Failed to update recurring expense")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteRecurringExpense handles DELETE /api/recurring/:id
func (h *RecurringHandler) DeleteRecurringExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring expense ID", nil)
	}

	if err := h.recurringService.DeleteRecurringExpense(userID, id); err != nil {
		if errors.Is(err, domain.ErrRecurringExpenseNotFound) {
			return NewNotFoundError(c, "Recurring expense not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("expense_id", id.String()).Msg("Failed to delete recurring expense")
		return NewInternalError(c, "Failed to delete recurring expense")
	}

	return c.NoContent(http.StatusNoContent)
}

func recurringValidationProblem(c echo.Context, err error) error {
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
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Category is required", []ValidationError{
			{Field: "category", Message: "Must not be empty"},
		})
	case errors.Is(err, domain.ErrInvalidDueDay):
		return NewValidationError(c, "Invalid due day", []ValidationError{
			{Field: "dueDay", Message: "Must be between 1 and 31"},
		})
	}
	return nil
}
