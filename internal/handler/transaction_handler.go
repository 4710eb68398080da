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

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update request body
type TransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Person      *string `json:"person"`
	Necessity   *string `json:"necessity"`
}

func (r *TransactionRequest) toInput() (service.CreateTransactionInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return service.CreateTransactionInput{}, err
	}

	input := service.CreateTransactionInput{
		Type:        domain.TransactionType(r.Type),
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description,
		Person:      r.Person,
	}

	if r.Date != "" {
		date, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return service.CreateTransactionInput{}, err
		}
		input.Date = &date
	}
	if r.Necessity != nil {
		necessity := domain.Necessity(*r.Necessity)
		input.Necessity = &necessity
	}

	return input, nil
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount or date format", nil)
	}

	created, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if problem := transactionValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetTransactions handles GET /api/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return NewValidationError(c, "Invalid filter parameters", nil)
	}

	transactions, err := h.transactionService.ListTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, transactions)
}

// UpdateTransaction handles PUT /api/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid amount or date format", nil)
	}

	updated, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if problem := transactionValidationProblem(c, err); problem != nil {
			return problem
		}
		log.Error().Err(err).Int32("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

func transactionValidationProblem(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Invalid transaction type", []ValidationError{
			{Field: "type", Message: "Must be income or expense"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Category is required", []ValidationError{
			{Field: "category", Message: "Must not be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Category too long", []ValidationError{
			{Field: "category", Message: "Exceeds the maximum length"},
		})
	case errors.Is(err, domain.ErrInvalidNecessity):
		return NewValidationError(c, "Invalid necessity tier", []ValidationError{
			{Field: "necessity", Message: "Must be essential, important, discretionary, or superfluous"},
		})
	}
	return nil
}

func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{}
	empty := true

	if v := c.QueryParam("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		filters.StartDate = &t
		empty = false
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		filters.EndDate = &t
		empty = false
	}
	if v := c.QueryParam("type"); v != "" {
		txType := domain.TransactionType(v)
		if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
			return nil, domain.ErrInvalidTransactionType
		}
		filters.Type = &txType
		empty = false
	}
	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
		empty = false
	}

	if empty {
		return nil, nil
	}
	return filters, nil
}
