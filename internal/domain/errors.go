package domain

import "errors"

// Domain errors
var (
	ErrNotFound                 = errors.New("resource not found")
	ErrInvalidInput             = errors.New("invalid input")
	ErrNameRequired             = errors.New("name is required")
	ErrNameTooLong              = errors.New("name exceeds maximum length")
	ErrCategoryRequired         = errors.New("category is required")
	ErrInvalidAmount            = errors.New("amount must be greater than zero")
	ErrNegativeAmount           = errors.New("amount must not be negative")
	ErrInvalidTransactionType   = errors.New("transaction type must be income or expense")
	ErrInvalidNecessity         = errors.New("invalid necessity tier")
	ErrInvalidPeriod            = errors.New("invalid budget period")
	ErrInvalidDueDay            = errors.New("due day must be between 1 and 31")
	ErrInvalidPriority          = errors.New("invalid goal priority")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrBudgetNotFound           = errors.New("budget not found")
	ErrBudgetCategoryTaken      = errors.New("a budget already exists for this category")
	ErrGoalNotFound             = errors.New("goal not found")
	ErrRecurringExpenseNotFound = errors.New("recurring expense not found")
)

// Validation constants
const (
	MaxNameLength = 255
)
