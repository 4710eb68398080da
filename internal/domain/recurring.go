package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringExpense is a fixed charge that repeats every month on DueDay.
// Days past the end of a short month charge on the last day instead.
type RecurringExpense struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int32           `json:"userId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	DueDay    int             `json:"dueDay"`
	Enabled   bool            `json:"enabled"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type RecurringExpenseRepository interface {
	Create(expense *RecurringExpense) (*RecurringExpense, error)
	GetByID(userID int32, id uuid.UUID) (*RecurringExpense, error)
	ListByUser(userID int32, enabledOnly bool) ([]*RecurringExpense, error)
	Update(expense *RecurringExpense) (*RecurringExpense, error)
	Delete(userID int32, id uuid.UUID) error
}
