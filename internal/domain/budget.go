package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	// Future: BudgetPeriodWeekly, BudgetPeriodYearly
)

// Budget caps monthly spending for a single category. The category name is
// the key: at most one budget per normalized category is expected.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int32           `json:"userId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    BudgetPeriod    `json:"period"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(userID int32, id uuid.UUID) (*Budget, error)
	GetByCategory(userID int32, category string) (*Budget, error)
	ListByUser(userID int32) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	Delete(userID int32, id uuid.UUID) error
}
