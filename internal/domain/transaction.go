package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Necessity is a user-assigned tier describing how discretionary an expense was.
type Necessity string

const (
	NecessityEssential     Necessity = "essential"
	NecessityImportant     Necessity = "important"
	NecessityDiscretionary Necessity = "discretionary"
	NecessitySuperfluous   Necessity = "superfluous"
)

// Wasteful reports whether the tier counts against the mindful-spending achievement
func (n Necessity) Wasteful() bool {
	return n == NecessityDiscretionary || n == NecessitySuperfluous
}

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      int32           `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Person      *string         `json:"person,omitempty"`
	Necessity   *Necessity      `json:"necessity,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsExpenseIn reports whether the transaction is an expense in the given
// category, using normalized case-insensitive category matching.
func (t *Transaction) IsExpenseIn(category string) bool {
	return t.Type == TransactionTypeExpense && CategoriesMatch(t.Category, category)
}

type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Category  *string
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID int32, id uuid.UUID) (*Transaction, error)
	ListByUser(userID int32, filters *TransactionFilters) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(userID int32, id uuid.UUID) error
}
