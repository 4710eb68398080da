package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

type Goal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        int32           `json:"userId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	Priority      GoalPriority    `json:"priority"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Contribution is one deposit toward a goal. The history is append-only;
// CurrentAmount on the goal is kept in sync by the goal service.
type Contribution struct {
	ID     uuid.UUID       `json:"id"`
	GoalID uuid.UUID       `json:"goalId"`
	Amount decimal.Decimal `json:"amount"`
	Note   *string         `json:"note,omitempty"`
	Date   time.Time       `json:"date"`
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	GetByID(userID int32, id uuid.UUID) (*Goal, error)
	ListByUser(userID int32) ([]*Goal, error)
	Update(goal *Goal) (*Goal, error)
	Delete(userID int32, id uuid.UUID) error
	AddContribution(userID int32, contribution *Contribution) (*Contribution, error)
	ListContributions(userID int32, goalID uuid.UUID) ([]*Contribution, error)
}
