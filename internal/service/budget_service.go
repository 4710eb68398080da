package service

import (
	"errors"
	"strings"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo     domain.BudgetRepository
	eventPublisher websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BudgetService) publishEvent(userID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateBudgetInput holds the input for creating or updating a budget
type CreateBudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Period   domain.BudgetPeriod
}

// CreateBudget creates a new budget with validation. At most one budget per
// normalized category is allowed.
func (s *BudgetService) CreateBudget(userID int32, input CreateBudgetInput) (*domain.Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	period := input.Period
	if period == "" {
		period = domain.BudgetPeriodMonthly
	}
	if period != domain.BudgetPeriodMonthly {
		return nil, domain.ErrInvalidPeriod
	}

	if _, err := s.budgetRepo.GetByCategory(userID, category); err == nil {
		return nil, domain.ErrBudgetCategoryTaken
	} else if !errors.Is(err, domain.ErrBudgetNotFound) {
		return nil, err
	}

	budget := &domain.Budget{
		UserID:   userID,
		Category: category,
		Amount:   input.Amount,
		Period:   period,
	}

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.BudgetCreated(created))
	return created, nil
}

// GetBudget retrieves a single budget
func (s *BudgetService) GetBudget(userID int32, id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(userID, id)
}

// ListBudgets retrieves all budgets for a user
func (s *BudgetService) ListBudgets(userID int32) ([]*domain.Budget, error) {
	return s.budgetRepo.ListByUser(userID)
}

// UpdateBudget updates an existing budget with validation
func (s *BudgetService) UpdateBudget(userID int32, id uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	existing, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Moving to another category must not collide with an existing budget
	if !domain.CategoriesMatch(existing.Category, category) {
		if _, err := s.budgetRepo.GetByCategory(userID, category); err == nil {
			return nil, domain.ErrBudgetCategoryTaken
		} else if !errors.Is(err, domain.ErrBudgetNotFound) {
			return nil, err
		}
	}

	existing.Category = category
	existing.Amount = input.Amount
	if input.Period != "" {
		if input.Period != domain.BudgetPeriodMonthly {
			return nil, domain.ErrInvalidPeriod
		}
		existing.Period = input.Period
	}

	updated, err := s.budgetRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// DeleteBudget removes a budget
func (s *BudgetService) DeleteBudget(userID int32, id uuid.UUID) error {
	if err := s.budgetRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.BudgetDeleted(map[string]uuid.UUID{"id": id}))
	return nil
}
