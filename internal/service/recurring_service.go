package service

import (
	"strings"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringExpenseService handles recurring fixed-expense business logic
type RecurringExpenseService struct {
	recurringRepo  domain.RecurringExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewRecurringExpenseService creates a new RecurringExpenseService
func NewRecurringExpenseService(recurringRepo domain.RecurringExpenseRepository) *RecurringExpenseService {
	return &RecurringExpenseService{recurringRepo: recurringRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *RecurringExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RecurringExpenseService) publishEvent(userID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateRecurringExpenseInput holds the input for creating or updating a
// recurring expense
type CreateRecurringExpenseInput struct {
	Name     string
	Amount   decimal.Decimal
	Category string
	DueDay   int
	Enabled  *bool
}

// CreateRecurringExpense creates a new recurring expense with validation
func (s *RecurringExpenseService) CreateRecurringExpense(userID int32, input CreateRecurringExpenseInput) (*domain.RecurringExpense, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return nil, domain.ErrInvalidDueDay
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	expense := &domain.RecurringExpense{
		UserID:   userID,
		Name:     name,
		Amount:   input.Amount,
		Category: category,
		DueDay:   input.DueDay,
		Enabled:  enabled,
	}

	created, err := s.recurringRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.RecurringCreated(created))
	return created, nil
}

// GetRecurringExpense retrieves a single recurring expense
func (s *RecurringExpenseService) GetRecurringExpense(userID int32, id uuid.UUID) (*domain.RecurringExpense, error) {
	return s.recurringRepo.GetByID(userID, id)
}

// ListRecurringExpenses retrieves a user's recurring expenses
func (s *RecurringExpenseService) ListRecurringExpenses(userID int32, enabledOnly bool) ([]*domain.RecurringExpense, error) {
	return s.recurringRepo.ListByUser(userID, enabledOnly)
}

// UpdateRecurringExpense updates an existing recurring expense with validation
func (s *RecurringExpenseService) UpdateRecurringExpense(userID int32, id uuid.UUID, input CreateRecurringExpenseInput) (*domain.RecurringExpense, error) {
	existing, err := s.recurringRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return nil, domain.ErrInvalidDueDay
	}

	existing.Name = name
	existing.Amount = input.Amount
	existing.Category = category
	existing.DueDay = input.DueDay
	if input.Enabled != nil {
		existing.Enabled = *input.Enabled
	}

	updated, err := s.recurringRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.RecurringUpdated(updated))
	return updated, nil
}

// DeleteRecurringExpense removes a recurring expense
func (s *RecurringExpenseService) DeleteRecurringExpense(userID int32, id uuid.UUID) error {
	if err := s.recurringRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.RecurringDeleted(map[string]uuid.UUID{"id": id}))
	return nil
}
