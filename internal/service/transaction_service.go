package service

import (
	"strings"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(userID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        *time.Time
	Person      *string
	Necessity   *domain.Necessity
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(userID int32, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidTransactionType
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Necessity != nil {
		if err := validateNecessity(*input.Necessity); err != nil {
			return nil, err
		}
	}

	// Default date to now if not provided
	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	var person *string
	if input.Person != nil {
		trimmed := strings.TrimSpace(*input.Person)
		if trimmed != "" {
			person = &trimmed
		}
	}

	transaction := &domain.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		Person:      person,
		Necessity:   input.Necessity,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransaction retrieves a single transaction
func (s *TransactionService) GetTransaction(userID int32, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// ListTransactions retrieves a user's transactions with optional filters
func (s *TransactionService) ListTransactions(userID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.ListByUser(userID, filters)
}

// UpdateTransaction updates an existing transaction with validation
func (s *TransactionService) UpdateTransaction(userID int32, id uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidTransactionType
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}

	if input.Necessity != nil {
		if err := validateNecessity(*input.Necessity); err != nil {
			return nil, err
		}
	}

	existing.Type = input.Type
	existing.Amount = input.Amount
	existing.Category = category
	existing.Description = strings.TrimSpace(input.Description)
	if input.Date != nil {
		existing.Date = *input.Date
	}
	existing.Person = input.Person
	existing.Necessity = input.Necessity

	updated, err := s.transactionRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(userID int32, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.TransactionDeleted(map[string]uuid.UUID{"id": id}))
	return nil
}

func validateNecessity(n domain.Necessity) error {
	switch n {
	case domain.NecessityEssential, domain.NecessityImportant, domain.NecessityDiscretionary, domain.NecessitySuperfluous:
		return nil
	default:
		return domain.ErrInvalidNecessity
	}
}
