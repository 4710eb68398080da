package testutil

import (
	"sync"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/google/uuid"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	ByUser       map[int32][]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(userID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
		ByUser:       make(map[int32][]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = uuid.New()
	m.Transactions[transaction.ID] = transaction
	m.ByUser[transaction.UserID] = append(m.ByUser[transaction.UserID], transaction)
	return transaction, nil
}

// GetByID retrieves a transaction by its ID for a user
func (m *MockTransactionRepository) GetByID(userID int32, id uuid.UUID) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// ListByUser retrieves all transactions for a user with optional filters
func (m *MockTransactionRepository) ListByUser(userID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, filters)
	}
	transactions := m.ByUser[userID]
	filtered := make([]*domain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if filters != nil {
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && !domain.CategoriesMatch(t.Category, *filters.Category) {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	*existing = *transaction
	return existing, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(userID int32, id uuid.UUID) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	list := m.ByUser[userID]
	for i, t := range list {
		if t.ID == id {
			m.ByUser[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
	m.ByUser[transaction.UserID] = append(m.ByUser[transaction.UserID], transaction)
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets  map[uuid.UUID]*domain.Budget
	ByUser   map[int32][]*domain.Budget
	CreateFn func(budget *domain.Budget) (*domain.Budget, error)
	ListFn   func(userID int32) ([]*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
		ByUser:  make(map[int32][]*domain.Budget),
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(budget)
	}
	for _, existing := range m.ByUser[budget.UserID] {
		if domain.CategoriesMatch(existing.Category, budget.Category) {
			return nil, domain.ErrBudgetCategoryTaken
		}
	}
	budget.ID = uuid.New()
	m.Budgets[budget.ID] = budget
	m.ByUser[budget.UserID] = append(m.ByUser[budget.UserID], budget)
	return budget, nil
}

// GetByID retrieves a budget by its ID for a user
func (m *MockBudgetRepository) GetByID(userID int32, id uuid.UUID) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// GetByCategory retrieves a user's budget for a normalized category
func (m *MockBudgetRepository) GetByCategory(userID int32, category string) (*domain.Budget, error) {
	for _, budget := range m.ByUser[userID] {
		if domain.CategoriesMatch(budget.Category, category) {
			return budget, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// ListByUser retrieves all budgets for a user
func (m *MockBudgetRepository) ListByUser(userID int32) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(userID)
	}
	budgets := m.ByUser[userID]
	if budgets == nil {
		return []*domain.Budget{}, nil
	}
	return budgets, nil
}

// Update updates an existing budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	*existing = *budget
	return existing, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(userID int32, id uuid.UUID) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	list := m.ByUser[userID]
	for i, b := range list {
		if b.ID == id {
			m.ByUser[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	m.Budgets[budget.ID] = budget
	m.ByUser[budget.UserID] = append(m.ByUser[budget.UserID], budget)
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals         map[uuid.UUID]*domain.Goal
	ByUser        map[int32][]*domain.Goal
	Contributions map[uuid.UUID][]*domain.Contribution
	CreateFn      func(goal *domain.Goal) (*domain.Goal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals:         make(map[uuid.UUID]*domain.Goal),
		ByUser:        make(map[int32][]*domain.Goal),
		Contributions: make(map[uuid.UUID][]*domain.Contribution),
	}
}

// Create creates a new goal
func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	if m.CreateFn != nil {
		return m.CreateFn(goal)
	}
	goal.ID = uuid.New()
	m.Goals[goal.ID] = goal
	m.ByUser[goal.UserID] = append(m.ByUser[goal.UserID], goal)
	return goal, nil
}

// GetByID retrieves a goal by its ID for a user
func (m *MockGoalRepository) GetByID(userID int32, id uuid.UUID) (*domain.Goal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// ListByUser retrieves all goals for a user
func (m *MockGoalRepository) ListByUser(userID int32) ([]*domain.Goal, error) {
	goals := m.ByUser[userID]
	if goals == nil {
		return []*domain.Goal{}, nil
	}
	return goals, nil
}

// Update updates an existing goal
func (m *MockGoalRepository) Update(goal *domain.Goal) (*domain.Goal, error) {
	existing, ok := m.Goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return nil, domain.ErrGoalNotFound
	}
	*existing = *goal
	return existing, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(userID int32, id uuid.UUID) error {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	delete(m.Contributions, id)
	list := m.ByUser[userID]
	for i, g := range list {
		if g.ID == id {
			m.ByUser[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// AddContribution records a contribution toward a goal and bumps the goal's
// current amount, mirroring the transactional repository behavior
func (m *MockGoalRepository) AddContribution(userID int32, contribution *domain.Contribution) (*domain.Contribution, error) {
	goal, ok := m.Goals[contribution.GoalID]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	contribution.ID = uuid.New()
	m.Contributions[contribution.GoalID] = append(m.Contributions[contribution.GoalID], contribution)
	goal.CurrentAmount = goal.CurrentAmount.Add(contribution.Amount)
	return contribution, nil
}

// ListContributions retrieves the contribution history for a goal
func (m *MockGoalRepository) ListContributions(userID int32, goalID uuid.UUID) ([]*domain.Contribution, error) {
	goal, ok := m.Goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	contributions := m.Contributions[goalID]
	if contributions == nil {
		return []*domain.Contribution{}, nil
	}
	return contributions, nil
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	m.Goals[goal.ID] = goal
	m.ByUser[goal.UserID] = append(m.ByUser[goal.UserID], goal)
}

// MockRecurringExpenseRepository is a mock implementation of domain.RecurringExpenseRepository
type MockRecurringExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.RecurringExpense
	ByUser   map[int32][]*domain.RecurringExpense
	ListFn   func(userID int32, enabledOnly bool) ([]*domain.RecurringExpense, error)
}

// NewMockRecurringExpenseRepository creates a new MockRecurringExpenseRepository
func NewMockRecurringExpenseRepository() *MockRecurringExpenseRepository {
	return &MockRecurringExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.RecurringExpense),
		ByUser:   make(map[int32][]*domain.RecurringExpense),
	}
}

// Create creates a new recurring expense
func (m *MockRecurringExpenseRepository) Create(expense *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	expense.ID = uuid.New()
	m.Expenses[expense.ID] = expense
	m.ByUser[expense.UserID] = append(m.ByUser[expense.UserID], expense)
	return expense, nil
}

// GetByID retrieves a recurring expense by its ID for a user
func (m *MockRecurringExpenseRepository) GetByID(userID int32, id uuid.UUID) (*domain.RecurringExpense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrRecurringExpenseNotFound
	}
	return expense, nil
}

// ListByUser retrieves all recurring expenses for a user
func (m *MockRecurringExpenseRepository) ListByUser(userID int32, enabledOnly bool) ([]*domain.RecurringExpense, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, enabledOnly)
	}
	expenses := m.ByUser[userID]
	filtered := make([]*domain.RecurringExpense, 0, len(expenses))
	for _, e := range expenses {
		if enabledOnly && !e.Enabled {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// Update updates an existing recurring expense
func (m *MockRecurringExpenseRepository) Update(expense *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	existing, ok := m.Expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return nil, domain.ErrRecurringExpenseNotFound
	}
	*existing = *expense
	return existing, nil
}

// Delete removes a recurring expense
func (m *MockRecurringExpenseRepository) Delete(userID int32, id uuid.UUID) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return domain.ErrRecurringExpenseNotFound
	}
	delete(m.Expenses, id)
	list := m.ByUser[userID]
	for i, e := range list {
		if e.ID == id {
			m.ByUser[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// AddExpense adds a recurring expense to the mock repository (helper for tests)
func (m *MockRecurringExpenseRepository) AddExpense(expense *domain.RecurringExpense) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
	m.ByUser[expense.UserID] = append(m.ByUser[expense.UserID], expense)
}

// MockAlertHistory is a mock implementation of domain.AlertHistory
type MockAlertHistory struct {
	Records []*domain.AlertRecord
	SaveFn  func(record *domain.AlertRecord) error
}

// NewMockAlertHistory creates a new MockAlertHistory
func NewMockAlertHistory() *MockAlertHistory {
	return &MockAlertHistory{Records: make([]*domain.AlertRecord, 0)}
}

// Recent returns the records for a user newer than the cutoff
func (m *MockAlertHistory) Recent(userID int32, since time.Time) ([]*domain.AlertRecord, error) {
	recent := make([]*domain.AlertRecord, 0)
	for _, record := range m.Records {
		if record.UserID == userID && record.Timestamp.After(since) {
			recent = append(recent, record)
		}
	}
	return recent, nil
}

// Save appends a record
func (m *MockAlertHistory) Save(record *domain.AlertRecord) error {
	if m.SaveFn != nil {
		return m.SaveFn(record)
	}
	m.Records = append(m.Records, record)
	return nil
}

// Prune drops records older than the cutoff
func (m *MockAlertHistory) Prune(before time.Time) (int64, error) {
	kept := make([]*domain.AlertRecord, 0, len(m.Records))
	var pruned int64
	for _, record := range m.Records {
		if record.Timestamp.Before(before) {
			pruned++
			continue
		}
		kept = append(kept, record)
	}
	m.Records = kept
	return pruned, nil
}

// PublishedEvent captures one Publish call
type PublishedEvent struct {
	UserID int32
	Event  websocket.Event
}

// MockEventPublisher is a mock implementation of websocket.EventPublisher
type MockEventPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make([]PublishedEvent, 0)}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// EventTypes returns the published event types in order (helper for tests)
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}

// MockReminderStore is a mock implementation of domain.ReminderStore
type MockReminderStore struct {
	Shown map[int32]map[string]time.Time
}

// NewMockReminderStore creates a new MockReminderStore
func NewMockReminderStore() *MockReminderStore {
	return &MockReminderStore{Shown: make(map[int32]map[string]time.Time)}
}

// WasShown reports whether a reminder key was already surfaced for a user
func (m *MockReminderStore) WasShown(userID int32, key string) (bool, error) {
	_, ok := m.Shown[userID][key]
	return ok, nil
}

// MarkShown records that a reminder key was surfaced
func (m *MockReminderStore) MarkShown(userID int32, key string, shownAt time.Time) error {
	if m.Shown[userID] == nil {
		m.Shown[userID] = make(map[string]time.Time)
	}
	m.Shown[userID][key] = shownAt
	return nil
}

// Prune drops marks older than the cutoff
func (m *MockReminderStore) Prune(before time.Time) (int64, error) {
	var pruned int64
	for _, keys := range m.Shown {
		for key, shownAt := range keys {
			if shownAt.Before(before) {
				delete(keys, key)
				pruned++
			}
		}
	}
	return pruned, nil
}
