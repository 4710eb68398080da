package service

import (
	"strings"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/insight"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings-goal business logic
type GoalService struct {
	goalRepo       domain.GoalRepository
	eventPublisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoalService) publishEvent(userID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateGoalInput holds the input for creating or updating a goal
type CreateGoalInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	Icon          string
	Color         string
	Priority      domain.GoalPriority
}

// CreateGoal creates a new goal with validation
func (s *GoalService) CreateGoal(userID int32, input CreateGoalInput) (*domain.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.GoalPriorityMedium
	}
	if err := validateGoalPriority(priority); err != nil {
		return nil, err
	}

	goal := &domain.Goal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
		Icon:          input.Icon,
		Color:         input.Color,
		Priority:      priority,
	}

	return s.goalRepo.Create(goal)
}

// GetGoal retrieves a single goal
func (s *GoalService) GetGoal(userID int32, id uuid.UUID) (*domain.Goal, error) {
	return s.goalRepo.GetByID(userID, id)
}

// ListGoals retrieves all goals for a user
func (s *GoalService) ListGoals(userID int32) ([]*domain.Goal, error) {
	return s.goalRepo.ListByUser(userID)
}

// UpdateGoal updates an existing goal with validation
func (s *GoalService) UpdateGoal(userID int32, id uuid.UUID, input CreateGoalInput) (*domain.Goal, error) {
	existing, err := s.goalRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if input.Priority != "" {
		if err := validateGoalPriority(input.Priority); err != nil {
			return nil, err
		}
		existing.Priority = input.Priority
	}

	existing.Name = name
	existing.TargetAmount = input.TargetAmount
	existing.CurrentAmount = input.CurrentAmount
	existing.Deadline = input.Deadline
	existing.Icon = input.Icon
	existing.Color = input.Color

	updated, err := s.goalRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.GoalUpdated(updated))
	return updated, nil
}

// DeleteGoal removes a goal and its contribution history
func (s *GoalService) DeleteGoal(userID int32, id uuid.UUID) error {
	return s.goalRepo.Delete(userID, id)
}

// ContributionResult pairs the recorded contribution with the refreshed goal
// and any milestone the deposit crossed
type ContributionResult struct {
	Contribution *domain.Contribution  `json:"contribution"`
	Goal         *domain.Goal          `json:"goal"`
	Progress     *insight.GoalProgress `json:"progress"`
	Milestone    *insight.Milestone    `json:"milestone,omitempty"`
}

// Contribute records a deposit toward a goal. The goal's current amount is
// updated atomically with the contribution row; a milestone is reported only
// when the deposit crosses its threshold.
func (s *GoalService) Contribute(userID int32, goalID uuid.UUID, amount decimal.Decimal, note *string, now time.Time) (*ContributionResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	before, err := s.goalRepo.GetByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	progressBefore := insight.CalculateGoalProgress(before)

	contribution := &domain.Contribution{
		GoalID: goalID,
		Amount: amount,
		Note:   note,
		Date:   now,
	}
	created, err := s.goalRepo.AddContribution(userID, contribution)
	if err != nil {
		return nil, err
	}

	after, err := s.goalRepo.GetByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	result := &ContributionResult{
		Contribution: created,
		Goal:         after,
		Progress:     insight.CalculateGoalProgress(after),
	}

	if result.Progress != nil {
		milestone := insight.MilestoneFor(result.Progress.Percentage)
		crossed := milestone != nil
		if crossed && progressBefore != nil {
			previous := insight.MilestoneFor(progressBefore.Percentage)
			crossed = previous == nil || previous.Threshold < milestone.Threshold
		}
		if crossed {
			result.Milestone = milestone
		}
	}

	s.publishEvent(userID, websocket.GoalUpdated(after))
	return result, nil
}

// ListContributions retrieves the contribution history for a goal
func (s *GoalService) ListContributions(userID int32, goalID uuid.UUID) ([]*domain.Contribution, error) {
	return s.goalRepo.ListContributions(userID, goalID)
}

func validateGoalPriority(p domain.GoalPriority) error {
	switch p {
	case domain.GoalPriorityLow, domain.GoalPriorityMedium, domain.GoalPriorityHigh:
		return nil
	default:
		return domain.ErrInvalidPriority
	}
}
