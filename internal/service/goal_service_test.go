package service

import (
	"testing"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateGoal_Success(t *testing.T) {
	repo := testutil.NewMockGoalRepository()
	svc := NewGoalService(repo)

	created, err := svc.CreateGoal(1, CreateGoalInput{
		Name:         "  Emergency fund ",
		TargetAmount: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.Name != "Emergency fund" {
		t.Errorf("Expected trimmed name, got '%s'", created.Name)
	}
	if created.Priority != domain.GoalPriorityMedium {
		t.Errorf("Expected priority to default to medium, got %s", created.Priority)
	}
}

func TestCreateGoal_InvalidTarget(t *testing.T) {
	svc := NewGoalService(testutil.NewMockGoalRepository())

	_, err := svc.CreateGoal(1, CreateGoalInput{
		Name:         "Emergency fund",
		TargetAmount: decimal.Zero,
	})
	if err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateGoal_NegativeCurrentAmount(t *testing.T) {
	svc := NewGoalService(testutil.NewMockGoalRepository())

	_, err := svc.CreateGoal(1, CreateGoalInput{
		Name:          "Emergency fund",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(-50),
	})
	if err != domain.ErrNegativeAmount {
		t.Errorf("Expected ErrNegativeAmount, got %v", err)
	}
}

func TestCreateGoal_InvalidPriority(t *testing.T) {
	svc := NewGoalService(testutil.NewMockGoalRepository())

	_, err := svc.CreateGoal(1, CreateGoalInput{
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
		Priority:     "urgent",
	})
	if err != domain.ErrInvalidPriority {
		t.Errorf("Expected ErrInvalidPriority, got %v", err)
	}
}

func TestContribute_UpdatesGoalAndPublishes(t *testing.T) {
	repo := testutil.NewMockGoalRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewGoalService(repo)
	svc.SetEventPublisher(publisher)

	goal := &domain.Goal{
		UserID:        1,
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(100),
		Priority:      domain.GoalPriorityMedium,
	}
	repo.AddGoal(goal)

	result, err := svc.Contribute(1, goal.ID, decimal.NewFromInt(150), nil, time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Goal.CurrentAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected current amount 250, got %s", result.Goal.CurrentAmount)
	}
	if !result.Contribution.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected contribution amount 150, got %s", result.Contribution.Amount)
	}
	if result.Progress == nil || result.Progress.Percentage != 25 {
		t.Errorf("Expected progress 25%%, got %+v", result.Progress)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "goal.updated" {
		t.Errorf("Expected goal.updated event, got %v", types)
	}
}

func TestContribute_NonPositiveAmount(t *testing.T) {
	repo := testutil.NewMockGoalRepository()
	svc := NewGoalService(repo)

	goal := &domain.Goal{UserID: 1, Name: "Vacation", TargetAmount: decimal.NewFromInt(1000), Priority: domain.GoalPriorityMedium}
	repo.AddGoal(goal)

	_, err := svc.Contribute(1, goal.ID, decimal.Zero, nil, time.Now())
	if err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestContribute_ReportsCrossedMilestone(t *testing.T) {
	repo := testutil.NewMockGoalRepository()
	svc := NewGoalService(repo)

	goal := &domain.Goal{
		UserID:        1,
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(400),
		Priority:      domain.GoalPriorityMedium,
	}
	repo.AddGoal(goal)

	// 40% -> 55% crosses the halfway milestone
	result, err := svc.Contribute(1, goal.ID, decimal.NewFromInt(150), nil, time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Milestone == nil || result.Milestone.Threshold != 50 {
		t.Errorf("Expected 50%% milestone, got %+v", result.Milestone)
	}
}

func TestContribute_NoMilestoneWithinSameBand(t *testing.T) {
	repo := testutil.NewMockGoalRepository()
	svc := NewGoalService(repo)

	goal := &domain.Goal{
		UserID:        1,
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(500),
		Priority:      domain.GoalPriorityMedium,
	}
	repo.AddGoal(goal)

	// 50% -> 60% stays inside the halfway band
	result, err := svc.Contribute(1, goal.ID, decimal.NewFromInt(100), nil, time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Milestone != nil {
		t.Errorf("Expected no milestone, got %+v", result.Milestone)
	}
}

func TestContribute_GoalNotFound(t *testing.T) {
	repo := testutil.NewMockGoalRepository()
	svc := NewGoalService(repo)

	goal := &domain.Goal{UserID: 2, Name: "Vacation", TargetAmount: decimal.NewFromInt(1000), Priority: domain.GoalPriorityMedium}
	repo.AddGoal(goal)

	_, err := svc.Contribute(1, goal.ID, decimal.NewFromInt(50), nil, time.Now())
	if err != domain.ErrGoalNotFound {
		t.Errorf("Expected ErrGoalNotFound, got %v", err)
	}
}
