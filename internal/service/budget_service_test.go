package service

import (
	"testing"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateBudget_Success(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewBudgetService(repo)
	svc.SetEventPublisher(publisher)

	created, err := svc.CreateBudget(1, CreateBudgetInput{
		Category: " Food ",
		Amount:   decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.Category != "Food" {
		t.Errorf("Expected trimmed category 'Food', got '%s'", created.Category)
	}
	if created.Period != domain.BudgetPeriodMonthly {
		t.Errorf("Expected period to default to monthly, got %s", created.Period)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "budget.created" {
		t.Errorf("Expected budget.created event, got %v", types)
	}
}

func TestCreateBudget_DuplicateCategory(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	svc := NewBudgetService(repo)

	repo.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})

	// Same category under different casing still collides
	_, err := svc.CreateBudget(1, CreateBudgetInput{
		Category: "FOOD",
		Amount:   decimal.NewFromInt(300),
	})
	if err != domain.ErrBudgetCategoryTaken {
		t.Errorf("Expected ErrBudgetCategoryTaken, got %v", err)
	}
}

func TestCreateBudget_AliasCategoryCollides(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	svc := NewBudgetService(repo)

	repo.AddBudget(&domain.Budget{UserID: 1, Category: "Groceries", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})

	// "Food" and "Groceries" share a normalized key, so a second budget
	// under either name is a duplicate
	_, err := svc.CreateBudget(1, CreateBudgetInput{
		Category: "Food",
		Amount:   decimal.NewFromInt(300),
	})
	if err != domain.ErrBudgetCategoryTaken {
		t.Errorf("Expected ErrBudgetCategoryTaken for alias category, got %v", err)
	}
}

func TestCreateBudget_SameCategoryDifferentUser(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	svc := NewBudgetService(repo)

	repo.AddBudget(&domain.Budget{UserID: 2, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})

	_, err := svc.CreateBudget(1, CreateBudgetInput{
		Category: "Food",
		Amount:   decimal.NewFromInt(300),
	})
	if err != nil {
		t.Errorf("Expected no error for a different user, got %v", err)
	}
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	svc := NewBudgetService(testutil.NewMockBudgetRepository())

	_, err := svc.CreateBudget(1, CreateBudgetInput{
		Category: "Food",
		Amount:   decimal.NewFromInt(500),
		Period:   "weekly",
	})
	if err != domain.ErrInvalidPeriod {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
}

func TestCreateBudget_NonPositiveAmount(t *testing.T) {
	svc := NewBudgetService(testutil.NewMockBudgetRepository())

	_, err := svc.CreateBudget(1, CreateBudgetInput{
		Category: "Food",
		Amount:   decimal.Zero,
	})
	if err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateBudget_KeepsOwnCategory(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	svc := NewBudgetService(repo)

	budget := &domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly}
	repo.AddBudget(budget)

	// Re-saving under the same category is not a collision
	updated, err := svc.UpdateBudget(1, budget.ID, CreateBudgetInput{
		Category: "food",
		Amount:   decimal.NewFromInt(600),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected amount 600, got %s", updated.Amount)
	}
}

func TestUpdateBudget_CollidesWithOtherCategory(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	svc := NewBudgetService(repo)

	repo.AddBudget(&domain.Budget{UserID: 1, Category: "Transport", Amount: decimal.NewFromInt(200), Period: domain.BudgetPeriodMonthly})
	budget := &domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly}
	repo.AddBudget(budget)

	_, err := svc.UpdateBudget(1, budget.ID, CreateBudgetInput{
		Category: "Transport",
		Amount:   decimal.NewFromInt(500),
	})
	if err != domain.ErrBudgetCategoryTaken {
		t.Errorf("Expected ErrBudgetCategoryTaken, got %v", err)
	}
}

func TestDeleteBudget_PublishesEvent(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewBudgetService(repo)
	svc.SetEventPublisher(publisher)

	budget := &domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly}
	repo.AddBudget(budget)

	if err := svc.DeleteBudget(1, budget.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "budget.deleted" {
		t.Errorf("Expected budget.deleted event, got %v", types)
	}
}
