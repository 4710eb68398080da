package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/service"
	"github.com/daniel1743/finanza-suite-sub000/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func TestCreateBudgetHandler_Success(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockBudgetRepository()
	handler := NewBudgetHandler(service.NewBudgetService(repo))

	reqBody := `{"category": "Food", "amount": "500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Period != domain.BudgetPeriodMonthly {
		t.Errorf("Expected monthly period, got %s", response.Period)
	}
}

func TestCreateBudgetHandler_DuplicateCategoryConflict(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockBudgetRepository()
	handler := NewBudgetHandler(service.NewBudgetService(repo))

	repo.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})

	reqBody := `{"category": "food", "amount": "300.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	if problem.Type != ErrorTypeConflict {
		t.Errorf("Expected conflict problem type, got %s", problem.Type)
	}
}

func TestCreateBudgetHandler_InvalidPeriod(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockBudgetRepository()
	handler := NewBudgetHandler(service.NewBudgetService(repo))

	reqBody := `{"category": "Food", "amount": "500.00", "period": "weekly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBudgetsHandler_ScopedToUser(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockBudgetRepository()
	handler := NewBudgetHandler(service.NewBudgetService(repo))

	repo.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	repo.AddBudget(&domain.Budget{UserID: 2, Category: "Transport", Amount: decimal.NewFromInt(200), Period: domain.BudgetPeriodMonthly})

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 || response[0].Category != "Food" {
		t.Errorf("Expected only user 1's budget, got %d", len(response))
	}
}
