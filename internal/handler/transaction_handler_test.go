package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/middleware"
	"github.com/daniel1743/finanza-suite-sub000/internal/service"
	"github.com/daniel1743/finanza-suite-sub000/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// setupUserContext injects a user ID the way the identify middleware does
func setupUserContext(c echo.Context, userID int32) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestCreateTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	reqBody := `{"type": "expense", "amount": "150.00", "category": "Food", "description": "Groceries"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Category != "Food" {
		t.Errorf("Expected category 'Food', got %s", response.Category)
	}
	if !response.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected amount 150, got %s", response.Amount)
	}
}

func TestCreateTransactionHandler_MissingUser(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	reqBody := `{"type": "expense", "amount": "150.00", "category": "Food"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	reqBody := `{"type": "expense", "amount": "abc", "category": "Food"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
}

func TestCreateTransactionHandler_InvalidType(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	reqBody := `{"type": "transfer", "amount": "10.00", "category": "Food"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactionsHandler_FiltersByType(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	now := time.Now()
	repo.AddTransaction(&domain.Transaction{UserID: 1, Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(50), Category: "Food", Date: now})
	repo.AddTransaction(&domain.Transaction{UserID: 1, Type: domain.TransactionTypeIncome, Amount: decimal.NewFromInt(3000), Category: "Salary", Date: now})
	repo.AddTransaction(&domain.Transaction{UserID: 2, Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(70), Category: "Food", Date: now})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?type=expense", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupUserContext(c, 1)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Errorf("Expected 1 transaction, got %d", len(response))
	}
}

func TestDeleteTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/5b9f6c43-6f0e-4f6c-9f37-0d5f2b1c9a01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5b9f6c43-6f0e-4f6c-9f37-0d5f2b1c9a01")
	setupUserContext(c, 1)

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTransactionHandler_InvalidID(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	handler := NewTransactionHandler(service.NewTransactionService(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	setupUserContext(c, 1)

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
