package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category, amount, period, created_at, updated_at`

// Create creates a new budget. The stored category_key is the normalized
// form of the category, so the unique index on (user_id, category_key)
// rejects alias duplicates ("Food" vs "Groceries") as well as case variants.
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, category_key, amount, period)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+budgetColumns,
		budget.UserID,
		budget.Category,
		domain.NormalizeCategory(budget.Category),
		amount,
		string(budget.Period),
	)
	created, err := scanBudget(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrBudgetCategoryTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a budget by its ID for a user
func (r *BudgetRepository) GetByID(userID int32, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByCategory retrieves a user's budget for a normalized category
func (r *BudgetRepository) GetByCategory(userID int32, category string) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND category_key = $2`,
		userID, domain.NormalizeCategory(category),
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// ListByUser retrieves all budgets for a user
func (r *BudgetRepository) ListByUser(userID int32) ([]*domain.Budget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY category`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update updates an existing budget
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET category = $3, category_key = $4, amount = $5, period = $6, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		budget.UserID,
		budget.ID,
		budget.Category,
		domain.NormalizeCategory(budget.Category),
		amount,
		string(budget.Period),
	)
	updated, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrBudgetCategoryTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget
func (r *BudgetRepository) Delete(userID int32, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget domain.Budget
		amount pgtype.Numeric
		period string
	)
	err := row.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.Category,
		&amount,
		&period,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	budget.Amount = pgNumericToDecimal(amount)
	budget.Period = domain.BudgetPeriod(period)
	return &budget, nil
}
