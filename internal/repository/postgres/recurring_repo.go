package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecurringExpenseRepository implements domain.RecurringExpenseRepository using PostgreSQL
type RecurringExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringExpenseRepository creates a new RecurringExpenseRepository
func NewRecurringExpenseRepository(pool *pgxpool.Pool) *RecurringExpenseRepository {
	return &RecurringExpenseRepository{pool: pool}
}

const recurringColumns = `id, user_id, name, amount, category, due_day, enabled, created_at, updated_at`

// Create creates a new recurring expense
func (r *RecurringExpenseRepository) Create(expense *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_expenses (user_id, name, amount, category, due_day, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+recurringColumns,
		expense.UserID,
		expense.Name,
		amount,
		expense.Category,
		expense.DueDay,
		expense.Enabled,
	)
	return scanRecurringExpense(row)
}

// GetByID retrieves a recurring expense by its ID for a user
func (r *RecurringExpenseRepository) GetByID(userID int32, id uuid.UUID) (*domain.RecurringExpense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_expenses
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	expense, err := scanRecurringExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// ListByUser retrieves recurring expenses for a user, ordered by due day
func (r *RecurringExpenseRepository) ListByUser(userID int32, enabledOnly bool) ([]*domain.RecurringExpense, error) {
	ctx := context.Background()

	query := `SELECT ` + recurringColumns + ` FROM recurring_expenses WHERE user_id = $1`
	if enabledOnly {
		query += ` AND enabled`
	}
	query += ` ORDER BY due_day, name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.RecurringExpense, 0)
	for rows.Next() {
		expense, err := scanRecurringExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update updates an existing recurring expense
func (r *RecurringExpenseRepository) Update(expense *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE recurring_expenses
		SET name = $3, amount = $4, category = $5, due_day = $6, enabled = $7, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+recurringColumns,
		expense.UserID,
		expense.ID,
		expense.Name,
		amount,
		expense.Category,
		expense.DueDay,
		expense.Enabled,
	)
	updated, err := scanRecurringExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a recurring expense
func (r *RecurringExpenseRepository) Delete(userID int32, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM recurring_expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringExpenseNotFound
	}
	return nil
}

func scanRecurringExpense(row pgx.Row) (*domain.RecurringExpense, error) {
	var (
		expense domain.RecurringExpense
		amount  pgtype.Numeric
	)
	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Name,
		&amount,
		&expense.Category,
		&expense.DueDay,
		&expense.Enabled,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Amount = pgNumericToDecimal(amount)
	return &expense, nil
}
