package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, type, amount, category, description, date, person, necessity, created_at, updated_at`

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, category, category_key, description, date, person, necessity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns,
		transaction.UserID,
		string(transaction.Type),
		amount,
		transaction.Category,
		domain.NormalizeCategory(transaction.Category),
		transaction.Description,
		transaction.Date,
		transaction.Person,
		necessityParam(transaction.Necessity),
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by its ID for a user
func (r *TransactionRepository) GetByID(userID int32, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// ListByUser retrieves transactions for a user with optional filters,
// newest first
func (r *TransactionRepository) ListByUser(userID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := strings.Builder{}
	query.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`)
	args := []interface{}{userID}

	if filters != nil {
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			fmt.Fprintf(&query, " AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			fmt.Fprintf(&query, " AND date <= $%d", len(args))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			fmt.Fprintf(&query, " AND type = $%d", len(args))
		}
		if filters.Category != nil {
			args = append(args, domain.NormalizeCategory(*filters.Category))
			fmt.Fprintf(&query, " AND category_key = $%d", len(args))
		}
	}
	query.WriteString(" ORDER BY date DESC, created_at DESC")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// Update updates a transaction's details
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET type = $3, amount = $4, category = $5, category_key = $6, description = $7,
		    date = $8, person = $9, necessity = $10, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		transaction.UserID,
		transaction.ID,
		string(transaction.Type),
		amount,
		transaction.Category,
		domain.NormalizeCategory(transaction.Category),
		transaction.Description,
		transaction.Date,
		transaction.Person,
		necessityParam(transaction.Necessity),
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(userID int32, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func necessityParam(n *domain.Necessity) *string {
	if n == nil {
		return nil
	}
	s := string(*n)
	return &s
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		txType      string
		amount      pgtype.Numeric
		person      pgtype.Text
		necessity   pgtype.Text
	)
	err := row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&txType,
		&amount,
		&transaction.Category,
		&transaction.Description,
		&transaction.Date,
		&person,
		&necessity,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	transaction.Type = domain.TransactionType(txType)
	transaction.Amount = pgNumericToDecimal(amount)
	if person.Valid {
		transaction.Person = &person.String
	}
	if necessity.Valid {
		tier := domain.Necessity(necessity.String)
		transaction.Necessity = &tier
	}
	return &transaction, nil
}
