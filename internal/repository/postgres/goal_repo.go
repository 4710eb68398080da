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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, icon, color, priority, created_at, updated_at`

// Create creates a new goal
func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, icon, color, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+goalColumns,
		goal.UserID,
		goal.Name,
		target,
		current,
		goal.Deadline,
		goal.Icon,
		goal.Color,
		string(goal.Priority),
	)
	return scanGoal(row)
}

// GetByID retrieves a goal by its ID for a user
func (r *GoalRepository) GetByID(userID int32, id uuid.UUID) (*domain.Goal, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// ListByUser retrieves all goals for a user
func (r *GoalRepository) ListByUser(userID int32) ([]*domain.Goal, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update updates an existing goal
func (r *GoalRepository) Update(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE goals
		SET name = $3, target_amount = $4, current_amount = $5, deadline = $6,
		    icon = $7, color = $8, priority = $9, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+goalColumns,
		goal.UserID,
		goal.ID,
		goal.Name,
		target,
		current,
		goal.Deadline,
		goal.Icon,
		goal.Color,
		string(goal.Priority),
	)
	updated, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a goal and its contribution history
func (r *GoalRepository) Delete(userID int32, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// AddContribution records a contribution and bumps the goal's current amount
// in the same database transaction
func (r *GoalRepository) AddContribution(userID int32, contribution *domain.Contribution) (*domain.Contribution, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(contribution.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE goals
		SET current_amount = current_amount + $3, updated_at = now()
		WHERE user_id = $1 AND id = $2`,
		userID, contribution.GoalID, amount,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrGoalNotFound
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO goal_contributions (goal_id, amount, note, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, goal_id, amount, note, date`,
		contribution.GoalID, amount, contribution.Note, contribution.Date,
	)
	created, err := scanContribution(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// ListContributions retrieves the contribution history for a goal, newest first
func (r *GoalRepository) ListContributions(userID int32, goalID uuid.UUID) ([]*domain.Contribution, error) {
	ctx := context.Background()

	// Ownership check first so a foreign goal reads as not found
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM goals WHERE user_id = $1 AND id = $2)`,
		userID, goalID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrGoalNotFound
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, goal_id, amount, note, date
		FROM goal_contributions
		WHERE goal_id = $1
		ORDER BY date DESC`,
		goalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contributions := make([]*domain.Contribution, 0)
	for rows.Next() {
		contribution, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, contribution)
	}
	return contributions, rows.Err()
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		goal     domain.Goal
		target   pgtype.Numeric
		current  pgtype.Numeric
		deadline pgtype.Timestamptz
		priority string
	)
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&target,
		&current,
		&deadline,
		&goal.Icon,
		&goal.Color,
		&priority,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	goal.TargetAmount = pgNumericToDecimal(target)
	goal.CurrentAmount = pgNumericToDecimal(current)
	goal.Priority = domain.GoalPriority(priority)
	if deadline.Valid {
		goal.Deadline = &deadline.Time
	}
	return &goal, nil
}

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var (
		contribution domain.Contribution
		amount       pgtype.Numeric
		note         pgtype.Text
	)
	err := row.Scan(
		&contribution.ID,
		&contribution.GoalID,
		&amount,
		&note,
		&contribution.Date,
	)
	if err != nil {
		return nil, err
	}
	contribution.Amount = pgNumericToDecimal(amount)
	if note.Valid {
		contribution.Note = &note.String
	}
	return &contribution, nil
}
