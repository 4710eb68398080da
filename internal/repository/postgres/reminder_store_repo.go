package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderStoreRepository implements domain.ReminderStore using PostgreSQL
type ReminderStoreRepository struct {
	pool *pgxpool.Pool
}

// NewReminderStoreRepository creates a new ReminderStoreRepository
func NewReminderStoreRepository(pool *pgxpool.Pool) *ReminderStoreRepository {
	return &ReminderStoreRepository{pool: pool}
}

// WasShown reports whether a reminder key was already surfaced for a user
func (r *ReminderStoreRepository) WasShown(userID int32, key string) (bool, error) {
	ctx := context.Background()

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reminder_log WHERE user_id = $1 AND reminder_key = $2)`,
		userID, key,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// MarkShown records that a reminder key was surfaced. Marking the same key
// twice keeps the first timestamp.
func (r *ReminderStoreRepository) MarkShown(userID int32, key string, shownAt time.Time) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO reminder_log (user_id, reminder_key, shown_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, reminder_key) DO NOTHING`,
		userID, key, shownAt,
	)
	return err
}

// Prune deletes reminder marks older than the cutoff. Keys embed month and
// year, so old rows can never suppress a future reminder.
func (r *ReminderStoreRepository) Prune(before time.Time) (int64, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM reminder_log WHERE shown_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
