package postgres

import (
	"context"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlertHistoryRepository implements domain.AlertHistory using PostgreSQL
type AlertHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewAlertHistoryRepository creates a new AlertHistoryRepository
func NewAlertHistoryRepository(pool *pgxpool.Pool) *AlertHistoryRepository {
	return &AlertHistoryRepository{pool: pool}
}

// Recent returns the alert records for a user newer than the cutoff
func (r *AlertHistoryRepository) Recent(userID int32, since time.Time) ([]*domain.AlertRecord, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT alert_id, user_id, type, surfaced_at
		FROM alert_history
		WHERE user_id = $1 AND surfaced_at > $2
		ORDER BY surfaced_at DESC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AlertRecord, 0)
	for rows.Next() {
		record, err := scanAlertRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Save appends a record. Duplicate surfacing of the same alert is recorded
// as a new row; dedup decisions belong to the analyzer.
func (r *AlertHistoryRepository) Save(record *domain.AlertRecord) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO alert_history (alert_id, user_id, type, surfaced_at)
		VALUES ($1, $2, $3, $4)`,
		record.ID, record.UserID, string(record.Type), record.Timestamp,
	)
	return err
}

// Prune deletes records older than the cutoff. Called periodically so the
// table stays proportional to recent activity.
func (r *AlertHistoryRepository) Prune(before time.Time) (int64, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM alert_history WHERE surfaced_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanAlertRecord(row pgx.Row) (*domain.AlertRecord, error) {
	var (
		record  domain.AlertRecord
		alertTy string
	)
	err := row.Scan(&record.ID, &record.UserID, &alertTy, &record.Timestamp)
	if err != nil {
		return nil, err
	}
	record.Type = domain.AlertType(alertTy)
	return &record, nil
}
