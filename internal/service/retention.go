package service

import (
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// Alert records only drive the 24h dedup window; 90 days keeps a
	// comfortable audit trail before rows are dropped.
	alertRetention = 90 * 24 * time.Hour

	// Reminder keys embed month and year, so marks from two months back
	// can never suppress anything.
	reminderRetention = 60 * 24 * time.Hour

	defaultSweepInterval = 24 * time.Hour
)

// RetentionWorker periodically prunes the alert history and reminder log so
// the side-state tables stay proportional to recent activity.
type RetentionWorker struct {
	alertHistory  domain.AlertHistory
	reminderStore domain.ReminderStore
	interval      time.Duration
	stop          chan struct{}
}

// NewRetentionWorker creates a new RetentionWorker
func NewRetentionWorker(alertHistory domain.AlertHistory, reminderStore domain.ReminderStore) *RetentionWorker {
	return &RetentionWorker{
		alertHistory:  alertHistory,
		reminderStore: reminderStore,
		interval:      defaultSweepInterval,
		stop:          make(chan struct{}),
	}
}

// Start launches the background sweep loop
func (w *RetentionWorker) Start() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep(time.Now().UTC())
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop
func (w *RetentionWorker) Stop() {
	close(w.stop)
}

func (w *RetentionWorker) sweep(now time.Time) {
	alerts, err := w.alertHistory.Prune(now.Add(-alertRetention))
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune alert history")
	}

	reminders, err := w.reminderStore.Prune(now.Add(-reminderRetention))
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune reminder log")
	}

	log.Info().
		Int64("alert_records", alerts).
		Int64("reminder_marks", reminders).
		Msg("Pruned insight side-state")
}
