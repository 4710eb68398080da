package domain

import "time"

// ReminderStore is the persisted side channel that marks a recurring-expense
// reminder as already surfaced for a given month. Keys are composed as
// expenseID_kind_month_year so each reminder class deduplicates on its own.
type ReminderStore interface {
	WasShown(userID int32, key string) (bool, error)
	MarkShown(userID int32, key string, shownAt time.Time) error
	Prune(before time.Time) (int64, error)
}
