package domain

import "time"

type AlertType string

const (
	AlertThreshold50       AlertType = "THRESHOLD_50"
	AlertThreshold80       AlertType = "THRESHOLD_80"
	AlertThreshold100      AlertType = "THRESHOLD_100"
	AlertThresholdExceeded AlertType = "THRESHOLD_EXCEEDED"
	AlertAbnormalSpending  AlertType = "ABNORMAL_SPENDING"
	AlertQuickBurn         AlertType = "QUICK_BURN"
)

type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "low"
	AlertPriorityMedium   AlertPriority = "medium"
	AlertPriorityHigh     AlertPriority = "high"
	AlertPriorityCritical AlertPriority = "critical"
)

// AlertRecord marks that an alert with the given composite ID
// (category_threshold_month_year) was surfaced at Timestamp. Records are
// kept so that the same threshold alert is not repeated within 24 hours.
type AlertRecord struct {
	ID        string    `json:"id"`
	UserID    int32     `json:"userId"`
	Type      AlertType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertHistory is the persisted side channel for alert deduplication.
// Entries only accumulate between prunes; a lost update on the same key
// is harmless.
type AlertHistory interface {
	Recent(userID int32, since time.Time) ([]*AlertRecord, error)
	Save(record *AlertRecord) error
	Prune(before time.Time) (int64, error)
}
