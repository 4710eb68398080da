package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeAlert, nil)

	assert.Equal(t, "alert.created", event.Type)
	assert.Equal(t, EntityTypeAlert, event.Entity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{TransactionCreated(nil), "transaction.created"},
		{TransactionUpdated(nil), "transaction.updated"},
		{TransactionDeleted(nil), "transaction.deleted"},
		{BudgetCreated(nil), "budget.created"},
		{BudgetUpdated(nil), "budget.updated"},
		{BudgetDeleted(nil), "budget.deleted"},
		{GoalUpdated(nil), "goal.updated"},
		{RecurringCreated(nil), "recurring.created"},
		{RecurringUpdated(nil), "recurring.updated"},
		{RecurringDeleted(nil), "recurring.deleted"},
		{AlertCreated(nil), "alert.created"},
		{ReminderCreated(nil), "reminder.created"},
		{ReminderDismissed(nil), "reminder.dismissed"},
		{HealthScoreUpdated(nil), "health_score.updated"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.Type)
	}
}

func TestEvent_ToJSON(t *testing.T) {
	event := AlertCreated(map[string]interface{}{
		"id":       "food_80_5_2026",
		"priority": "medium",
	})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "alert.created", decoded["type"])
	assert.Equal(t, "alert", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "food_80_5_2026", payload["id"])
}
