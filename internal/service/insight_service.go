package service

import (
	"math/rand"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/insight"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InsightService runs the analysis engines over a user's data and manages
// the persisted side-state (alert history, reminder log) they depend on.
type InsightService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	goalRepo        domain.GoalRepository
	recurringRepo   domain.RecurringExpenseRepository
	alertHistory    domain.AlertHistory
	reminderStore   domain.ReminderStore
	eventPublisher  websocket.EventPublisher
	reminderLead    int
	rng             *rand.Rand
}

// NewInsightService creates a new InsightService
func NewInsightService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	goalRepo domain.GoalRepository,
	recurringRepo domain.RecurringExpenseRepository,
	alertHistory domain.AlertHistory,
	reminderStore domain.ReminderStore,
) *InsightService {
	return &InsightService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		goalRepo:        goalRepo,
		recurringRepo:   recurringRepo,
		alertHistory:    alertHistory,
		reminderStore:   reminderStore,
		reminderLead:    insight.DefaultReminderLeadDays,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InsightService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetReminderLeadDays overrides how many days ahead reminders fire
func (s *InsightService) SetReminderLeadDays(days int) {
	if days > 0 {
		s.reminderLead = days
	}
}

// SetRand injects a random source for deterministic message selection
func (s *InsightService) SetRand(rng *rand.Rand) {
	s.rng = rng
}

func (s *InsightService) publishEvent(userID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CheckAlerts runs the budget threshold, abnormal spending, and quick burn
// checks for a user, records each surfaced alert in the history, and
// publishes it. Threshold alerts repeated within the dedup window are
// suppressed by the analyzer; the same window applies to the other checks.
func (s *InsightService) CheckAlerts(userID int32, now time.Time) ([]*insight.Alert, error) {
	budgets, err := s.budgetRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.ListByUser(userID, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.alertHistory.Recent(userID, now.Add(-insight.DedupWindow))
	if err != nil {
		return nil, err
	}

	alerts := insight.AnalyzeBudgets(budgets, transactions, recent, now)

	for _, budget := range budgets {
		if alert := insight.DetectAbnormalSpending(transactions, budget.Category, now); alert != nil {
			if !suppressed(recent, alert) {
				alerts = append(alerts, alert)
			}
		}
	}

	for _, alert := range insight.DetectQuickBurn(budgets, transactions, now) {
		if !suppressed(recent, alert) {
			alerts = append(alerts, alert)
		}
	}

	for _, alert := range alerts {
		if err := s.alertHistory.Save(alert.Record(userID)); err != nil {
			log.Error().Err(err).
				Int32("user_id", userID).
				Str("alert_id", alert.ID).
				Msg("Failed to record alert")
			continue
		}
		s.publishEvent(userID, websocket.AlertCreated(alert))
	}

	return alerts, nil
}

func suppressed(recent []*domain.AlertRecord, alert *insight.Alert) bool {
	for _, record := range recent {
		if record.ID == alert.ID && record.Type == alert.Type {
			return true
		}
	}
	return false
}

// BudgetAdjustments suggests transfers from underused budgets into an
// exceeded category
func (s *InsightService) BudgetAdjustments(userID int32, exceededCategory string, now time.Time) ([]insight.AdjustmentSuggestion, error) {
	budgets, err := s.budgetRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.ListByUser(userID, nil)
	if err != nil {
		return nil, err
	}
	return insight.GenerateAdjustmentSuggestions(budgets, transactions, exceededCategory, now), nil
}

// CheckReminders generates due-date reminders for the user's enabled
// recurring expenses, skipping any the user already dismissed this month,
// and publishes the rest. Reminders repeat until dismissed.
func (s *InsightService) CheckReminders(userID int32, now time.Time) ([]*insight.Reminder, error) {
	expenses, err := s.recurringRepo.ListByUser(userID, true)
	if err != nil {
		return nil, err
	}

	var lookupErr error
	wasShown := func(key string) bool {
		shown, err := s.reminderStore.WasShown(userID, key)
		if err != nil {
			lookupErr = err
			// Fail open: a missed dedup beats a missed payment
			return false
		}
		return shown
	}

	reminders := insight.GenerateReminders(expenses, s.reminderLead, now, wasShown)
	if lookupErr != nil {
		log.Warn().Err(lookupErr).
			Int32("user_id", userID).
			Msg("Reminder dedup lookup failed")
	}

	for _, reminder := range reminders {
		s.publishEvent(userID, websocket.ReminderCreated(reminder))
	}

	return reminders, nil
}

// DismissReminder marks a reminder as handled so it stays quiet for the
// rest of the month
func (s *InsightService) DismissReminder(userID int32, key string, now time.Time) error {
	if err := s.reminderStore.MarkShown(userID, key, now); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.ReminderDismissed(map[string]string{"key": key}))
	return nil
}

// RecurringOverview bundles the fixed-expense views the dashboard shows
type RecurringOverview struct {
	Impact  *insight.RecurringImpact `json:"impact"`
	Charges *insight.ChargesView     `json:"charges"`
	Summary *insight.FixedSummary    `json:"summary"`
}

// RecurringImpact reports how the user's fixed monthly charges weigh on
// their budgets and what remains uncommitted.
func (s *InsightService) RecurringImpact(userID int32, now time.Time) (*RecurringOverview, error) {
	expenses, err := s.recurringRepo.ListByUser(userID, true)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &RecurringOverview{
		Impact:  insight.CalculateImpact(expenses, budgets),
		Charges: insight.UpcomingCharges(expenses, now),
		Summary: insight.MonthlyFixedSummary(expenses),
	}, nil
}

// HealthReport is the full scorer output for a user
type HealthReport struct {
	Score        *insight.HealthScore        `json:"score"`
	Message      string                      `json:"message"`
	Tip          string                      `json:"tip"`
	Projection   *insight.BalanceProjection  `json:"projection"`
	Comparison   *insight.MonthComparison    `json:"comparison"`
	Achievements *insight.AchievementSummary `json:"achievements"`
}

// HealthReport scores the user's financial health and assembles the
// supporting projections and comparisons, then publishes the fresh score.
func (s *InsightService) HealthReport(userID int32, now time.Time) (*HealthReport, error) {
	transactions, err := s.transactionRepo.ListByUser(userID, nil)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	score := insight.CalculateHealthScore(transactions, budgets, goals, now)

	report := &HealthReport{
		Score:        score,
		Message:      insight.PositiveMessage(score.State.ID, s.rng),
		Tip:          insight.ActionableTip(score.State.ID, s.rng),
		Projection:   insight.CalculateProjectedBalance(transactions, now),
		Comparison:   insight.CompareWithLastMonth(transactions, now),
		Achievements: insight.CalculateAchievements(transactions, goals, now),
	}

	s.publishEvent(userID, websocket.HealthScoreUpdated(score))
	return report, nil
}

// GoalOutlook bundles projection, required savings, and what-if scenarios
// for one goal
type GoalOutlook struct {
	Goal            *insight.GoalProgress    `json:"goal"`
	Projection      *insight.GoalProjection  `json:"projection"`
	RequiredSavings *insight.RequiredSavings `json:"requiredSavings"`
	Scenarios       []insight.Scenario       `json:"scenarios"`
	Milestone       *insight.Milestone       `json:"milestone,omitempty"`
}

// GoalOutlook projects a goal's completion from its contribution history
func (s *InsightService) GoalOutlook(userID int32, goalID uuid.UUID, now time.Time) (*GoalOutlook, error) {
	goal, err := s.goalRepo.GetByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	contributions, err := s.goalRepo.ListContributions(userID, goalID)
	if err != nil {
		return nil, err
	}

	progress := insight.CalculateGoalProgress(goal)
	outlook := &GoalOutlook{
		Goal:            progress,
		Projection:      insight.CalculateProjection(goal, contributions, now),
		RequiredSavings: insight.CalculateRequiredSavings(goal, now),
		Scenarios:       insight.SimulateScenarios(goal, contributions, now),
	}
	if progress != nil {
		outlook.Milestone = insight.MilestoneFor(progress.Percentage)
	}
	return outlook, nil
}
