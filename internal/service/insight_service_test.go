package service

import (
	"errors"
	"testing"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/insight"
	"github.com/daniel1743/finanza-suite-sub000/internal/testutil"
	"github.com/shopspring/decimal"
)

func newInsightFixture() (*InsightService, *testutil.MockTransactionRepository, *testutil.MockBudgetRepository, *testutil.MockGoalRepository, *testutil.MockRecurringExpenseRepository, *testutil.MockAlertHistory, *testutil.MockReminderStore, *testutil.MockEventPublisher) {
	transactions := testutil.NewMockTransactionRepository()
	budgets := testutil.NewMockBudgetRepository()
	goals := testutil.NewMockGoalRepository()
	recurring := testutil.NewMockRecurringExpenseRepository()
	history := testutil.NewMockAlertHistory()
	reminders := testutil.NewMockReminderStore()
	publisher := testutil.NewMockEventPublisher()

	svc := NewInsightService(transactions, budgets, goals, recurring, history, reminders)
	svc.SetEventPublisher(publisher)
	return svc, transactions, budgets, goals, recurring, history, reminders, publisher
}

func expense(userID int32, category string, amount int64, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		UserID:   userID,
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Date:     date,
	}
}

func TestCheckAlerts_RecordsAndPublishes(t *testing.T) {
	svc, transactions, budgets, _, _, history, _, publisher := newInsightFixture()

	// Day 20 of 31 keeps the quick burn check out of the way
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	transactions.AddTransaction(expense(1, "Food", 450, now.AddDate(0, 0, -1)))

	alerts, err := svc.CheckAlerts(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != domain.AlertThreshold80 {
		t.Errorf("Expected THRESHOLD_80 alert, got %s", alerts[0].Type)
	}
	if len(history.Records) != 1 {
		t.Errorf("Expected 1 history record, got %d", len(history.Records))
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "alert.created" {
		t.Errorf("Expected alert.created event, got %v", types)
	}
}

func TestCheckAlerts_SuppressesRepeats(t *testing.T) {
	svc, transactions, budgets, _, _, _, _, _ := newInsightFixture()

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	// A prior-month baseline makes current spend abnormal too
	transactions.AddTransaction(expense(1, "Food", 100, now.AddDate(0, -1, 0)))
	transactions.AddTransaction(expense(1, "Food", 450, now.AddDate(0, 0, -1)))

	first, err := svc.CheckAlerts(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("Expected threshold and abnormal alerts, got %d", len(first))
	}

	second, err := svc.CheckAlerts(1, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected repeats to be suppressed, got %d alerts", len(second))
	}
}

func TestCheckAlerts_CriticalAlwaysFires(t *testing.T) {
	svc, transactions, budgets, _, _, _, _, _ := newInsightFixture()

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	transactions.AddTransaction(expense(1, "Food", 650, now.AddDate(0, 0, -1)))

	for i := 0; i < 2; i++ {
		alerts, err := svc.CheckAlerts(1, now.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(alerts) != 1 || alerts[0].Type != domain.AlertThresholdExceeded {
			t.Fatalf("Run %d: expected THRESHOLD_EXCEEDED alert, got %d alerts", i, len(alerts))
		}
	}
}

func TestCheckAlerts_QuickBurnEarlyInMonth(t *testing.T) {
	svc, transactions, budgets, _, _, _, _, _ := newInsightFixture()

	// Day 5 of 31: 16% of the month gone, 40% of the budget spent
	now := time.Date(2026, 5, 5, 12, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	transactions.AddTransaction(expense(1, "Food", 200, now.AddDate(0, 0, -1)))

	alerts, err := svc.CheckAlerts(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(alerts) != 1 || alerts[0].Type != domain.AlertQuickBurn {
		t.Fatalf("Expected a single QUICK_BURN alert, got %d", len(alerts))
	}
}

func TestCheckAlerts_SaveFailureSkipsPublish(t *testing.T) {
	svc, transactions, budgets, _, _, history, _, publisher := newInsightFixture()

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	transactions.AddTransaction(expense(1, "Food", 450, now.AddDate(0, 0, -1)))

	history.SaveFn = func(record *domain.AlertRecord) error {
		return errors.New("connection reset")
	}

	alerts, err := svc.CheckAlerts(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("Expected the alert to still be returned, got %d", len(alerts))
	}
	if types := publisher.EventTypes(); len(types) != 0 {
		t.Errorf("Expected no events after failed save, got %v", types)
	}
}

func TestBudgetAdjustments_RanksDonors(t *testing.T) {
	svc, transactions, budgets, _, _, _, _, _ := newInsightFixture()

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Food", Amount: decimal.NewFromInt(500), Period: domain.BudgetPeriodMonthly})
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Transport", Amount: decimal.NewFromInt(200), Period: domain.BudgetPeriodMonthly})
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Leisure", Amount: decimal.NewFromInt(300), Period: domain.BudgetPeriodMonthly})
	transactions.AddTransaction(expense(1, "Transport", 50, now.AddDate(0, 0, -2)))

	suggestions, err := svc.BudgetAdjustments(1, "Food", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggestions))
	}
	// Leisure has 300 untouched, Transport 150 left
	if suggestions[0].FromCategory != "Leisure" {
		t.Errorf("Expected Leisure ranked first, got %s", suggestions[0].FromCategory)
	}
	if !suggestions[1].SuggestedTransfer.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Expected transfer of 75 from Transport, got %s", suggestions[1].SuggestedTransfer)
	}
}

func TestCheckReminders_DismissalSilencesForTheMonth(t *testing.T) {
	svc, _, _, _, recurring, _, _, publisher := newInsightFixture()

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	recurring.AddExpense(&domain.RecurringExpense{
		UserID: 1, Name: "Netflix", Amount: decimal.NewFromInt(15),
		Category: "Subscriptions", DueDay: 12, Enabled: true,
	})

	first, err := svc.CheckReminders(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(first))
	}
	if first[0].Kind != insight.ReminderUpcoming || first[0].DaysUntil != 2 {
		t.Errorf("Expected upcoming reminder 2 days out, got %s/%d", first[0].Kind, first[0].DaysUntil)
	}

	// Undismissed reminders fire again on the next check
	again, err := svc.CheckReminders(1, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(again) != 1 {
		t.Fatalf("Expected the reminder to repeat before dismissal, got %d", len(again))
	}

	if err := svc.DismissReminder(1, first[0].Key, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	silenced, err := svc.CheckReminders(1, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(silenced) != 0 {
		t.Errorf("Expected no reminders after dismissal, got %d", len(silenced))
	}

	types := publisher.EventTypes()
	want := []string{"reminder.created", "reminder.created", "reminder.dismissed"}
	if len(types) != len(want) {
		t.Fatalf("Expected %d events, got %v", len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], types[i])
		}
	}
}

func TestCheckReminders_RespectsLeadDays(t *testing.T) {
	svc, _, _, _, recurring, _, _, _ := newInsightFixture()

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	recurring.AddExpense(&domain.RecurringExpense{
		UserID: 1, Name: "Rent", Amount: decimal.NewFromInt(900),
		Category: "Housing", DueDay: 17, Enabled: true,
	})

	none, err := svc.CheckReminders(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("Expected no reminders with default lead, got %d", len(none))
	}

	svc.SetReminderLeadDays(7)
	widened, err := svc.CheckReminders(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(widened) != 1 {
		t.Errorf("Expected 1 reminder with a 7-day lead, got %d", len(widened))
	}
}

func TestRecurringImpact_BundlesViews(t *testing.T) {
	svc, _, budgets, _, recurring, _, _, _ := newInsightFixture()

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	budgets.AddBudget(&domain.Budget{UserID: 1, Category: "Subscriptions", Amount: decimal.NewFromInt(100), Period: domain.BudgetPeriodMonthly})
	recurring.AddExpense(&domain.RecurringExpense{
		UserID: 1, Name: "Netflix", Amount: decimal.NewFromInt(15),
		Category: "Subscriptions", DueDay: 20, Enabled: true,
	})
	recurring.AddExpense(&domain.RecurringExpense{
		UserID: 1, Name: "Spotify", Amount: decimal.NewFromInt(10),
		Category: "Subscriptions", DueDay: 3, Enabled: true,
	})

	overview, err := svc.RecurringImpact(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !overview.Impact.TotalFixed.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected total fixed 25, got %s", overview.Impact.TotalFixed)
	}
	if len(overview.Charges.Upcoming) != 1 || len(overview.Charges.Charged) != 1 {
		t.Errorf("Expected 1 upcoming and 1 charged, got %d/%d",
			len(overview.Charges.Upcoming), len(overview.Charges.Charged))
	}
	if !overview.Summary.Subscriptions.Total.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected subscriptions bucket total 25, got %s", overview.Summary.Subscriptions.Total)
	}
}

func TestHealthReport_NeutralBaseline(t *testing.T) {
	svc, _, _, _, _, _, _, publisher := newInsightFixture()

	now := time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC)
	report, err := svc.HealthReport(1, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Score.Score != 62 {
		t.Errorf("Expected neutral score 62, got %d", report.Score.Score)
	}
	if report.Score.State.ID != insight.HealthGood {
		t.Errorf("Expected GOOD state, got %s", report.Score.State.ID)
	}
	if report.Message == "" || report.Tip == "" {
		t.Error("Expected a message and a tip")
	}
	if report.Projection == nil || report.Comparison == nil || report.Achievements == nil {
		t.Error("Expected projection, comparison, and achievements to be present")
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "health_score.updated" {
		t.Errorf("Expected health_score.updated event, got %v", types)
	}
}

func TestGoalOutlook_FromContributionHistory(t *testing.T) {
	svc, _, _, goals, _, _, _, _ := newInsightFixture()

	now := time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC)
	goal := &domain.Goal{
		UserID:        1,
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(250),
		Priority:      domain.GoalPriorityMedium,
	}
	goals.AddGoal(goal)

	note := "monthly deposit"
	if _, err := goals.AddContribution(1, &domain.Contribution{
		GoalID: goal.ID,
		Amount: decimal.NewFromInt(250),
		Note:   &note,
		Date:   now.AddDate(0, -1, 0),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	outlook, err := svc.GoalOutlook(1, goal.ID, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if outlook.Goal == nil || outlook.Goal.Percentage != 50 {
		t.Errorf("Expected 50%% progress, got %+v", outlook.Goal)
	}
	if outlook.Milestone == nil || outlook.Milestone.Threshold != 50 {
		t.Errorf("Expected halfway milestone, got %+v", outlook.Milestone)
	}
	if outlook.RequiredSavings == nil {
		t.Error("Expected required savings to be present")
	}
	if outlook.Projection == nil {
		t.Error("Expected a projection from the contribution history")
	}
}

func TestGoalOutlook_NotFound(t *testing.T) {
	svc, _, _, goals, _, _, _, _ := newInsightFixture()

	goal := &domain.Goal{UserID: 2, Name: "Vacation", TargetAmount: decimal.NewFromInt(1000), Priority: domain.GoalPriorityMedium}
	goals.AddGoal(goal)

	_, err := svc.GoalOutlook(1, goal.ID, time.Now())
	if err != domain.ErrGoalNotFound {
		t.Errorf("Expected ErrGoalNotFound, got %v", err)
	}
}
