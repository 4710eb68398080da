package insight

import (
	"fmt"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReminderLeadDays is how far ahead upcoming-charge reminders look
const DefaultReminderLeadDays = 3

type ReminderKind string

const (
	ReminderUpcoming ReminderKind = "upcoming"
	ReminderDueToday ReminderKind = "today"
)

// Reminder announces a recurring charge that is due soon or today.
// Key is the per-month dedup key (expenseID_kind_month_year).
type Reminder struct {
	Key       string               `json:"key"`
	ExpenseID uuid.UUID            `json:"expenseId"`
	Kind      ReminderKind         `json:"kind"`
	Priority  domain.AlertPriority `json:"priority"`
	Name      string               `json:"name"`
	Amount    decimal.Decimal      `json:"amount"`
	Category  string               `json:"category"`
	DueDay    int                  `json:"dueDay"`
	DaysUntil int                  `json:"daysUntil"`
	Message   string               `json:"message"`
}

// ReminderKey builds the dedup key marking a reminder class as shown for
// the month
func ReminderKey(expenseID uuid.UUID, kind ReminderKind, now time.Time) string {
	return fmt.Sprintf("%s_%s_%d_%d", expenseID, kind, int(now.Month()), now.Year())
}

// effectiveDueDay clamps the due day into the current month, so a charge
// configured for day 31 still lands in February.
func effectiveDueDay(expense *domain.RecurringExpense, now time.Time) int {
	return util.CalculateActualDate(now.Year(), now.Month(), expense.DueDay).Day()
}

// GenerateReminders emits reminders for enabled recurring expenses due
// within daysAhead days ("upcoming", high priority at exactly one day out)
// or due today ("today"). Each class fires at most once per calendar month:
// candidates whose key wasShown reports as already surfaced are dropped.
func GenerateReminders(expenses []*domain.RecurringExpense, daysAhead int, now time.Time, wasShown func(key string) bool) []*Reminder {
	if daysAhead <= 0 {
		daysAhead = DefaultReminderLeadDays
	}

	reminders := make([]*Reminder, 0)
	for _, expense := range expenses {
		if !expense.Enabled {
			continue
		}

		daysUntil := effectiveDueDay(expense, now) - now.Day()

		var kind ReminderKind
		var priority domain.AlertPriority
		var message string
		switch {
		case daysUntil == 0:
			kind = ReminderDueToday
			priority = domain.AlertPriorityHigh
			message = fmt.Sprintf("%s (%s) is due today.", expense.Name, FormatMoney(expense.Amount))
		case daysUntil > 0 && daysUntil <= daysAhead:
			kind = ReminderUpcoming
			if daysUntil == 1 {
				priority = domain.AlertPriorityHigh
				message = fmt.Sprintf("%s (%s) is due tomorrow.", expense.Name, FormatMoney(expense.Amount))
			} else {
				priority = domain.AlertPriorityMedium
				message = fmt.Sprintf("%s (%s) is due in %d days.", expense.Name, FormatMoney(expense.Amount), daysUntil)
			}
		default:
			continue
		}

		key := ReminderKey(expense.ID, kind, now)
		if wasShown != nil && wasShown(key) {
			continue
		}

		reminders = append(reminders, &Reminder{
			Key:       key,
			ExpenseID: expense.ID,
			Kind:      kind,
			Priority:  priority,
			Name:      expense.Name,
			Amount:    expense.Amount,
			Category:  expense.Category,
			DueDay:    expense.DueDay,
			DaysUntil: daysUntil,
			Message:   message,
		})
	}

	return reminders
}

type BudgetImpactStatus string

const (
	ImpactStatusOK       BudgetImpactStatus = "ok"
	ImpactStatusWarning  BudgetImpactStatus = "warning"
	ImpactStatusExceeded BudgetImpactStatus = "exceeded"
)

// BudgetImpact is the share of one budget pre-committed to fixed charges
type BudgetImpact struct {
	Category     string             `json:"category"`
	BudgetAmount decimal.Decimal    `json:"budgetAmount"`
	Committed    decimal.Decimal    `json:"committed"`
	Percentage   float64            `json:"percentage"`
	Status       BudgetImpactStatus `json:"status"`
}

// RecurringImpact summarizes how much of the overall budget fixed monthly
// costs consume
type RecurringImpact struct {
	TotalFixed        decimal.Decimal `json:"totalFixed"`
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	OverallPercentage float64         `json:"overallPercentage"`
	FreeAmount        decimal.Decimal `json:"freeAmount"`
	Budgets           []BudgetImpact  `json:"budgets"`
}

// CalculateImpact groups enabled recurring expenses by category and, for
// every budget whose category carries fixed charges, reports the committed
// percentage with a status tag.
func CalculateImpact(expenses []*domain.RecurringExpense, budgets []*domain.Budget) *RecurringImpact {
	byCategory := make(map[string]decimal.Decimal)
	totalFixed := decimal.Zero
	for _, expense := range expenses {
		if !expense.Enabled {
			continue
		}
		key := domain.NormalizeCategory(expense.Category)
		byCategory[key] = byCategory[key].Add(expense.Amount)
		totalFixed = totalFixed.Add(expense.Amount)
	}

	impacts := make([]BudgetImpact, 0)
	totalBudget := decimal.Zero
	for _, budget := range budgets {
		totalBudget = totalBudget.Add(budget.Amount)

		committed, ok := byCategory[domain.NormalizeCategory(budget.Category)]
		if !ok || committed.IsZero() {
			continue
		}

		percentage := BudgetPercentage(committed, budget.Amount)
		status := ImpactStatusOK
		switch {
		case percentage >= 100:
			status = ImpactStatusExceeded
		case percentage >= 80:
			status = ImpactStatusWarning
		}

		impacts = append(impacts, BudgetImpact{
			Category:     budget.Category,
			BudgetAmount: budget.Amount,
			Committed:    committed,
			Percentage:   percentage,
			Status:       status,
		})
	}

	return &RecurringImpact{
		TotalFixed:        totalFixed,
		TotalBudget:       totalBudget,
		OverallPercentage: BudgetPercentage(totalFixed, totalBudget),
		FreeAmount:        totalBudget.Sub(totalFixed),
		Budgets:           impacts,
	}
}

// ChargesView is a point-in-time split of this month's recurring charges
type ChargesView struct {
	Upcoming      []*domain.RecurringExpense `json:"upcoming"`
	Charged       []*domain.RecurringExpense `json:"charged"`
	UpcomingTotal decimal.Decimal            `json:"upcomingTotal"`
	ChargedTotal  decimal.Decimal            `json:"chargedTotal"`
}

// UpcomingCharges partitions enabled recurring expenses into those still
// ahead this month versus already charged (today counts as charged).
// No persisted state is involved.
func UpcomingCharges(expenses []*domain.RecurringExpense, now time.Time) *ChargesView {
	view := &ChargesView{
		Upcoming: make([]*domain.RecurringExpense, 0),
		Charged:  make([]*domain.RecurringExpense, 0),
	}

	for _, expense := range expenses {
		if !expense.Enabled {
			continue
		}
		if effectiveDueDay(expense, now) > now.Day() {
			view.Upcoming = append(view.Upcoming, expense)
			view.UpcomingTotal = view.UpcomingTotal.Add(expense.Amount)
		} else {
			view.Charged = append(view.Charged, expense)
			view.ChargedTotal = view.ChargedTotal.Add(expense.Amount)
		}
	}

	return view
}

// FixedBucket groups recurring expenses of one kind with their total
type FixedBucket struct {
	Total decimal.Decimal            `json:"total"`
	Items []*domain.RecurringExpense `json:"items"`
}

// FixedSummary buckets fixed monthly costs into subscriptions, household
// services and everything else
type FixedSummary struct {
	Subscriptions FixedBucket     `json:"subscriptions"`
	Services      FixedBucket     `json:"services"`
	Other         FixedBucket     `json:"other"`
	Total         decimal.Decimal `json:"total"`
}

// MonthlyFixedSummary buckets enabled recurring expenses by kind
func MonthlyFixedSummary(expenses []*domain.RecurringExpense) *FixedSummary {
	summary := &FixedSummary{
		Subscriptions: FixedBucket{Items: make([]*domain.RecurringExpense, 0)},
		Services:      FixedBucket{Items: make([]*domain.RecurringExpense, 0)},
		Other:         FixedBucket{Items: make([]*domain.RecurringExpense, 0)},
	}

	for _, expense := range expenses {
		if !expense.Enabled {
			continue
		}

		var bucket *FixedBucket
		switch {
		case domain.IsSubscriptionCategory(expense.Category):
			bucket = &summary.Subscriptions
		case domain.IsServiceCategory(expense.Category):
			bucket = &summary.Services
		default:
			bucket = &summary.Other
		}

		bucket.Items = append(bucket.Items, expense)
		bucket.Total = bucket.Total.Add(expense.Amount)
		summary.Total = summary.Total.Add(expense.Amount)
	}

	return summary
}
