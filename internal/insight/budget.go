package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DedupWindow is how long a threshold alert stays suppressed after firing
const DedupWindow = 24 * time.Hour

// Alert is a derived budget warning ready for rendering. ID is the
// composite dedup key (category_threshold_month_year).
type Alert struct {
	ID           string               `json:"id"`
	Type         domain.AlertType     `json:"type"`
	Priority     domain.AlertPriority `json:"priority"`
	Category     string               `json:"category"`
	CategoryKey  string               `json:"categoryKey"`
	Percentage   float64              `json:"percentage"`
	Spent        decimal.Decimal      `json:"spent"`
	BudgetAmount decimal.Decimal      `json:"budgetAmount"`
	Remaining    decimal.Decimal      `json:"remaining"`
	Ratio        float64              `json:"ratio,omitempty"`
	Emoji        string               `json:"emoji"`
	Color        string               `json:"color"`
	Title        string               `json:"title"`
	Message      string               `json:"message"`
	Suggestion   string               `json:"suggestion,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Record converts the alert into its persisted dedup record
func (a *Alert) Record(userID int32) *domain.AlertRecord {
	return &domain.AlertRecord{
		ID:        a.ID,
		UserID:    userID,
		Type:      a.Type,
		Timestamp: a.Timestamp,
	}
}

type thresholdBand struct {
	threshold  int
	alertType  domain.AlertType
	priority   domain.AlertPriority
	emoji      string
	color      string
	title      string
	suggestion string
}

// Bands are ordered highest first; the first band whose lower bound the
// utilization reaches wins. Only the 120% band repeats while it holds,
// the rest go through 24h dedup.
var thresholdBands = []thresholdBand{
	{120, domain.AlertThresholdExceeded, domain.AlertPriorityCritical, "🚨", "#dc2626",
		"Budget exceeded by over 20%",
		"Freeze non-essential spending in %s and review the largest charges this month."},
	{100, domain.AlertThreshold100, domain.AlertPriorityHigh, "❌", "#ef4444",
		"Budget limit reached",
		"Hold off on further %s purchases until next month."},
	{80, domain.AlertThreshold80, domain.AlertPriorityMedium, "⚠️", "#f59e0b",
		"80% of budget used",
		"Only essentials in %s for the rest of the month."},
	{50, domain.AlertThreshold50, domain.AlertPriorityLow, "💡", "#3b82f6",
		"Half of budget used",
		"Keep an eye on %s spending to stay on pace."},
}

// BudgetPercentage returns spent as a percentage of the budget amount,
// or 0 when the amount is not strictly positive.
func BudgetPercentage(spent, amount decimal.Decimal) float64 {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct, _ := spent.Div(amount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// MonthSpent sums expense transactions in the category for the given month
func MonthSpent(transactions []*domain.Transaction, category string, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if !tx.IsExpenseIn(category) {
			continue
		}
		if tx.Date.Year() == year && tx.Date.Month() == month {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

func alertID(categoryKey string, threshold int, now time.Time) string {
	return fmt.Sprintf("%s_%d_%d_%d", categoryKey, threshold, int(now.Month()), now.Year())
}

func bandFor(percentage float64) *thresholdBand {
	for i := range thresholdBands {
		if percentage >= float64(thresholdBands[i].threshold) {
			return &thresholdBands[i]
		}
	}
	return nil
}

// AnalyzeBudgets scans every budget against current-month spend and returns
// the unsuppressed threshold alerts. An alert below the critical band is
// suppressed when a record with the same composite ID and type is younger
// than DedupWindow; the critical band always fires while it holds.
func AnalyzeBudgets(budgets []*domain.Budget, transactions []*domain.Transaction, previous []*domain.AlertRecord, now time.Time) []*Alert {
	recent := make(map[string]*domain.AlertRecord, len(previous))
	for _, record := range previous {
		recent[record.ID] = record
	}

	seen := make(map[string]bool, len(budgets))
	alerts := make([]*Alert, 0)

	for _, budget := range budgets {
		key := domain.NormalizeCategory(budget.Category)
		if seen[key] {
			// One budget per category is assumed; later duplicates are ignored
			log.Warn().Str("category", budget.Category).Msg("Duplicate budget category skipped during analysis")
			continue
		}
		seen[key] = true

		spent := MonthSpent(transactions, budget.Category, now.Year(), now.Month())
		percentage := BudgetPercentage(spent, budget.Amount)

		band := bandFor(percentage)
		if band == nil {
			continue
		}

		id := alertID(key, band.threshold, now)
		if band.threshold < 120 {
			if record, ok := recent[id]; ok && record.Type == band.alertType && now.Sub(record.Timestamp) < DedupWindow {
				continue
			}
		}

		alerts = append(alerts, &Alert{
			ID:           id,
			Type:         band.alertType,
			Priority:     band.priority,
			Category:     budget.Category,
			CategoryKey:  key,
			Percentage:   percentage,
			Spent:        spent,
			BudgetAmount: budget.Amount,
			Remaining:    budget.Amount.Sub(spent),
			Emoji:        band.emoji,
			Color:        band.color,
			Title:        band.title,
			Message: fmt.Sprintf("You have spent %s of your %s %s budget (%.0f%%).",
				FormatMoney(spent), FormatMoney(budget.Amount), budget.Category, percentage),
			Suggestion: fmt.Sprintf(band.suggestion, budget.Category),
			Timestamp:  now,
		})
	}

	return alerts
}

// DetectAbnormalSpending compares current-month spend in a category to the
// mean of up to the previous three months. Only months with nonzero spend
// count toward the baseline; without any such month it returns nil. Fires
// when current spend is at least twice the baseline.
func DetectAbnormalSpending(transactions []*domain.Transaction, category string, now time.Time) *Alert {
	current := MonthSpent(transactions, category, now.Year(), now.Month())

	year, month := now.Year(), int(now.Month())
	baseline := decimal.Zero
	monthsWithSpend := 0
	for i := 0; i < 3; i++ {
		year, month = util.PreviousMonth(year, month)
		spent := MonthSpent(transactions, category, year, time.Month(month))
		if spent.GreaterThan(decimal.Zero) {
			baseline = baseline.Add(spent)
			monthsWithSpend++
		}
	}

	if monthsWithSpend == 0 {
		return nil
	}

	average := baseline.Div(decimal.NewFromInt(int64(monthsWithSpend)))
	if current.LessThan(average.Mul(decimal.NewFromInt(2))) {
		return nil
	}

	ratio, _ := current.Div(average).Float64()
	key := domain.NormalizeCategory(category)

	return &Alert{
		ID:          fmt.Sprintf("%s_abnormal_%d_%d", key, int(now.Month()), now.Year()),
		Type:        domain.AlertAbnormalSpending,
		Priority:    domain.AlertPriorityHigh,
		Category:    category,
		CategoryKey: key,
		Spent:       current,
		Ratio:       ratio,
		Emoji:       "📈",
		Color:       "#ef4444",
		Title:       "Unusual spending detected",
		Message: fmt.Sprintf("%s spending this month (%s) is %.1fx your recent average of %s.",
			category, FormatMoney(current), ratio, FormatMoney(average)),
		Timestamp: now,
	}
}

// DetectQuickBurn flags budgets being consumed materially faster than the
// calendar. The check only runs in the first half of the month; later on a
// high spend percentage is expected and the signal is mostly noise.
func DetectQuickBurn(budgets []*domain.Budget, transactions []*domain.Transaction, now time.Time) []*Alert {
	day := now.Day()
	daysInMonth := util.DaysInMonth(now.Year(), now.Month())
	monthProgress := float64(day) / float64(daysInMonth) * 100

	if monthProgress >= 50 {
		return nil
	}

	alerts := make([]*Alert, 0)
	for _, budget := range budgets {
		spent := MonthSpent(transactions, budget.Category, now.Year(), now.Month())
		percentage := BudgetPercentage(spent, budget.Amount)
		if percentage <= 2*monthProgress {
			continue
		}

		key := domain.NormalizeCategory(budget.Category)
		alerts = append(alerts, &Alert{
			ID:           fmt.Sprintf("%s_quickburn_%d_%d", key, int(now.Month()), now.Year()),
			Type:         domain.AlertQuickBurn,
			Priority:     domain.AlertPriorityHigh,
			Category:     budget.Category,
			CategoryKey:  key,
			Percentage:   percentage,
			Spent:        spent,
			BudgetAmount: budget.Amount,
			Remaining:    budget.Amount.Sub(spent),
			Emoji:        "🔥",
			Color:        "#f97316",
			Title:        "Spending ahead of the calendar",
			Message: fmt.Sprintf("%.0f%% of the %s budget is gone but only %.0f%% of the month has passed.",
				percentage, budget.Category, monthProgress),
			Timestamp: now,
		})
	}

	return alerts
}

// AdjustmentSuggestion proposes moving headroom from an underused budget
type AdjustmentSuggestion struct {
	FromCategory      string          `json:"fromCategory"`
	Utilization       float64         `json:"utilization"`
	Available         decimal.Decimal `json:"available"`
	SuggestedTransfer decimal.Decimal `json:"suggestedTransfer"`
}

// GenerateAdjustmentSuggestions proposes donor budgets for an exceeded
// category: every other budget under 70% utilization, ranked by available
// headroom, with the transfer capped at half of what remains.
func GenerateAdjustmentSuggestions(budgets []*domain.Budget, transactions []*domain.Transaction, exceededCategory string, now time.Time) []AdjustmentSuggestion {
	suggestions := make([]AdjustmentSuggestion, 0)
	half := decimal.NewFromFloat(0.5)

	for _, budget := range budgets {
		if domain.CategoriesMatch(budget.Category, exceededCategory) {
			continue
		}

		spent := MonthSpent(transactions, budget.Category, now.Year(), now.Month())
		utilization := BudgetPercentage(spent, budget.Amount)
		if utilization >= 70 {
			continue
		}

		available := budget.Amount.Sub(spent)
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}

		suggestions = append(suggestions, AdjustmentSuggestion{
			FromCategory:      budget.Category,
			Utilization:       utilization,
			Available:         available,
			SuggestedTransfer: available.Mul(half),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Available.GreaterThan(suggestions[j].Available)
	})

	return suggestions
}
