package insight

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/util"
	"github.com/shopspring/decimal"
)

// Sub-metric weights; they sum to 100 so the weighted total divides back
// into a 0-100 score.
const (
	WeightBudgetAdherence = 30
	WeightSavingsRate     = 25
	WeightExpenseControl  = 20
	WeightGoalProgress    = 15
	WeightConsistency     = 10
)

// HealthBreakdown holds the five 0-100 sub-scores
type HealthBreakdown struct {
	BudgetAdherence int `json:"budgetAdherence"`
	SavingsRate     int `json:"savingsRate"`
	ExpenseControl  int `json:"expenseControl"`
	GoalProgress    int `json:"goalProgress"`
	Consistency     int `json:"consistency"`
}

type HealthStateID string

const (
	HealthExcellent HealthStateID = "EXCELLENT"
	HealthGood      HealthStateID = "GOOD"
	HealthModerate  HealthStateID = "MODERATE"
	HealthAttention HealthStateID = "ATTENTION"
	HealthCritical  HealthStateID = "CRITICAL"
)

// HealthState is a categorical band over the score with its presentation
type HealthState struct {
	ID       HealthStateID `json:"id"`
	MinScore int           `json:"minScore"`
	Label    string        `json:"label"`
	Emoji    string        `json:"emoji"`
	Color    string        `json:"color"`
	Face     string        `json:"face"`
}

var healthStates = []HealthState{
	{HealthExcellent, 80, "Excellent", "🌟", "#22c55e", "😄"},
	{HealthGood, 60, "Good", "✅", "#84cc16", "🙂"},
	{HealthModerate, 40, "Moderate", "⚖️", "#eab308", "😐"},
	{HealthAttention, 20, "Needs attention", "⚠️", "#f97316", "😟"},
	{HealthCritical, 0, "Critical", "🚨", "#dc2626", "😰"},
}

// HealthStateFor maps a score to its band
func HealthStateFor(score int) HealthState {
	for _, state := range healthStates {
		if score >= state.MinScore {
			return state
		}
	}
	return healthStates[len(healthStates)-1]
}

// HealthScore is the weighted overall score with its breakdown and band
type HealthScore struct {
	Score     int             `json:"score"`
	State     HealthState     `json:"state"`
	Breakdown HealthBreakdown `json:"breakdown"`
}

// CalculateHealthScore combines five independently scored sub-metrics with
// fixed weights into a single 0-100 integer. Each sub-metric falls back to
// a documented neutral default when its inputs are absent.
func CalculateHealthScore(transactions []*domain.Transaction, budgets []*domain.Budget, goals []*domain.Goal, now time.Time) *HealthScore {
	breakdown := HealthBreakdown{
		BudgetAdherence: budgetAdherenceScore(budgets, transactions, now),
		SavingsRate:     savingsRateScore(transactions, now),
		ExpenseControl:  expenseControlScore(transactions, now),
		GoalProgress:    goalProgressScore(goals),
		Consistency:     consistencyScore(transactions, now),
	}

	weighted := breakdown.BudgetAdherence*WeightBudgetAdherence +
		breakdown.SavingsRate*WeightSavingsRate +
		breakdown.ExpenseControl*WeightExpenseControl +
		breakdown.GoalProgress*WeightGoalProgress +
		breakdown.Consistency*WeightConsistency

	score := weighted / 100

	return &HealthScore{
		Score:     score,
		State:     HealthStateFor(score),
		Breakdown: breakdown,
	}
}

// budgetAdherenceScore averages a step function of utilization over all
// budgets. No budgets is a vacuous pass.
func budgetAdherenceScore(budgets []*domain.Budget, transactions []*domain.Transaction, now time.Time) int {
	if len(budgets) == 0 {
		return 100
	}

	total := 0
	for _, budget := range budgets {
		spent := MonthSpent(transactions, budget.Category, now.Year(), now.Month())
		utilization := BudgetPercentage(spent, budget.Amount)
		switch {
		case utilization <= 80:
			total += 100
		case utilization <= 100:
			total += 70
		case utilization <= 120:
			total += 40
		default:
			total += 10
		}
	}

	return total / len(budgets)
}

func monthIncomeExpense(transactions []*domain.Transaction, now time.Time) (decimal.Decimal, decimal.Decimal) {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range transactions {
		if !util.SameMonth(tx.Date, now) {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}

// savingsRateScore maps (income-expense)/income to a banded score.
// A month without income scores a neutral 50.
func savingsRateScore(transactions []*domain.Transaction, now time.Time) int {
	income, expense := monthIncomeExpense(transactions, now)
	if income.LessThanOrEqual(decimal.Zero) {
		return 50
	}

	rate, _ := income.Sub(expense).Div(income).Mul(decimal.NewFromInt(100)).Float64()
	switch {
	case rate >= 20:
		return 100
	case rate >= 10:
		return 80
	case rate >= 5:
		return 60
	case rate >= 0:
		return 40
	default:
		return 20
	}
}

// expenseControlScore maps expense/income to a banded score.
// A month without income scores a neutral 50.
func expenseControlScore(transactions []*domain.Transaction, now time.Time) int {
	income, expense := monthIncomeExpense(transactions, now)
	if income.LessThanOrEqual(decimal.Zero) {
		return 50
	}

	ratio, _ := expense.Div(income).Mul(decimal.NewFromInt(100)).Float64()
	switch {
	case ratio <= 50:
		return 100
	case ratio <= 70:
		return 80
	case ratio <= 90:
		return 60
	case ratio <= 100:
		return 40
	default:
		return 20
	}
}

// goalProgressScore is the mean capped progress across goals; no goals is
// a neutral 50.
func goalProgressScore(goals []*domain.Goal) int {
	if len(goals) == 0 {
		return 50
	}

	total := 0.0
	for _, goal := range goals {
		if goal.TargetAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		pct, _ := goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
		if pct > 100 {
			pct = 100
		}
		total += pct
	}

	return int(total / float64(len(goals)))
}

// consistencyScore compares the month's transaction count to an expected
// count of half a transaction per elapsed day.
func consistencyScore(transactions []*domain.Transaction, now time.Time) int {
	count := 0
	for _, tx := range transactions {
		if util.SameMonth(tx.Date, now) {
			count++
		}
	}

	expected := float64(now.Day()) * 0.5
	if expected <= 0 {
		return 20
	}

	ratio := float64(count) / expected
	switch {
	case ratio >= 1:
		return 100
	case ratio >= 0.7:
		return 80
	case ratio >= 0.5:
		return 60
	case ratio >= 0.3:
		return 40
	default:
		return 20
	}
}

var positiveMessages = map[HealthStateID][]string{
	HealthExcellent: {
		"Your finances are in great shape, keep it up!",
		"Outstanding month. Your money is working for you.",
		"Excellent discipline across budgets and savings.",
	},
	HealthGood: {
		"Solid footing this month, small tweaks could make it excellent.",
		"Good habits are showing in your numbers.",
		"You're on the right track with your spending.",
	},
	HealthModerate: {
		"A steady month. A couple of categories need watching.",
		"You're holding the line, tighten the weak spots.",
		"Not bad, but there's room to save a bit more.",
	},
	HealthAttention: {
		"Some budgets are slipping, a quick review will help.",
		"This month needs attention before it gets away.",
		"Time to rein in a few categories.",
	},
	HealthCritical: {
		"Spending is well past your plan, start with the biggest overrun.",
		"A reset will help: pause non-essentials this week.",
		"Focus on the essentials until the month stabilizes.",
	},
}

var actionableTips = map[HealthStateID][]string{
	HealthExcellent: {
		"Consider raising a goal contribution while the surplus lasts.",
		"Lock in the habit: schedule an automatic transfer to savings.",
	},
	HealthGood: {
		"Move spare headroom from an underused budget into savings.",
		"Check your recurring charges for anything you no longer use.",
	},
	HealthModerate: {
		"Pick your most-used category and set a weekly cap.",
		"Review this week's discretionary purchases before the weekend.",
	},
	HealthAttention: {
		"Pause one subscription this month and see if you miss it.",
		"Plan the rest of the month's meals to cut food spend.",
	},
	HealthCritical: {
		"List your three largest expenses and cut one today.",
		"Switch to essentials-only spending until the next income arrives.",
	},
}

// PositiveMessage picks a message for the state uniformly at random.
// Pass a seeded rng for deterministic output; nil uses the global source.
func PositiveMessage(state HealthStateID, rng *rand.Rand) string {
	return pickMessage(positiveMessages[state], rng)
}

// ActionableTip picks a tip for the state uniformly at random
func ActionableTip(state HealthStateID, rng *rand.Rand) string {
	return pickMessage(actionableTips[state], rng)
}

// PositiveMessagePool returns a copy of the full pool for a state
func PositiveMessagePool(state HealthStateID) []string {
	return append([]string(nil), positiveMessages[state]...)
}

// ActionableTipPool returns a copy of the full tip pool for a state
func ActionableTipPool(state HealthStateID) []string {
	return append([]string(nil), actionableTips[state]...)
}

func pickMessage(pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	if rng != nil {
		return pool[rng.Intn(len(pool))]
	}
	return pool[rand.Intn(len(pool))]
}

// BalanceProjection extrapolates the month's spending pace to its end
type BalanceProjection struct {
	CurrentBalance             decimal.Decimal `json:"currentBalance"`
	DailyAvgExpense            decimal.Decimal `json:"dailyAvgExpense"`
	ProjectedRemainingExpenses decimal.Decimal `json:"projectedRemainingExpenses"`
	ProjectedBalance           decimal.Decimal `json:"projectedBalance"`
	DaysElapsed                int             `json:"daysElapsed"`
	DaysRemaining              int             `json:"daysRemaining"`
}

// CalculateProjectedBalance projects the end-of-month balance from the
// average daily expense so far this month
func CalculateProjectedBalance(transactions []*domain.Transaction, now time.Time) *BalanceProjection {
	balance := decimal.Zero
	monthExpense := decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			balance = balance.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			balance = balance.Sub(tx.Amount)
			if util.SameMonth(tx.Date, now) {
				monthExpense = monthExpense.Add(tx.Amount)
			}
		}
	}

	day := now.Day()
	daysRemaining := util.DaysInMonth(now.Year(), now.Month()) - day

	dailyAvg := monthExpense.Div(decimal.NewFromInt(int64(day)))
	projectedRemaining := dailyAvg.Mul(decimal.NewFromInt(int64(daysRemaining)))

	return &BalanceProjection{
		CurrentBalance:             balance,
		DailyAvgExpense:            dailyAvg,
		ProjectedRemainingExpenses: projectedRemaining,
		ProjectedBalance:           balance.Sub(projectedRemaining),
		DaysElapsed:                day,
		DaysRemaining:              daysRemaining,
	}
}

// ComparisonInsight is one highlighted change versus last month
type ComparisonInsight struct {
	Kind      string  `json:"kind"`
	Category  string  `json:"category,omitempty"`
	Message   string  `json:"message"`
	ChangePct float64 `json:"changePct"`
}

// MonthComparison contrasts this month's spending with the previous one
type MonthComparison struct {
	CurrentExpenses  decimal.Decimal     `json:"currentExpenses"`
	PreviousExpenses decimal.Decimal     `json:"previousExpenses"`
	ChangePct        float64             `json:"changePct"`
	Positive         bool                `json:"positive"`
	Neutral          bool                `json:"neutral"`
	Insights         []ComparisonInsight `json:"insights"`
}

// maxComparisonInsights caps how many highlights the comparison surfaces
const maxComparisonInsights = 3

// CompareWithLastMonth computes the expense change versus the prior
// calendar month: a drop of 5% or more is positive, any change under 5% is
// neutral. It also surfaces category reductions of 15%+, income growth and
// net-savings improvement, capped at three insights.
func CompareWithLastMonth(transactions []*domain.Transaction, now time.Time) *MonthComparison {
	prevYear, prevMonth := util.PreviousMonth(now.Year(), int(now.Month()))
	prevRef := time.Date(prevYear, time.Month(prevMonth), 1, 0, 0, 0, 0, now.Location())

	curIncome, curExpense := monthIncomeExpense(transactions, now)
	prevIncome, prevExpense := monthIncomeExpense(transactions, prevRef)

	comparison := &MonthComparison{
		CurrentExpenses:  curExpense,
		PreviousExpenses: prevExpense,
		Insights:         make([]ComparisonInsight, 0, maxComparisonInsights),
	}

	if prevExpense.LessThanOrEqual(decimal.Zero) {
		// No baseline month to compare against
		comparison.Neutral = true
		return comparison
	}

	change, _ := curExpense.Sub(prevExpense).Div(prevExpense).Mul(decimal.NewFromInt(100)).Float64()
	comparison.ChangePct = change
	comparison.Positive = change <= -5
	comparison.Neutral = change > -5 && change < 5

	if comparison.Positive {
		comparison.Insights = append(comparison.Insights, ComparisonInsight{
			Kind:      "expense_reduction",
			Message:   fmt.Sprintf("Total spending is down %.0f%% from last month.", -change),
			ChangePct: change,
		})
	}

	for _, insight := range categoryReductions(transactions, now, prevRef) {
		if len(comparison.Insights) >= maxComparisonInsights {
			return comparison
		}
		comparison.Insights = append(comparison.Insights, insight)
	}

	if len(comparison.Insights) < maxComparisonInsights && prevIncome.GreaterThan(decimal.Zero) && curIncome.GreaterThan(prevIncome) {
		growth, _ := curIncome.Sub(prevIncome).Div(prevIncome).Mul(decimal.NewFromInt(100)).Float64()
		comparison.Insights = append(comparison.Insights, ComparisonInsight{
			Kind:      "income_growth",
			Message:   fmt.Sprintf("Income grew %.0f%% versus last month.", growth),
			ChangePct: growth,
		})
	}

	if len(comparison.Insights) < maxComparisonInsights {
		curNet := curIncome.Sub(curExpense)
		prevNet := prevIncome.Sub(prevExpense)
		if curNet.GreaterThan(prevNet) {
			comparison.Insights = append(comparison.Insights, ComparisonInsight{
				Kind:    "savings_improvement",
				Message: fmt.Sprintf("Net savings improved by %s over last month.", FormatMoney(curNet.Sub(prevNet))),
			})
		}
	}

	return comparison
}

func categoryReductions(transactions []*domain.Transaction, now, prevRef time.Time) []ComparisonInsight {
	curByCat := make(map[string]decimal.Decimal)
	prevByCat := make(map[string]decimal.Decimal)
	displayName := make(map[string]string)

	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		key := domain.NormalizeCategory(tx.Category)
		if _, ok := displayName[key]; !ok {
			displayName[key] = tx.Category
		}
		switch {
		case util.SameMonth(tx.Date, now):
			curByCat[key] = curByCat[key].Add(tx.Amount)
		case util.SameMonth(tx.Date, prevRef):
			prevByCat[key] = prevByCat[key].Add(tx.Amount)
		}
	}

	insights := make([]ComparisonInsight, 0)
	for key, prevSpent := range prevByCat {
		if prevSpent.LessThanOrEqual(decimal.Zero) {
			continue
		}
		change, _ := curByCat[key].Sub(prevSpent).Div(prevSpent).Mul(decimal.NewFromInt(100)).Float64()
		if change <= -15 {
			insights = append(insights, ComparisonInsight{
				Kind:      "category_reduction",
				Category:  displayName[key],
				Message:   fmt.Sprintf("%s spending is down %.0f%% from last month.", displayName[key], -change),
				ChangePct: change,
			})
		}
	}

	return insights
}

// AchievementSummary holds streak and habit markers derived from history
type AchievementSummary struct {
	StreakDays     int  `json:"streakDays"`
	CompletedGoals int  `json:"completedGoals"`
	MindfulWeek    bool `json:"mindfulWeek"`
}

// CalculateAchievements derives the consecutive-day registration streak
// ending today, the number of completed goals, and whether the last seven
// days avoided expenses in the wasteful necessity tiers.
func CalculateAchievements(transactions []*domain.Transaction, goals []*domain.Goal, now time.Time) *AchievementSummary {
	days := make(map[string]bool)
	for _, tx := range transactions {
		days[tx.Date.Format("2006-01-02")] = true
	}

	streak := 0
	cursor := util.StartOfDay(now)
	for days[cursor.Format("2006-01-02")] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	completed := 0
	for _, goal := range goals {
		if goal.TargetAmount.GreaterThan(decimal.Zero) && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			completed++
		}
	}

	weekAgo := now.AddDate(0, 0, -7)
	mindful := true
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || tx.Necessity == nil {
			continue
		}
		if tx.Necessity.Wasteful() && tx.Date.After(weekAgo) {
			mindful = false
			break
		}
	}

	return &AchievementSummary{
		StreakDays:     streak,
		CompletedGoals: completed,
		MindfulWeek:    mindful,
	}
}
