package insight

import (
	"math/rand"
	"testing"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var healthNow = time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC)

func TestCalculateHealthScore_AllNeutralDefaults(t *testing.T) {
	// No data at all: every sub-metric falls back to its documented
	// neutral default and the weighted score is deterministic
	score := CalculateHealthScore(nil, nil, nil, healthNow)

	require.NotNil(t, score)
	assert.Equal(t, 100, score.Breakdown.BudgetAdherence)
	assert.Equal(t, 50, score.Breakdown.SavingsRate)
	assert.Equal(t, 50, score.Breakdown.ExpenseControl)
	assert.Equal(t, 50, score.Breakdown.GoalProgress)
	assert.Equal(t, 20, score.Breakdown.Consistency)
	// (100*30 + 50*25 + 50*20 + 50*15 + 20*10) / 100 = 62
	assert.Equal(t, 62, score.Score)
	assert.Equal(t, HealthGood, score.State.ID)
}

func TestCalculateHealthScore_HealthyMonth(t *testing.T) {
	transactions := []*domain.Transaction{
		incomeOn(4000, healthNow.AddDate(0, 0, -10)),
	}
	// 12 expense days in a row keep consistency at 100 (expected 18*0.5=9)
	for i := 0; i < 12; i++ {
		transactions = append(transactions, expenseOn("Food", 100, healthNow.AddDate(0, 0, -i)))
	}

	budgets := []*domain.Budget{budgetFor("Food", 2000)} // 1200 spent -> 60%
	goals := []*domain.Goal{newGoal(1000, 900)}          // 90%

	score := CalculateHealthScore(transactions, budgets, goals, healthNow)

	assert.Equal(t, 100, score.Breakdown.BudgetAdherence)
	// Savings rate (4000-1200)/4000 = 70% -> 100
	assert.Equal(t, 100, score.Breakdown.SavingsRate)
	// Expense ratio 1200/4000 = 30% -> 100
	assert.Equal(t, 100, score.Breakdown.ExpenseControl)
	assert.Equal(t, 90, score.Breakdown.GoalProgress)
	assert.Equal(t, 100, score.Breakdown.Consistency)
	// (100*30+100*25+100*20+90*15+100*10)/100 = 98
	assert.Equal(t, 98, score.Score)
	assert.Equal(t, HealthExcellent, score.State.ID)
}

func TestBudgetAdherenceScore_StepFunction(t *testing.T) {
	tests := []struct {
		spent float64
		want  int
	}{
		{800, 100},  // 80%
		{950, 70},   // 95%
		{1150, 40},  // 115%
		{1500, 10},  // 150%
	}

	for _, tt := range tests {
		budgets := []*domain.Budget{budgetFor("Food", 1000)}
		transactions := []*domain.Transaction{expenseOn("Food", tt.spent, healthNow)}
		got := budgetAdherenceScore(budgets, transactions, healthNow)
		assert.Equal(t, tt.want, got, "spent %.0f", tt.spent)
	}
}

func TestSavingsRateScore_Bands(t *testing.T) {
	tests := []struct {
		income  float64
		expense float64
		want    int
	}{
		{1000, 700, 100}, // 30% saved
		{1000, 850, 80},  // 15%
		{1000, 930, 60},  // 7%
		{1000, 990, 40},  // 1%
		{1000, 1100, 20}, // negative rate
		{0, 500, 50},     // no income -> neutral
	}

	for _, tt := range tests {
		transactions := []*domain.Transaction{expenseOn("Food", tt.expense, healthNow)}
		if tt.income > 0 {
			transactions = append(transactions, incomeOn(tt.income, healthNow))
		}
		got := savingsRateScore(transactions, healthNow)
		assert.Equal(t, tt.want, got, "income %.0f expense %.0f", tt.income, tt.expense)
	}
}

func TestExpenseControlScore_Bands(t *testing.T) {
	tests := []struct {
		expense float64
		want    int
	}{
		{400, 100},  // 40%
		{650, 80},   // 65%
		{850, 60},   // 85%
		{1000, 40},  // exactly 100%
		{1200, 20},  // over income
	}

	for _, tt := range tests {
		transactions := []*domain.Transaction{
			incomeOn(1000, healthNow),
			expenseOn("Food", tt.expense, healthNow),
		}
		got := expenseControlScore(transactions, healthNow)
		assert.Equal(t, tt.want, got, "expense %.0f", tt.expense)
	}
}

func TestGoalProgressScore_CapsEachGoal(t *testing.T) {
	goals := []*domain.Goal{
		newGoal(1000, 2500), // capped at 100
		newGoal(1000, 500),  // 50
	}

	assert.Equal(t, 75, goalProgressScore(goals))
	assert.Equal(t, 50, goalProgressScore(nil))
}

func TestConsistencyScore_Bands(t *testing.T) {
	// Day 18: expected count is 9
	tests := []struct {
		count int
		want  int
	}{
		{9, 100},
		{7, 80}, // ratio 0.77
		{5, 60}, // 0.55
		{3, 40}, // 0.33
		{1, 20},
		{0, 20},
	}

	for _, tt := range tests {
		transactions := make([]*domain.Transaction, 0, tt.count)
		for i := 0; i < tt.count; i++ {
			transactions = append(transactions, expenseOn("Food", 10, healthNow))
		}
		assert.Equal(t, tt.want, consistencyScore(transactions, healthNow), "count %d", tt.count)
	}
}

func TestHealthStateFor_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  HealthStateID
	}{
		{95, HealthExcellent},
		{80, HealthExcellent},
		{79, HealthGood},
		{60, HealthGood},
		{59, HealthModerate},
		{40, HealthModerate},
		{39, HealthAttention},
		{20, HealthAttention},
		{19, HealthCritical},
		{0, HealthCritical},
	}

	for _, tt := range tests {
		state := HealthStateFor(tt.score)
		assert.Equal(t, tt.want, state.ID, "score %d", tt.score)
		assert.NotEmpty(t, state.Label)
		assert.NotEmpty(t, state.Emoji)
		assert.NotEmpty(t, state.Face)
	}
}

func TestMessageSelection_DrawsFromPool(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, state := range []HealthStateID{HealthExcellent, HealthGood, HealthModerate, HealthAttention, HealthCritical} {
		pool := PositiveMessagePool(state)
		require.NotEmpty(t, pool, "state %s", state)
		assert.Contains(t, pool, PositiveMessage(state, rng))

		tips := ActionableTipPool(state)
		require.NotEmpty(t, tips, "state %s", state)
		assert.Contains(t, tips, ActionableTip(state, rng))
	}
}

func TestMessageSelection_DeterministicWithSeededSource(t *testing.T) {
	a := PositiveMessage(HealthGood, rand.New(rand.NewSource(7)))
	b := PositiveMessage(HealthGood, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestCalculateProjectedBalance(t *testing.T) {
	transactions := []*domain.Transaction{
		incomeOn(3000, healthNow.AddDate(0, 0, -5)),
		expenseOn("Food", 900, healthNow.AddDate(0, 0, -2)),
	}

	projection := CalculateProjectedBalance(transactions, healthNow)

	require.NotNil(t, projection)
	assert.True(t, projection.CurrentBalance.Equal(decimal.NewFromInt(2100)))
	// 900 over 18 days = 50/day; 13 days remain in May
	assert.True(t, projection.DailyAvgExpense.Equal(decimal.NewFromInt(50)), "daily %s", projection.DailyAvgExpense)
	assert.Equal(t, 13, projection.DaysRemaining)
	assert.True(t, projection.ProjectedRemainingExpenses.Equal(decimal.NewFromInt(650)))
	assert.True(t, projection.ProjectedBalance.Equal(decimal.NewFromInt(1450)))
}

func TestCompareWithLastMonth_NoBaseline(t *testing.T) {
	transactions := []*domain.Transaction{expenseOn("Food", 500, healthNow)}

	comparison := CompareWithLastMonth(transactions, healthNow)

	require.NotNil(t, comparison)
	assert.True(t, comparison.Neutral)
	assert.Empty(t, comparison.Insights)
}

func TestCompareWithLastMonth_PositiveReduction(t *testing.T) {
	lastMonth := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*domain.Transaction{
		expenseOn("Food", 1000, lastMonth),
		expenseOn("Food", 800, healthNow),
	}

	comparison := CompareWithLastMonth(transactions, healthNow)

	require.NotNil(t, comparison)
	assert.InDelta(t, -20.0, comparison.ChangePct, 0.001)
	assert.True(t, comparison.Positive)
	assert.False(t, comparison.Neutral)
	require.NotEmpty(t, comparison.Insights)
	assert.Equal(t, "expense_reduction", comparison.Insights[0].Kind)
}

func TestCompareWithLastMonth_SmallChangeIsNeutral(t *testing.T) {
	lastMonth := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*domain.Transaction{
		expenseOn("Food", 1000, lastMonth),
		expenseOn("Food", 1030, healthNow), // +3%
	}

	comparison := CompareWithLastMonth(transactions, healthNow)

	assert.True(t, comparison.Neutral)
	assert.False(t, comparison.Positive)
}

func TestCompareWithLastMonth_InsightsCappedAtThree(t *testing.T) {
	lastMonth := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*domain.Transaction{
		// Big reductions in several categories plus income growth and
		// better net savings would exceed the cap
		expenseOn("Food", 1000, lastMonth),
		expenseOn("Transport", 500, lastMonth),
		expenseOn("Shopping", 400, lastMonth),
		incomeOn(2000, lastMonth),
		expenseOn("Food", 300, healthNow),
		expenseOn("Transport", 100, healthNow),
		expenseOn("Shopping", 50, healthNow),
		incomeOn(3000, healthNow),
	}

	comparison := CompareWithLastMonth(transactions, healthNow)

	assert.Len(t, comparison.Insights, 3)
}

func TestCalculateAchievements_Streak(t *testing.T) {
	transactions := []*domain.Transaction{
		expenseOn("Food", 10, healthNow),
		expenseOn("Food", 10, healthNow.AddDate(0, 0, -1)),
		expenseOn("Food", 10, healthNow.AddDate(0, 0, -2)),
		// Gap on day -3 breaks the streak
		expenseOn("Food", 10, healthNow.AddDate(0, 0, -4)),
	}

	achievements := CalculateAchievements(transactions, nil, healthNow)

	require.NotNil(t, achievements)
	assert.Equal(t, 3, achievements.StreakDays)
}

func TestCalculateAchievements_NoTransactionTodayMeansNoStreak(t *testing.T) {
	transactions := []*domain.Transaction{
		expenseOn("Food", 10, healthNow.AddDate(0, 0, -1)),
	}

	achievements := CalculateAchievements(transactions, nil, healthNow)
	assert.Zero(t, achievements.StreakDays)
}

func TestCalculateAchievements_CompletedGoalsAndMindfulWeek(t *testing.T) {
	goals := []*domain.Goal{
		newGoal(1000, 1000),
		newGoal(1000, 400),
	}

	superfluous := domain.NecessitySuperfluous
	essential := domain.NecessityEssential
	recent := expenseOn("Shopping", 80, healthNow.AddDate(0, 0, -2))
	recent.Necessity = &superfluous
	old := expenseOn("Shopping", 80, healthNow.AddDate(0, 0, -10))
	old.Necessity = &superfluous
	fine := expenseOn("Food", 40, healthNow)
	fine.Necessity = &essential

	withRecent := CalculateAchievements([]*domain.Transaction{recent, fine}, goals, healthNow)
	assert.Equal(t, 1, withRecent.CompletedGoals)
	assert.False(t, withRecent.MindfulWeek)

	withoutRecent := CalculateAchievements([]*domain.Transaction{old, fine}, goals, healthNow)
	assert.True(t, withoutRecent.MindfulWeek)
}
