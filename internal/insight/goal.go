package insight

import (
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/domain"
	"github.com/daniel1743/finanza-suite-sub000/internal/util"
	"github.com/shopspring/decimal"
)

// GoalProgress is a snapshot of how far along a savings goal is
type GoalProgress struct {
	Current            decimal.Decimal `json:"current"`
	Target             decimal.Decimal `json:"target"`
	Remaining          decimal.Decimal `json:"remaining"`
	Percentage         float64         `json:"percentage"`
	IsCompleted        bool            `json:"isCompleted"`
	FormattedCurrent   string          `json:"formattedCurrent"`
	FormattedTarget    string          `json:"formattedTarget"`
	FormattedRemaining string          `json:"formattedRemaining"`
}

// CalculateGoalProgress derives the progress snapshot for a goal.
// Returns nil when the target amount is not strictly positive.
func CalculateGoalProgress(goal *domain.Goal) *GoalProgress {
	if goal == nil || goal.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percentage, _ := goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	return &GoalProgress{
		Current:            goal.CurrentAmount,
		Target:             goal.TargetAmount,
		Remaining:          remaining,
		Percentage:         percentage,
		IsCompleted:        goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount),
		FormattedCurrent:   FormatMoney(goal.CurrentAmount),
		FormattedTarget:    FormatMoney(goal.TargetAmount),
		FormattedRemaining: FormatMoney(remaining),
	}
}

// MonthlySavingsAverage averages contribution totals across the calendar
// months that received at least one contribution. Months with no activity
// are excluded rather than counted as zero, so the average is biased upward
// compared to a zero-filled mean; callers projecting completion dates get
// an optimistic pace on sparse histories. Returns zero for empty input.
func MonthlySavingsAverage(contributions []*domain.Contribution) decimal.Decimal {
	if len(contributions) == 0 {
		return decimal.Zero
	}

	byMonth := make(map[string]decimal.Decimal)
	for _, c := range contributions {
		key := util.MonthKey(c.Date)
		byMonth[key] = byMonth[key].Add(c.Amount)
	}

	total := decimal.Zero
	for _, sum := range byMonth {
		total = total.Add(sum)
	}

	return total.Div(decimal.NewFromInt(int64(len(byMonth))))
}

// ProjectionStatus identifies which branch a goal projection resolved to
type ProjectionStatus string

const (
	ProjectionCompleted        ProjectionStatus = "completed"
	ProjectionOnPace           ProjectionStatus = "projected"
	ProjectionNeedsPlan        ProjectionStatus = "needs_plan"
	ProjectionInsufficientData ProjectionStatus = "insufficient_data"
)

// GoalProjection estimates when a goal will be reached at the current pace
type GoalProjection struct {
	Status           ProjectionStatus `json:"status"`
	AlreadyCompleted bool             `json:"alreadyCompleted"`
	MonthlyAverage   decimal.Decimal  `json:"monthlyAverage"`
	MonthsToComplete int              `json:"monthsToComplete,omitempty"`
	ProjectedDate    *time.Time       `json:"projectedDate,omitempty"`
	RequiredMonthly  decimal.Decimal  `json:"requiredMonthly,omitempty"`
	MonthsLeft       int              `json:"monthsLeft,omitempty"`
	HasDeadline      bool             `json:"hasDeadline"`
	OnTrack          bool             `json:"onTrack"`
	DaysAhead        int              `json:"daysAhead,omitempty"`
	DaysBehind       int              `json:"daysBehind,omitempty"`
}

// CalculateProjection resolves one of three branches: the goal is already
// complete, there is no contribution pace yet (with or without a deadline
// to plan against), or the historical pace projects a completion date that
// is compared against the deadline when one exists.
func CalculateProjection(goal *domain.Goal, contributions []*domain.Contribution, now time.Time) *GoalProjection {
	if goal == nil {
		return nil
	}

	if goal.TargetAmount.GreaterThan(decimal.Zero) && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		return &GoalProjection{Status: ProjectionCompleted, AlreadyCompleted: true}
	}

	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)
	average := MonthlySavingsAverage(contributions)

	if average.LessThanOrEqual(decimal.Zero) {
		if goal.Deadline != nil {
			daysLeft := util.DaysBetween(now, *goal.Deadline)
			monthsLeft := (daysLeft + 29) / 30
			if monthsLeft < 1 {
				monthsLeft = 1
			}
			return &GoalProjection{
				Status:          ProjectionNeedsPlan,
				RequiredMonthly: remaining.Div(decimal.NewFromInt(int64(monthsLeft))),
				MonthsLeft:      monthsLeft,
				HasDeadline:     true,
			}
		}
		return &GoalProjection{Status: ProjectionInsufficientData}
	}

	months := int(remaining.Div(average).Ceil().IntPart())
	if months < 1 {
		months = 1
	}
	projectedDate := now.AddDate(0, months, 0)

	projection := &GoalProjection{
		Status:           ProjectionOnPace,
		MonthlyAverage:   average,
		MonthsToComplete: months,
		ProjectedDate:    &projectedDate,
	}

	if goal.Deadline != nil {
		projection.HasDeadline = true
		if !projectedDate.After(*goal.Deadline) {
			projection.OnTrack = true
			projection.DaysAhead = util.DaysBetween(projectedDate, *goal.Deadline)
		} else {
			projection.DaysBehind = util.DaysBetween(*goal.Deadline, projectedDate)
		}
	}

	return projection
}

// RequiredSavings is the saving rate needed to hit a goal's deadline
type RequiredSavings struct {
	HasDeadline bool            `json:"hasDeadline"`
	DaysLeft    int             `json:"daysLeft,omitempty"`
	Daily       decimal.Decimal `json:"daily"`
	Weekly      decimal.Decimal `json:"weekly"`
	Monthly     decimal.Decimal `json:"monthly"`
}

// CalculateRequiredSavings computes the per-day/week/month amounts needed
// to finish by the deadline. Without a deadline it falls back to suggesting
// 10% of the target per month.
func CalculateRequiredSavings(goal *domain.Goal, now time.Time) *RequiredSavings {
	if goal == nil {
		return nil
	}

	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	if goal.Deadline == nil {
		return &RequiredSavings{
			Monthly: goal.TargetAmount.Mul(decimal.NewFromFloat(0.1)),
		}
	}

	days := util.DaysBetween(now, *goal.Deadline)
	if days < 1 {
		days = 1
	}
	weeks := days / 7
	if weeks < 1 {
		weeks = 1
	}
	months := days / 30
	if months < 1 {
		months = 1
	}

	return &RequiredSavings{
		HasDeadline: true,
		DaysLeft:    days,
		Daily:       remaining.Div(decimal.NewFromInt(int64(days))),
		Weekly:      remaining.Div(decimal.NewFromInt(int64(weeks))),
		Monthly:     remaining.Div(decimal.NewFromInt(int64(months))),
	}
}

// Scenario is a what-if row over the historical contribution pace
type Scenario struct {
	Label            string          `json:"label"`
	AdjustmentPct    int             `json:"adjustmentPct"`
	MonthlyAmount    decimal.Decimal `json:"monthlyAmount"`
	MonthsToComplete int             `json:"monthsToComplete"`
	ProjectedDate    time.Time       `json:"projectedDate"`
	DaysSaved        int             `json:"daysSaved,omitempty"`
	DaysLost         int             `json:"daysLost,omitempty"`
}

var scenarioAdjustments = []struct {
	label string
	pct   int
}{
	{"Saving 10% more", 10},
	{"Saving 25% more", 25},
	{"Saving 10% less", -10},
}

// SimulateScenarios produces what-if projections at +10%, +25% and -10% of
// the historical monthly average, each with the day delta versus the
// baseline projection. Returns an empty slice when there is no usable
// history to project from.
func SimulateScenarios(goal *domain.Goal, contributions []*domain.Contribution, now time.Time) []Scenario {
	if goal == nil {
		return nil
	}

	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)
	average := MonthlySavingsAverage(contributions)
	if average.LessThanOrEqual(decimal.Zero) || remaining.LessThanOrEqual(decimal.Zero) {
		return []Scenario{}
	}

	baselineMonths := int(remaining.Div(average).Ceil().IntPart())
	if baselineMonths < 1 {
		baselineMonths = 1
	}
	baselineDate := now.AddDate(0, baselineMonths, 0)

	scenarios := make([]Scenario, 0, len(scenarioAdjustments))
	for _, adj := range scenarioAdjustments {
		factor := decimal.NewFromInt(int64(100 + adj.pct)).Div(decimal.NewFromInt(100))
		amount := average.Mul(factor)
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		months := int(remaining.Div(amount).Ceil().IntPart())
		if months < 1 {
			months = 1
		}
		date := now.AddDate(0, months, 0)

		scenario := Scenario{
			Label:            adj.label,
			AdjustmentPct:    adj.pct,
			MonthlyAmount:    amount,
			MonthsToComplete: months,
			ProjectedDate:    date,
		}
		if date.Before(baselineDate) {
			scenario.DaysSaved = util.DaysBetween(date, baselineDate)
		} else if date.After(baselineDate) {
			scenario.DaysLost = util.DaysBetween(baselineDate, date)
		}

		scenarios = append(scenarios, scenario)
	}

	return scenarios
}

// Milestone is a celebratory marker for crossed progress thresholds
type Milestone struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
}

var milestones = []Milestone{
	{100, "Goal complete! 🏆"},
	{75, "Three quarters there! 🔥"},
	{50, "Halfway mark! 💪"},
	{25, "A quarter saved! 🌱"},
	{10, "First steps taken! ✨"},
}

// MilestoneFor returns the highest milestone the percentage has crossed,
// or nil below 10%.
func MilestoneFor(percentage float64) *Milestone {
	for i := range milestones {
		if percentage >= float64(milestones[i].Threshold) {
			m := milestones[i]
			return &m
		}
	}
	return nil
}
