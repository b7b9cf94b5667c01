package services

import (
	"math"
	"sort"
	"time"

	"smartfinance/internal/core"
)

// TopCategoryLimit caps WeddingPlan.TopCategories.
const TopCategoryLimit = 5

// SavingsProgress compares the current balance with the savings goal.
type SavingsProgress struct {
	Goal    core.Amount `json:"goal"`
	Balance core.Amount `json:"balance"`

	// Percentage is balance/goal*100 and may be negative or above 100.
	Percentage float64 `json:"percentage"`
	// DisplayPercentage is Percentage clamped to [0, 100] for progress bars.
	DisplayPercentage float64     `json:"displayPercentage"`
	Remaining         core.Amount `json:"remaining"`
	Reached           bool        `json:"reached"`
}

// ComputeSavings derives progress from totals. A zero goal reads as 0%.
func ComputeSavings(totalIncome, totalExpenses, goal core.Amount) SavingsProgress {
	balance := totalIncome.Sub(totalExpenses)
	pct := balance.PercentOf(goal)

	return SavingsProgress{
		Goal:              goal,
		Balance:           balance,
		Percentage:        pct,
		DisplayPercentage: clamp(pct, 0, 100),
		Remaining:         goal.Sub(balance).Max(core.Amount{}),
		Reached:           balance.Cmp(goal) >= 0,
	}
}

// WeddingPlan summarises wedding spending against the budget and date.
type WeddingPlan struct {
	Budget         core.Amount `json:"budget"`
	Date           core.Date   `json:"date"`
	Spent          core.Amount `json:"spent"`
	Remaining      core.Amount `json:"remaining"` // negative when over budget
	PercentageUsed float64     `json:"percentageUsed"`
	OverBudget     bool        `json:"overBudget"`

	DaysRemaining          int         `json:"daysRemaining"`
	MonthsRemaining        int         `json:"monthsRemaining"`
	MonthlySavingsRequired core.Amount `json:"monthlySavingsRequired"`

	Breakdown     core.Breakdown        `json:"breakdown"`
	TopCategories []core.CategoryAmount `json:"topCategories"`
}

// PlanWedding derives the plan for goal from the wedding breakdown at now.
//
// Days are counted from now to 00:00 UTC of the wedding day and rounded up;
// months are days/30 rounded up. The monthly figure is rounded to two
// decimals and is 0 once no whole month is left, so it is never infinite.
func PlanWedding(goal core.WeddingGoal, breakdown core.Breakdown, now time.Time) WeddingPlan {
	budget := goal.Budget
	spent := breakdown.Total
	remaining := budget.Sub(spent)

	days := DaysUntil(goal.Date, now)
	months := int(math.Ceil(float64(days) / 30))

	var monthly core.Amount
	if months > 0 {
		monthly = remaining.Split(months)
	}

	return WeddingPlan{
		Budget:                 budget,
		Date:                   goal.Date,
		Spent:                  spent,
		Remaining:              remaining,
		PercentageUsed:         spent.PercentOf(budget),
		OverBudget:             spent.GreaterThan(budget),
		DaysRemaining:          days,
		MonthsRemaining:        months,
		MonthlySavingsRequired: monthly,
		Breakdown:              breakdown,
		TopCategories:          TopCategories(breakdown, TopCategoryLimit),
	}
}

// DaysUntil returns ceil((date - now) / 24h). It is negative once the day has
// passed and 0 for a zero date.
func DaysUntil(date core.Date, now time.Time) int {
	if date.IsZero() {
		return 0
	}
	diff := date.Time.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// TopCategories returns up to n non-zero entries, largest first. Equal
// amounts keep registry order.
func TopCategories(b core.Breakdown, n int) []core.CategoryAmount {
	top := nonNil(b.NonZero())
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount.GreaterThan(top[j].Amount)
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// Dashboard is the overview of all three collections.
type Dashboard struct {
	TotalIncome   core.Amount `json:"totalIncome"`
	TotalExpenses core.Amount `json:"totalExpenses"`
	Balance       core.Amount `json:"balance"`
	WeddingSpent  core.Amount `json:"weddingSpent"`

	Expenses core.Breakdown `json:"expenses"`
	Incomes  core.Breakdown `json:"incomes"`

	// Chart series hold only categories with spending or earnings.
	ExpenseChart []core.CategoryAmount `json:"expenseChart"`
	IncomeChart  []core.CategoryAmount `json:"incomeChart"`

	Savings SavingsProgress `json:"savings"`
}

// BuildDashboard assembles the overview from breakdowns and the savings goal.
func BuildDashboard(expenses, incomes, wedding core.Breakdown, savingsGoal core.Amount) Dashboard {
	return Dashboard{
		TotalIncome:   incomes.Total,
		TotalExpenses: expenses.Total,
		Balance:       incomes.Total.Sub(expenses.Total),
		WeddingSpent:  wedding.Total,
		Expenses:      expenses,
		Incomes:       incomes,
		ExpenseChart:  nonNil(expenses.NonZero()),
		IncomeChart:   nonNil(incomes.NonZero()),
		Savings:       ComputeSavings(incomes.Total, expenses.Total, savingsGoal),
	}
}

func nonNil(s []core.CategoryAmount) []core.CategoryAmount {
	if s == nil {
		return []core.CategoryAmount{}
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
