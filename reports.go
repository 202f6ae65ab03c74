package moneymanager

import (
	"strings"

	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalBalance returns the sum of all account balances.
func (d *Dataset) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

func (d *Dataset) totalOf(typ TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range d.Transactions {
		if t.Type == typ {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalIncome returns the sum of all income amounts.
func (d *Dataset) TotalIncome() decimal.Decimal { return d.totalOf(Income) }

// TotalExpenses returns the sum of all expense amounts.
func (d *Dataset) TotalExpenses() decimal.Decimal { return d.totalOf(Expense) }

// NetWorth returns the positive balances of non credit accounts minus the debt on credit accounts.
func (d *Dataset) NetWorth() decimal.Decimal {
	worth := decimal.Zero
	for _, a := range d.Accounts {
		if a.Type == Credit {
			worth = worth.Sub(decimal.Max(decimal.Zero, a.Balance.Neg()))
		} else {
			worth = worth.Add(decimal.Max(decimal.Zero, a.Balance))
		}
	}
	return worth
}

// CategorySpend returns the sum of amounts of the transactions of this type
// whose category is name, case insensitively.
func (d *Dataset) CategorySpend(name string, typ TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range d.Transactions {
		if t.Type == typ && strings.EqualFold(t.Category, name) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TransactionFilter selects transactions. Zero fields select everything.
type TransactionFilter struct {
	Type      TransactionType
	AccountID string // matches the source or the destination
	Dates     date.Range
}

// Match reports whether t is selected.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.AccountID != "" && !t.References(f.AccountID) {
		return false
	}
	return f.Dates.Contains(t.Date)
}

// Filter returns the selected transactions in stored order.
func (d *Dataset) Filter(f TransactionFilter) []Transaction {
	selected := make([]Transaction, 0)
	for _, t := range d.Transactions {
		if f.Match(t) {
			selected = append(selected, t)
		}
	}
	return selected
}

// GoalStatus classifies the progress of a goal.
type GoalStatus string

const (
	Completed  GoalStatus = "completed"
	Overdue    GoalStatus = "overdue"
	InProgress GoalStatus = "in-progress"
)

// Progress returns currentAmount / targetAmount × 100, unclamped.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Mul(hundred).Div(g.TargetAmount)
}

// DisplayProgress returns the progress clamped to [0, 100].
func (g Goal) DisplayProgress() decimal.Decimal {
	return decimal.Min(hundred, decimal.Max(decimal.Zero, g.Progress()))
}

// Remaining returns the amount left to save, never negative.
func (g Goal) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.CurrentAmount))
}

// Status classifies the goal on the given day.
//
// A goal is completed once its progress reaches 100, even after its target date.
func (g Goal) Status(today date.Date) GoalStatus {
	switch {
	case g.Progress().GreaterThanOrEqual(hundred):
		return Completed
	case !g.TargetDate.IsZero() && g.TargetDate.Before(today):
		return Overdue
	default:
		return InProgress
	}
}

// BudgetLine compares the spending of a category with its budget.
type BudgetLine struct {
	Category Category
	Spent    decimal.Decimal
	// Used is Spent / Budget × 100, zero when there is no budget.
	Used decimal.Decimal
}

// Over reports whether the budget is exceeded.
func (l BudgetLine) Over() bool {
	return l.Category.Budget.IsPositive() && l.Spent.GreaterThan(l.Category.Budget)
}

// Budgets returns one line per category, in stored order.
func (d *Dataset) Budgets() []BudgetLine {
	lines := make([]BudgetLine, 0, len(d.Categories))
	for _, c := range d.Categories {
		l := BudgetLine{Category: c, Spent: d.CategorySpend(c.Name, c.Type)}
		if c.Budget.IsPositive() {
			l.Used = l.Spent.Mul(hundred).Div(c.Budget)
		}
		lines = append(lines, l)
	}
	return lines
}

// Summary is an at-a-glance overview of the book on a given day.
type Summary struct {
	Date              date.Date
	ReportingCurrency string
	TotalBalance      Money
	TotalIncome       Money
	TotalExpenses     Money
	NetWorth          Money
	Accounts          int
	Transactions      int
	Goals             map[GoalStatus]int
}

// NewSummary computes the summary of d on the given day.
func NewSummary(d *Dataset, on date.Date, currency string) *Summary {
	s := &Summary{
		Date:              on,
		ReportingCurrency: currency,
		TotalBalance:      M(d.TotalBalance(), currency),
		TotalIncome:       M(d.TotalIncome(), currency),
		TotalExpenses:     M(d.TotalExpenses(), currency),
		NetWorth:          M(d.NetWorth(), currency),
		Accounts:          len(d.Accounts),
		Transactions:      len(d.Transactions),
		Goals:             make(map[GoalStatus]int),
	}
	for _, g := range d.Goals {
		s.Goals[g.Status(on)]++
	}
	return s
}
