package renderer

import (
	"strings"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
)

// StatusCount is the number of goals in a status.
type StatusCount struct {
	Status mm.GoalStatus
	Count  int
}

// Summary is the view of a book summary.
type Summary struct {
	Date          date.Date
	TotalBalance  mm.Money
	NetWorth      mm.Money
	TotalIncome   mm.Money
	TotalExpenses mm.Money
	Accounts      int
	Transactions  int
	GoalStatuses  []StatusCount
}

// NewSummary returns the view of s.
func NewSummary(s *mm.Summary) *Summary {
	v := &Summary{
		Date:          s.Date,
		TotalBalance:  s.TotalBalance,
		NetWorth:      s.NetWorth,
		TotalIncome:   s.TotalIncome,
		TotalExpenses: s.TotalExpenses,
		Accounts:      s.Accounts,
		Transactions:  s.Transactions,
	}
	for _, status := range []mm.GoalStatus{mm.InProgress, mm.Overdue, mm.Completed} {
		if n := s.Goals[status]; n > 0 {
			v.GoalStatuses = append(v.GoalStatuses, StatusCount{status, n})
		}
	}
	return v
}

// AccountRow is one account.
type AccountRow struct {
	ID      string
	Name    string
	Type    mm.AccountType
	Bank    string
	Number  string
	Balance mm.Money
}

// Accounts is the view of a list of accounts.
type Accounts struct {
	Rows     []AccountRow
	Total    mm.Money
	NetWorth mm.Money
}

// NewAccounts returns the view of the accounts of d.
func NewAccounts(d *mm.Dataset, currency string) *Accounts {
	v := &Accounts{
		Rows:     make([]AccountRow, 0, len(d.Accounts)),
		Total:    mm.M(d.TotalBalance(), currency),
		NetWorth: mm.M(d.NetWorth(), currency),
	}
	for _, a := range d.Accounts {
		v.Rows = append(v.Rows, AccountRow{
			ID:      a.ID,
			Name:    a.Name,
			Type:    a.Type,
			Bank:    a.Bank,
			Number:  a.AccountNumber,
			Balance: mm.M(a.Balance, currency),
		})
	}
	return v
}

// TransactionRow is one transaction.
type TransactionRow struct {
	ID          string
	Date        date.Date
	Description string
	Category    string
	Type        mm.TransactionType
	Account     string
	// Amount is signed by the effect on the owning account.
	Amount mm.Money
}

// Transactions is the view of a list of transactions.
type Transactions struct {
	Title string
	Rows  []TransactionRow
	// Count is the number of transactions before truncation.
	Count    int
	Income   mm.Money
	Expenses mm.Money
}

// Truncated reports whether some transactions are not shown.
func (v *Transactions) Truncated() bool { return len(v.Rows) < v.Count }

// NewTransactions returns the view of txs, keeping at most limit rows when limit is positive.
// Account names are resolved in d.
func NewTransactions(title string, txs []mm.Transaction, d *mm.Dataset, currency string, limit int) *Transactions {
	selected := &mm.Dataset{Transactions: txs}
	v := &Transactions{
		Title:    title,
		Rows:     make([]TransactionRow, 0, len(txs)),
		Count:    len(txs),
		Income:   mm.M(selected.TotalIncome(), currency),
		Expenses: mm.M(selected.TotalExpenses(), currency),
	}
	for i, tx := range txs {
		if limit > 0 && i >= limit {
			break
		}
		v.Rows = append(v.Rows, TransactionRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Description: tx.Description,
			Category:    categoryLabel(tx),
			Type:        tx.Type,
			Account:     accountLabel(tx, d),
			Amount:      mm.M(tx.Signed(), currency),
		})
	}
	return v
}

// GoalRow is one savings goal.
type GoalRow struct {
	ID         string
	Name       string
	Category   string
	Priority   mm.Priority
	Tracking   string
	Current    mm.Money
	Target     mm.Money
	Remaining  mm.Money
	Progress   string
	TargetDate date.Date
	Status     mm.GoalStatus
}

// Goals is the view of the savings goals on a day.
type Goals struct {
	Date date.Date
	Rows []GoalRow
}

// NewGoals returns the view of the goals of d on the given day.
func NewGoals(d *mm.Dataset, today date.Date, currency string) *Goals {
	v := &Goals{Date: today, Rows: make([]GoalRow, 0, len(d.Goals))}
	for _, g := range d.Goals {
		tracking := "manual"
		if g.IsLinked() {
			tracking = "follows " + d.AccountName(g.LinkedAccountID)
		}
		v.Rows = append(v.Rows, GoalRow{
			ID:         g.ID,
			Name:       g.Name,
			Category:   g.Category,
			Priority:   g.Priority,
			Tracking:   tracking,
			Current:    mm.M(g.CurrentAmount, currency),
			Target:     mm.M(g.TargetAmount, currency),
			Remaining:  mm.M(g.Remaining(), currency),
			Progress:   g.DisplayProgress().StringFixed(0) + "%",
			TargetDate: g.TargetDate,
			Status:     g.Status(today),
		})
	}
	return v
}

// CategoryRow is one category with its spending.
type CategoryRow struct {
	ID            string
	Name          string
	Type          mm.TransactionType
	Subcategories string
	Budget        mm.Money
	Spent         mm.Money
	Used          string
	Over          bool
}

// Categories is the view of the categories.
type Categories struct {
	Rows []CategoryRow
}

// NewCategories returns the view of the categories of d.
func NewCategories(d *mm.Dataset, currency string) *Categories {
	v := &Categories{}
	for _, l := range d.Budgets() {
		used := "-"
		if l.Category.Budget.IsPositive() {
			used = l.Used.StringFixed(0) + "%"
		}
		v.Rows = append(v.Rows, CategoryRow{
			ID:            l.Category.ID,
			Name:          l.Category.Name,
			Type:          l.Category.Type,
			Subcategories: strings.Join(l.Category.Subcategories, ", "),
			Budget:        mm.M(l.Category.Budget, currency),
			Spent:         mm.M(l.Spent, currency),
			Used:          used,
			Over:          l.Over(),
		})
	}
	return v
}

// Report is the printable export report.
type Report struct {
	Title     string
	Generated date.Date
	// Range describes the transaction date filter, empty when there is none.
	Range        string
	Summary      *Summary
	Transactions *Transactions
	Accounts     *Accounts
	Goals        *Goals
}
