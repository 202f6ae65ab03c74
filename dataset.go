package moneymanager

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// NewID returns a new unique record identifier.
func NewID() string { return uuid.NewString() }

// Dataset is an in-memory snapshot of the four record collections.
type Dataset struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Goals        []Goal        `json:"goals"`
}

// Len returns the total number of records.
func (d *Dataset) Len() int {
	return len(d.Accounts) + len(d.Transactions) + len(d.Categories) + len(d.Goals)
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	c := &Dataset{
		Accounts:     slices.Clone(d.Accounts),
		Transactions: slices.Clone(d.Transactions),
		Categories:   slices.Clone(d.Categories),
		Goals:        slices.Clone(d.Goals),
	}
	for i := range c.Categories {
		c.Categories[i].Subcategories = slices.Clone(c.Categories[i].Subcategories)
	}
	return c
}

// Account returns the index of the account with this id, or -1.
func (d *Dataset) account(id string) int {
	return slices.IndexFunc(d.Accounts, func(a Account) bool { return a.ID == id })
}

func (d *Dataset) transaction(id string) int {
	return slices.IndexFunc(d.Transactions, func(t Transaction) bool { return t.ID == id })
}

func (d *Dataset) category(id string) int {
	return slices.IndexFunc(d.Categories, func(c Category) bool { return c.ID == id })
}

func (d *Dataset) goal(id string) int {
	return slices.IndexFunc(d.Goals, func(g Goal) bool { return g.ID == id })
}

// AccountName returns the name of the account with this id, or the id itself if unknown.
func (d *Dataset) AccountName(id string) string {
	if i := d.account(id); i >= 0 {
		return d.Accounts[i].Name
	}
	return id
}

// apply adds the effects of t to the balances of the accounts of d.
// It returns the ids of the accounts that could not be found.
func (d *Dataset) apply(t Transaction, sign int) (missing []string) {
	for id, delta := range t.Effects() {
		i := d.account(id)
		if i < 0 {
			missing = append(missing, id)
			continue
		}
		if sign < 0 {
			delta = delta.Neg()
		}
		d.Accounts[i].Balance = d.Accounts[i].Balance.Add(delta)
	}
	return missing
}

// syncGoals updates account linked goals with the balance of their account.
// It reports whether any goal changed.
func (d *Dataset) syncGoals() (changed bool) {
	for i, g := range d.Goals {
		if !g.IsLinked() {
			continue
		}
		j := d.account(g.LinkedAccountID)
		if j < 0 {
			continue
		}
		current := decimal.Max(decimal.Zero, d.Accounts[j].Balance)
		if !current.Equal(g.CurrentAmount) {
			d.Goals[i].CurrentAmount = current
			changed = true
		}
	}
	return changed
}
