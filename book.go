package moneymanager

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/internal/logger"
	"github.com/shopspring/decimal"
)

// Book is the money manager state backed by a Store.
//
// Every mutation is computed on a copy of the dataset and only becomes
// visible once the touched collections have been saved.
type Book struct {
	store Store
	data  *Dataset
	// seeded is true once the categories collection has been stored.
	seeded bool
}

// Open loads a book from the store.
//
// Unreadable or corrupt collections are read as empty. Account linked goals
// are resynchronised with their account and saved if they drifted.
func Open(ctx context.Context, s Store) (*Book, error) {
	data, seeded := loadDataset(ctx, s)
	b := &Book{store: s, data: data, seeded: seeded}
	if data.syncGoals() {
		if err := saveDataset(ctx, s, data, GoalsCollection); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// commit saves the collections of next and makes it the current state.
func (b *Book) commit(ctx context.Context, next *Dataset, collections ...Collection) error {
	if err := saveDataset(ctx, b.store, next, collections...); err != nil {
		return err
	}
	b.data = next
	if slices.Contains(collections, CategoriesCollection) || len(collections) == 0 {
		b.seeded = true
	}
	return nil
}

// commitBalances commits a change that moved account balances.
func (b *Book) commitBalances(ctx context.Context, next *Dataset, collections ...Collection) error {
	collections = append(collections, AccountsCollection)
	if next.syncGoals() {
		collections = append(collections, GoalsCollection)
	}
	return b.commit(ctx, next, collections...)
}

// Dataset returns a copy of the whole book.
func (b *Book) Dataset() *Dataset { return b.data.Clone() }

// Accounts returns a copy of the accounts.
func (b *Book) Accounts() []Account { return slices.Clone(b.data.Accounts) }

// Transactions returns a copy of the transactions, in stored order.
func (b *Book) Transactions() []Transaction { return slices.Clone(b.data.Transactions) }

// Categories returns a copy of the categories.
func (b *Book) Categories() []Category { return b.data.Clone().Categories }

// Goals returns a copy of the goals.
func (b *Book) Goals() []Goal { return slices.Clone(b.data.Goals) }

// Account returns the account with this id, or nil if unknown.
func (b *Book) Account(id string) *Account {
	i := b.data.account(id)
	if i < 0 {
		return nil
	}
	a := b.data.Accounts[i]
	return &a
}

// AccountByName returns the first account with this name (case insensitive), or nil.
func (b *Book) AccountByName(name string) *Account {
	i := slices.IndexFunc(b.data.Accounts, func(a Account) bool { return strings.EqualFold(a.Name, name) })
	if i < 0 {
		return nil
	}
	a := b.data.Accounts[i]
	return &a
}

// LookupAccount returns the account designated by id or name.
func (b *Book) LookupAccount(ref string) (Account, error) {
	if a := b.Account(ref); a != nil {
		return *a, nil
	}
	if a := b.AccountByName(ref); a != nil {
		return *a, nil
	}
	return Account{}, fmt.Errorf("%w: account %q", ErrNotFound, ref)
}

// Transaction returns the transaction with this id, or nil if unknown.
func (b *Book) Transaction(id string) *Transaction {
	i := b.data.transaction(id)
	if i < 0 {
		return nil
	}
	t := b.data.Transactions[i]
	return &t
}

// Category returns the category with this id, or nil if unknown.
func (b *Book) Category(id string) *Category {
	i := b.data.category(id)
	if i < 0 {
		return nil
	}
	c := b.data.Categories[i]
	c.Subcategories = slices.Clone(c.Subcategories)
	return &c
}

// Goal returns the goal with this id, or nil if unknown.
func (b *Book) Goal(id string) *Goal {
	i := b.data.goal(id)
	if i < 0 {
		return nil
	}
	g := b.data.Goals[i]
	return &g
}

// SeedCategories stores the default categories if categories were never stored.
// It reports whether it did.
func (b *Book) SeedCategories(ctx context.Context) (bool, error) {
	if b.seeded || len(b.data.Categories) > 0 {
		return false, nil
	}
	next := b.data.Clone()
	next.Categories = DefaultCategories()
	if err := b.commit(ctx, next, CategoriesCollection); err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info().Int("count", len(next.Categories)).Msg("default categories created")
	return true, nil
}

// AddAccount creates an account. An identifier is assigned when missing.
func (b *Book) AddAccount(ctx context.Context, a Account) (Account, error) {
	if a.ID == "" {
		a.ID = NewID()
	}
	if err := a.Validate(); err != nil {
		return Account{}, err
	}
	if b.data.account(a.ID) >= 0 {
		return Account{}, fmt.Errorf("%w: account %q already exists", ErrValidation, a.ID)
	}
	next := b.data.Clone()
	next.Accounts = append(next.Accounts, a)
	return a, b.commitBalances(ctx, next)
}

// UpdateAccount replaces an existing account. Changing the balance is a manual adjustment.
func (b *Book) UpdateAccount(ctx context.Context, a Account) error {
	i := b.data.account(a.ID)
	if i < 0 {
		return fmt.Errorf("%w: account %q", ErrNotFound, a.ID)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	next := b.data.Clone()
	next.Accounts[i] = a
	return b.commitBalances(ctx, next)
}

// DeleteAccount removes an account.
//
// An account referenced by transactions is only removed with cascade: its
// transactions are deleted, their effect on other accounts is reversed, and
// goals linked to it fall back to manual tracking.
func (b *Book) DeleteAccount(ctx context.Context, id string, cascade bool) error {
	i := b.data.account(id)
	if i < 0 {
		return fmt.Errorf("%w: account %q", ErrNotFound, id)
	}
	used := 0
	for _, t := range b.data.Transactions {
		if t.References(id) {
			used++
		}
	}
	if used > 0 && !cascade {
		return fmt.Errorf("%w: %q is used by %d transaction(s)", ErrAccountInUse, b.data.Accounts[i].Name, used)
	}

	next := b.data.Clone()
	kept := next.Transactions[:0]
	for _, t := range next.Transactions {
		if t.References(id) {
			next.apply(t, -1)
			continue
		}
		kept = append(kept, t)
	}
	next.Transactions = kept
	next.Accounts = slices.Delete(next.Accounts, i, i+1)
	for j, g := range next.Goals {
		if g.LinkedAccountID == id {
			next.Goals[j].TrackingMode = Manual
			next.Goals[j].LinkedAccountID = ""
		}
	}
	return b.commitBalances(ctx, next, TransactionsCollection, GoalsCollection)
}

// checkAccounts verifies that every account moved by t exists.
func (d *Dataset) checkAccounts(t Transaction) error {
	for id := range t.Effects() {
		if d.account(id) < 0 {
			return fmt.Errorf("%w: account %q", ErrNotFound, id)
		}
	}
	return nil
}

// AddTransaction records a transaction and applies its effect on balances.
func (b *Book) AddTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	if t.ID == "" {
		t.ID = NewID()
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	if b.data.transaction(t.ID) >= 0 {
		return Transaction{}, fmt.Errorf("%w: transaction %q already exists", ErrValidation, t.ID)
	}
	if err := b.data.checkAccounts(t); err != nil {
		return Transaction{}, err
	}
	next := b.data.Clone()
	next.Transactions = append(next.Transactions, t)
	next.apply(t, +1)
	return t, b.commitBalances(ctx, next, TransactionsCollection)
}

// Transfer moves amount from one account to another.
func (b *Book) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, on date.Date, description string) (Transaction, error) {
	if to == "" {
		return Transaction{}, fmt.Errorf("%w: transfer has no destination account", ErrValidation)
	}
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", b.data.AccountName(to))
	}
	return b.AddTransaction(ctx, Transaction{
		AccountID:   from,
		ToAccountID: to,
		Type:        Transfer,
		Amount:      amount,
		Category:    "Transfer",
		Subcategory: "Between Accounts",
		Description: description,
		Date:        on,
	})
}

// UpdateTransaction replaces a transaction, reversing its previous effect before applying the new one.
func (b *Book) UpdateTransaction(ctx context.Context, t Transaction) error {
	i := b.data.transaction(t.ID)
	if i < 0 {
		return fmt.Errorf("%w: transaction %q", ErrNotFound, t.ID)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := b.data.checkAccounts(t); err != nil {
		return err
	}
	next := b.data.Clone()
	next.apply(next.Transactions[i], -1)
	next.Transactions[i] = t
	next.apply(t, +1)
	return b.commitBalances(ctx, next, TransactionsCollection)
}

// DeleteTransaction removes a transaction and reverses its effect on balances.
func (b *Book) DeleteTransaction(ctx context.Context, id string) error {
	i := b.data.transaction(id)
	if i < 0 {
		return fmt.Errorf("%w: transaction %q", ErrNotFound, id)
	}
	next := b.data.Clone()
	if missing := next.apply(next.Transactions[i], -1); len(missing) > 0 {
		logger.FromContext(ctx).Warn().Strs("accounts", missing).Str("transaction", id).Msg("cannot reverse effect on unknown accounts")
	}
	next.Transactions = slices.Delete(next.Transactions, i, i+1)
	return b.commitBalances(ctx, next, TransactionsCollection)
}

// AddCategory creates a category. An identifier is assigned when missing.
func (b *Book) AddCategory(ctx context.Context, c Category) (Category, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.Subcategories == nil {
		c.Subcategories = []string{}
	}
	if c.Color == "" {
		c.Color = Color(len(b.data.Categories))
	}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	if b.data.category(c.ID) >= 0 {
		return Category{}, fmt.Errorf("%w: category %q already exists", ErrValidation, c.ID)
	}
	next := b.data.Clone()
	next.Categories = append(next.Categories, c)
	return c, b.commit(ctx, next, CategoriesCollection)
}

// UpdateCategory replaces an existing category.
func (b *Book) UpdateCategory(ctx context.Context, c Category) error {
	i := b.data.category(c.ID)
	if i < 0 {
		return fmt.Errorf("%w: category %q", ErrNotFound, c.ID)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	next := b.data.Clone()
	next.Categories[i] = c
	return b.commit(ctx, next, CategoriesCollection)
}

// AddSubcategory appends a subcategory. Names already present are ignored.
func (b *Book) AddSubcategory(ctx context.Context, categoryID, name string) error {
	i := b.data.category(categoryID)
	if i < 0 {
		return fmt.Errorf("%w: category %q", ErrNotFound, categoryID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty subcategory name", ErrValidation)
	}
	if b.data.Categories[i].HasSubcategory(name) {
		return nil
	}
	next := b.data.Clone()
	next.Categories[i].Subcategories = append(next.Categories[i].Subcategories, name)
	return b.commit(ctx, next, CategoriesCollection)
}

// DeleteCategory removes a category. Transactions keep their category label.
func (b *Book) DeleteCategory(ctx context.Context, id string) error {
	i := b.data.category(id)
	if i < 0 {
		return fmt.Errorf("%w: category %q", ErrNotFound, id)
	}
	next := b.data.Clone()
	next.Categories = slices.Delete(next.Categories, i, i+1)
	return b.commit(ctx, next, CategoriesCollection)
}

func (d *Dataset) checkGoal(g Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.TrackingMode == AccountLinked && d.account(g.LinkedAccountID) < 0 {
		return fmt.Errorf("%w: account %q", ErrNotFound, g.LinkedAccountID)
	}
	return nil
}

// AddGoal creates a savings goal. An identifier is assigned when missing.
func (b *Book) AddGoal(ctx context.Context, g Goal) (Goal, error) {
	if g.ID == "" {
		g.ID = NewID()
	}
	if g.Priority == "" {
		g.Priority = Medium
	}
	if g.TrackingMode == "" {
		g.TrackingMode = Manual
	}
	if g.TrackingMode == Manual {
		g.LinkedAccountID = ""
	}
	if err := b.data.checkGoal(g); err != nil {
		return Goal{}, err
	}
	if b.data.goal(g.ID) >= 0 {
		return Goal{}, fmt.Errorf("%w: goal %q already exists", ErrValidation, g.ID)
	}
	next := b.data.Clone()
	next.Goals = append(next.Goals, g)
	next.syncGoals()
	i := len(next.Goals) - 1
	return next.Goals[i], b.commit(ctx, next, GoalsCollection)
}

// UpdateGoal replaces an existing goal.
func (b *Book) UpdateGoal(ctx context.Context, g Goal) error {
	i := b.data.goal(g.ID)
	if i < 0 {
		return fmt.Errorf("%w: goal %q", ErrNotFound, g.ID)
	}
	if g.TrackingMode == Manual {
		g.LinkedAccountID = ""
	}
	if err := b.data.checkGoal(g); err != nil {
		return err
	}
	next := b.data.Clone()
	next.Goals[i] = g
	next.syncGoals()
	return b.commit(ctx, next, GoalsCollection)
}

// Contribute adds amount to a manually tracked goal.
//
// The current amount is not capped at the target.
func (b *Book) Contribute(ctx context.Context, id string, amount decimal.Decimal) (Goal, error) {
	i := b.data.goal(id)
	if i < 0 {
		return Goal{}, fmt.Errorf("%w: goal %q", ErrNotFound, id)
	}
	g := b.data.Goals[i]
	if g.IsLinked() {
		return Goal{}, fmt.Errorf("%w: goal %q follows account %q, contributions are not allowed", ErrValidation, g.Name, b.data.AccountName(g.LinkedAccountID))
	}
	if !amount.IsPositive() {
		return Goal{}, fmt.Errorf("%w: contribution must be positive, got %s", ErrValidation, amount)
	}
	next := b.data.Clone()
	next.Goals[i].CurrentAmount = g.CurrentAmount.Add(amount)
	return next.Goals[i], b.commit(ctx, next, GoalsCollection)
}

// DeleteGoal removes a goal.
func (b *Book) DeleteGoal(ctx context.Context, id string) error {
	i := b.data.goal(id)
	if i < 0 {
		return fmt.Errorf("%w: goal %q", ErrNotFound, id)
	}
	next := b.data.Clone()
	next.Goals = slices.Delete(next.Goals, i, i+1)
	return b.commit(ctx, next, GoalsCollection)
}
