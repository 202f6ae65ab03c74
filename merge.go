package moneymanager

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/moneymanager/internal/logger"
	"github.com/shopspring/decimal"
)

// ImportMode tells how imported records combine with the stored ones.
type ImportMode string

const (
	// MergeMode appends imported records to the stored collections.
	MergeMode ImportMode = "merge"
	// ReplaceMode overwrites the four stored collections with the imported ones.
	ReplaceMode ImportMode = "replace"
)

// ParseImportMode parses an import mode. Empty is MergeMode.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case MergeMode, "":
		return MergeMode, nil
	case ReplaceMode:
		return ReplaceMode, nil
	default:
		return "", fmt.Errorf("%w: unknown import mode %q", ErrValidation, s)
	}
}

// ImportResult describes what an import changed.
type ImportResult struct {
	Mode         ImportMode
	Accounts     int
	Transactions int
	Categories   int
	Goals        int
	// Rekeyed counts imported records that received a new identifier.
	Rekeyed int
	// Adjustments is the balance change applied to each pre-existing account.
	Adjustments map[string]decimal.Decimal
}

// Total returns the number of imported records.
func (r ImportResult) Total() int { return r.Accounts + r.Transactions + r.Categories + r.Goals }

// validate checks every record of the dataset.
func (d *Dataset) validate() error {
	var errs error
	for _, a := range d.Accounts {
		errs = errors.Join(errs, a.Validate())
	}
	for _, t := range d.Transactions {
		errs = errors.Join(errs, t.Validate())
	}
	for _, c := range d.Categories {
		errs = errors.Join(errs, c.Validate())
	}
	for _, g := range d.Goals {
		errs = errors.Join(errs, g.Validate())
	}
	return errs
}

// rekey gives a fresh identifier to every record of in that is missing one or
// whose identifier is already taken in d, and rewrites the account references
// of in accordingly. It returns the number of records changed.
func (d *Dataset) rekey(in *Dataset) int {
	n := 0
	fresh := func(id string, taken func(string) bool) (string, bool) {
		if id != "" && !taken(id) {
			return id, false
		}
		n++
		return NewID(), true
	}

	accounts := make(map[string]string)
	seen := make(map[string]bool)
	for i, a := range in.Accounts {
		id, changed := fresh(a.ID, func(id string) bool { return d.account(id) >= 0 || seen[id] })
		if changed && a.ID != "" {
			accounts[a.ID] = id
		}
		in.Accounts[i].ID = id
		seen[id] = true
	}
	ref := func(id string) string {
		if to, ok := accounts[id]; ok {
			return to
		}
		return id
	}

	clear(seen)
	for i, t := range in.Transactions {
		in.Transactions[i].ID, _ = fresh(t.ID, func(id string) bool { return d.transaction(id) >= 0 || seen[id] })
		in.Transactions[i].AccountID = ref(t.AccountID)
		if t.ToAccountID != "" {
			in.Transactions[i].ToAccountID = ref(t.ToAccountID)
		}
		seen[in.Transactions[i].ID] = true
	}
	clear(seen)
	for i, c := range in.Categories {
		in.Categories[i].ID, _ = fresh(c.ID, func(id string) bool { return d.category(id) >= 0 || seen[id] })
		seen[in.Categories[i].ID] = true
	}
	clear(seen)
	for i, g := range in.Goals {
		in.Goals[i].ID, _ = fresh(g.ID, func(id string) bool { return d.goal(id) >= 0 || seen[id] })
		if g.LinkedAccountID != "" {
			in.Goals[i].LinkedAccountID = ref(g.LinkedAccountID)
		}
		seen[in.Goals[i].ID] = true
	}
	return n
}

// Merge imports a dataset into the book.
//
// In MergeMode imported records are appended to the stored ones, and the
// effect of every imported transaction is added to the balance of its
// accounts, including accounts imported in the same batch. In ReplaceMode the
// four collections are replaced as is.
//
// Nothing is persisted when the import is empty or contains an invalid record.
func (b *Book) Merge(ctx context.Context, in *Dataset, mode ImportMode) (ImportResult, error) {
	log := logger.FromContext(ctx)
	if in == nil || in.Len() == 0 {
		return ImportResult{}, fmt.Errorf("%w: nothing to import", ErrValidation)
	}
	in = in.Clone()
	result := ImportResult{
		Mode:         mode,
		Accounts:     len(in.Accounts),
		Transactions: len(in.Transactions),
		Categories:   len(in.Categories),
		Goals:        len(in.Goals),
		Adjustments:  make(map[string]decimal.Decimal),
	}

	var next *Dataset
	switch mode {
	case ReplaceMode:
		next = &Dataset{Accounts: in.Accounts, Transactions: in.Transactions, Categories: in.Categories, Goals: in.Goals}
		if err := next.validate(); err != nil {
			return ImportResult{}, err
		}
		next.syncGoals()
		if err := b.commit(ctx, next); err != nil {
			return ImportResult{}, err
		}
		log.Info().Int("records", result.Total()).Msg("collections replaced")
		return result, nil

	case MergeMode, "":
		result.Mode = MergeMode
	default:
		return ImportResult{}, fmt.Errorf("%w: unknown import mode %q", ErrValidation, mode)
	}

	result.Rekeyed = b.data.rekey(in)
	if result.Rekeyed > 0 {
		log.Info().Int("records", result.Rekeyed).Msg("imported records given new identifiers")
	}
	if err := in.validate(); err != nil {
		return ImportResult{}, err
	}

	next = b.data.Clone()
	next.Accounts = append(next.Accounts, in.Accounts...)
	for _, t := range in.Transactions {
		for id, delta := range t.Effects() {
			if next.account(id) < 0 {
				log.Warn().Str("account", id).Str("transaction", t.ID).Msg("imported transaction refers to an unknown account")
				continue
			}
			result.Adjustments[id] = result.Adjustments[id].Add(delta)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(result.Adjustments)) {
		i := next.account(id)
		next.Accounts[i].Balance = next.Accounts[i].Balance.Add(result.Adjustments[id])
	}

	next.Transactions = append(next.Transactions, in.Transactions...)
	next.Categories = append(next.Categories, in.Categories...)
	next.Goals = append(next.Goals, in.Goals...)

	var touched []Collection
	if len(in.Accounts) > 0 || len(result.Adjustments) > 0 {
		touched = append(touched, AccountsCollection)
	}
	if len(in.Transactions) > 0 {
		touched = append(touched, TransactionsCollection)
	}
	if len(in.Categories) > 0 {
		touched = append(touched, CategoriesCollection)
	}
	if next.syncGoals() || len(in.Goals) > 0 {
		touched = append(touched, GoalsCollection)
	}
	if err := b.commit(ctx, next, touched...); err != nil {
		return ImportResult{}, err
	}
	log.Info().Int("records", result.Total()).Int("accounts_adjusted", len(result.Adjustments)).Msg("import merged")
	return result, nil
}
