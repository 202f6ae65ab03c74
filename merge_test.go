package moneymanager

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/moneymanager/date"
	"github.com/google/go-cmp/cmp"
)

func TestMerge_ReconcileThenDeleteRestoresBalances(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBook(t, testDataset())
	before := b.Accounts()

	on := date.New(2024, 5, 1)
	imported := &Dataset{Transactions: []Transaction{
		{ID: "i1", AccountID: "chk", Type: Income, Amount: dec("1234.56"), Category: "Salary", Date: on},
		{ID: "i2", AccountID: "chk", Type: Expense, Amount: dec("0.1"), Category: "Food", Date: on},
		{ID: "i3", AccountID: "cc", Type: Expense, Amount: dec("0.2"), Category: "Food", Date: on},
		{ID: "i4", AccountID: "chk", ToAccountID: "sav", Type: Transfer, Amount: dec("300"), Category: "Transfer", Date: on},
	}}
	result, err := b.Merge(ctx, imported, MergeMode)
	if err != nil {
		t.Fatal(err)
	}
	if result.Transactions != 4 || result.Total() != 4 {
		t.Errorf("Merge() result = %+v, want 4 transactions", result)
	}
	if got, want := balance(t, b, "chk"), dec("1934.46"); !got.Equal(want) {
		t.Errorf("checking after import = %s, want %s", got, want)
	}
	if got, want := balance(t, b, "cc"), dec("-200.2"); !got.Equal(want) {
		t.Errorf("credit after import = %s, want %s", got, want)
	}
	if got, want := b.Goal("emergency").CurrentAmount, dec("5300"); !got.Equal(want) {
		t.Errorf("linked goal after import = %s, want %s", got, want)
	}

	for _, tx := range imported.Transactions {
		if err := b.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff(before, b.Accounts()); diff != "" {
		t.Errorf("accounts after deleting imported transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ReconcilesImportedAccounts(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBook(t, testDataset())

	imported := &Dataset{
		Accounts: []Account{{ID: "brokerage", Name: "Brokerage", Balance: dec("100"), Type: Investment}},
		Transactions: []Transaction{
			{ID: "dividend", AccountID: "brokerage", Type: Income, Amount: dec("40"), Category: "Investments", Date: date.New(2024, 5, 1)},
		},
	}
	result, err := b.Merge(ctx, imported, MergeMode)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := result.Adjustments["brokerage"], dec("40"); !got.Equal(want) {
		t.Errorf("adjustment = %s, want %s", got, want)
	}
	if got, want := balance(t, b, "brokerage"), dec("140"); !got.Equal(want) {
		t.Errorf("imported account after import = %s, want %s", got, want)
	}

	if err := b.DeleteTransaction(ctx, "dividend"); err != nil {
		t.Fatal(err)
	}
	if got, want := balance(t, b, "brokerage"), dec("100"); !got.Equal(want) {
		t.Errorf("imported account after deleting its transaction = %s, want %s", got, want)
	}
}

func TestMerge_Rekey(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBook(t, testDataset())

	imported := &Dataset{
		Accounts: []Account{{ID: "chk", Name: "Other checking", Balance: dec("10"), Type: Checking}},
		Transactions: []Transaction{
			{ID: "t1", AccountID: "chk", Type: Expense, Amount: dec("5"), Date: date.New(2024, 1, 1)},
			{ID: "t1", AccountID: "sav", Type: Income, Amount: dec("7"), Date: date.New(2024, 1, 1)},
		},
		Categories: []Category{{Name: "No id", Type: Income, Subcategories: []string{}}},
	}
	result, err := b.Merge(ctx, imported, MergeMode)
	if err != nil {
		t.Fatal(err)
	}
	if result.Rekeyed != 3 {
		t.Errorf("Rekeyed = %d, want 3", result.Rekeyed)
	}

	accounts := b.Accounts()
	if len(accounts) != 4 {
		t.Fatalf("accounts = %d, want 4", len(accounts))
	}
	newAccount := accounts[3]
	if newAccount.ID == "chk" || newAccount.Name != "Other checking" {
		t.Errorf("imported account = %+v, want a new id", newAccount)
	}
	txs := b.Transactions()
	if txs[0].AccountID != newAccount.ID {
		t.Errorf("transaction account = %q, want the re-keyed %q", txs[0].AccountID, newAccount.ID)
	}
	if txs[0].ID == txs[1].ID {
		t.Errorf("duplicate transaction ids were kept")
	}
	// accounts imported with the batch are reconciled too
	if got, want := newAccount.Balance, dec("5"); !got.Equal(want) {
		t.Errorf("imported account balance = %s, want %s", got, want)
	}
	if got, want := balance(t, b, "chk"), dec("1000"); !got.Equal(want) {
		t.Errorf("existing checking balance = %s, want %s", got, want)
	}
	if got, want := balance(t, b, "sav"), dec("5007"); !got.Equal(want) {
		t.Errorf("existing savings balance = %s, want %s", got, want)
	}
}

func TestMerge_Replace(t *testing.T) {
	ctx := context.Background()
	b, s := newTestBook(t, testDataset())

	replacement := &Dataset{
		Accounts:     []Account{{ID: "x", Name: "Only", Balance: dec("1"), Type: Savings}},
		Transactions: []Transaction{{ID: "t", AccountID: "x", Type: Income, Amount: dec("1"), Date: date.New(2024, 1, 1)}},
		Categories:   []Category{},
		Goals:        []Goal{},
	}
	if _, err := b.Merge(ctx, replacement, ReplaceMode); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(replacement, reopened.Dataset()); diff != "" {
		t.Errorf("replaced dataset mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_Errors(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBook(t, testDataset())
	before := b.Dataset()

	if _, err := b.Merge(ctx, &Dataset{}, MergeMode); !errors.Is(err, ErrValidation) {
		t.Errorf("Merge(empty) error = %v, want ErrValidation", err)
	}
	invalid := &Dataset{Transactions: []Transaction{{ID: "t", AccountID: "chk", Type: Income, Amount: dec("-1"), Date: date.New(2024, 1, 1)}}}
	if _, err := b.Merge(ctx, invalid, MergeMode); !errors.Is(err, ErrValidation) {
		t.Errorf("Merge(invalid) error = %v, want ErrValidation", err)
	}
	if _, err := b.Merge(ctx, invalid, "append"); !errors.Is(err, ErrValidation) {
		t.Errorf("Merge(unknown mode) error = %v, want ErrValidation", err)
	}
	if diff := cmp.Diff(before, b.Dataset()); diff != "" {
		t.Errorf("failed imports changed the book (-want +got):\n%s", diff)
	}
}
