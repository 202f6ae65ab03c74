package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/internal/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// useStore points the commands to a fresh file store for the duration of the test.
func useStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldStore, oldPlain, oldCurrency := *storeFlag, *plainFlag, *currencyFlag
	*storeFlag, *plainFlag, *currencyFlag = "file:"+dir, true, "USD"
	t.Cleanup(func() { *storeFlag, *plainFlag, *currencyFlag = oldStore, oldPlain, oldCurrency })
	return dir
}

// run executes the command with args and returns what it printed.
func run(t *testing.T, c subcommands.Command, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	ctx := logger.WithContext(context.Background(), zerolog.Nop())
	status := c.Execute(ctx, f)
	return buf.String(), status
}

// mustRun is like run but fails the test unless the command succeeds.
func mustRun(t *testing.T, c subcommands.Command, args ...string) string {
	t.Helper()
	out, status := run(t, c, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("%s %v: status %v, output %q", c.Name(), args, status, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func seedAccounts(t *testing.T) {
	t.Helper()
	mustRun(t, &addAccountCmd{}, "-balance", "1000", "-bank", "First Bank", "Checking")
	mustRun(t, &addAccountCmd{}, "-type", "savings", "-balance", "5000", "Savings")
}

func TestAccountsAndTransactions(t *testing.T) {
	useStore(t)
	seedAccounts(t)

	out := mustRun(t, &entryCmd{typ: mm.Expense}, "-account", "Checking", "-d", "2024-01-10", "-category", "Food", "42.50", "Weekly", "groceries")
	assertContains(t, out, "2024-01-10: spent $42.50 from Checking (Food)")

	mustRun(t, &entryCmd{typ: mm.Income}, "-account", "checking", "-d", "2024-01-31", "-category", "Salary", "2500")
	out = mustRun(t, &transferCmd{}, "-from", "Checking", "-to", "Savings", "-d", "2024-02-01", "500")
	assertContains(t, out, "transferred $500.00 from Checking to Savings")

	out = mustRun(t, &accountsCmd{})
	assertContains(t, out, "| Checking | checking | First Bank |", "$2,957.50", "$5,500.00", "**$8,457.50**")

	out = mustRun(t, &txCmd{}, "-type", "expense")
	assertContains(t, out, "Weekly groceries")
	if strings.Contains(out, "Transfer to Savings") {
		t.Errorf("expense filter kept the transfer:\n%s", out)
	}

	out = mustRun(t, &txCmd{}, "-account", "Savings")
	assertContains(t, out, "Transfer to Savings")
	if strings.Contains(out, "Weekly groceries") {
		t.Errorf("account filter kept a checking expense:\n%s", out)
	}

	out = mustRun(t, &txCmd{}, "-from", "2024-01-31", "-to", "2024-01-31")
	assertContains(t, out, "Salary")
	if strings.Contains(out, "Weekly groceries") {
		t.Errorf("date filter kept an older transaction:\n%s", out)
	}

	out = mustRun(t, &txCmd{}, "-to", "2024-01-15", "-period", "month")
	assertContains(t, out, "# Transactions 2024-01", "Weekly groceries", "Salary")
	if strings.Contains(out, "Transfer to Savings") {
		t.Errorf("period filter kept a february transaction:\n%s", out)
	}
}

func TestEditAndDeleteTransaction(t *testing.T) {
	dir := useStore(t)
	seedAccounts(t)
	mustRun(t, &entryCmd{typ: mm.Expense}, "-account", "Checking", "-d", "2024-01-10", "100", "Dinner")

	b := openTestBook(t, dir)
	txs := b.Transactions()
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	id := txs[0].ID

	mustRun(t, &editTxCmd{}, "-amount", "40", "-account", "Savings", id)
	out := mustRun(t, &accountsCmd{})
	assertContains(t, out, "$1,000.00", "$4,960.00")

	mustRun(t, &deleteTxCmd{}, id)
	out = mustRun(t, &accountsCmd{})
	assertContains(t, out, "$1,000.00", "$5,000.00")

	if _, status := run(t, &deleteTxCmd{}, id); status != subcommands.ExitFailure {
		t.Errorf("deleting an unknown transaction: got status %v, want failure", status)
	}
}

func TestDeleteAccount(t *testing.T) {
	useStore(t)
	seedAccounts(t)
	mustRun(t, &transferCmd{}, "-from", "Checking", "-to", "Savings", "250")

	if _, status := run(t, &deleteAccountCmd{}, "Checking"); status != subcommands.ExitFailure {
		t.Fatalf("deleting a used account: got status %v, want failure", status)
	}
	mustRun(t, &deleteAccountCmd{}, "-cascade", "Checking")

	out := mustRun(t, &accountsCmd{})
	assertContains(t, out, "$5,000.00")
	if strings.Contains(out, "Checking") {
		t.Errorf("Checking is still listed:\n%s", out)
	}
}

func TestUsageErrors(t *testing.T) {
	useStore(t)
	seedAccounts(t)
	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
	}{
		{"missing amount", &entryCmd{typ: mm.Income}, []string{"-account", "Checking"}},
		{"negative amount", &entryCmd{typ: mm.Expense}, []string{"-account", "Checking", "--", "-5"}},
		{"ambiguous account", &entryCmd{typ: mm.Expense}, []string{"12"}},
		{"unknown account type", &addAccountCmd{}, []string{"-type", "loan", "Mortgage"}},
		{"transfer without destination", &transferCmd{}, []string{"-from", "Checking", "10"}},
		{"unknown format", &exportCmd{}, []string{"-format", "xml"}},
		{"unknown range", &txCmd{}, []string{"-range", "last-week"}},
		{"import without file", &importCmd{}, nil},
		{"unknown import mode", &importCmd{}, []string{"-mode", "append", "x.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, status := run(t, tt.cmd, tt.args...); status != subcommands.ExitUsageError {
				t.Errorf("got status %v, want usage error", status)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	useStore(t)
	out := mustRun(t, &categoriesCmd{})
	assertContains(t, out, "Salary", "Regular Pay", "Transportation")

	mustRun(t, &addCategoryCmd{}, "-budget", "200", "-sub", "Books, Games", "Hobbies")
	mustRun(t, &addSubcategoryCmd{}, "hobbies", "Music")

	// Other exists as an income and an expense category.
	if _, status := run(t, &deleteCategoryCmd{}, "Other"); status != subcommands.ExitUsageError {
		t.Errorf("deleting an ambiguous category: got status %v, want usage error", status)
	}
	mustRun(t, &deleteCategoryCmd{}, "-type", "income", "Other")

	out = mustRun(t, &categoriesCmd{})
	assertContains(t, out, "Hobbies", "Books, Games, Music")
}

func TestGoals(t *testing.T) {
	useStore(t)
	seedAccounts(t)

	mustRun(t, &addGoalCmd{}, "-target", "1000", "-d", "2099-06-30", "-category", "Travel", "Trip")
	out := mustRun(t, &contributeCmd{}, "trip", "250")
	assertContains(t, out, "Goal Trip: $250.00 of $1,000.00 (25%, in-progress)")

	mustRun(t, &addGoalCmd{}, "-target", "4000", "-d", "2099-12-31", "-account", "Savings", "Emergency fund")
	if _, status := run(t, &contributeCmd{}, "Emergency fund", "10"); status != subcommands.ExitFailure {
		t.Errorf("contributing to a linked goal: got status %v, want failure", status)
	}

	out = mustRun(t, &goalsCmd{}, "-d", "2024-01-01")
	assertContains(t, out, "Trip", "25%", "follows Savings", "100%", "completed")

	mustRun(t, &deleteGoalCmd{}, "Trip")
	out = mustRun(t, &summaryCmd{}, "-d", "2024-01-01")
	assertContains(t, out, "$6,000.00")
	if strings.Contains(out, "in-progress") {
		t.Errorf("summary still counts the deleted goal:\n%s", out)
	}
}

func TestExportImport(t *testing.T) {
	useStore(t)
	seedAccounts(t)
	mustRun(t, &entryCmd{typ: mm.Expense}, "-account", "Checking", "-d", "2024-01-10", "-category", "Food", "42.50", "O'Brien's")

	outDir := t.TempDir()
	mustRun(t, &exportCmd{}, "-format", "json", "-o", outDir)
	files, err := filepath.Glob(filepath.Join(outDir, "money-manager-export-*.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("got export files %v (%v), want one json file", files, err)
	}

	out := mustRun(t, &exportCmd{}, "-format", "sql", "-type", "transactions", "-o", "-")
	assertContains(t, out, "CREATE TABLE IF NOT EXISTS transactions", "'O''Brien''s'", "INSERT INTO export_metadata")

	// A new store replaced with the export holds the same balances.
	useStore(t)
	out = mustRun(t, &importCmd{}, "-mode", "replace", files[0])
	assertContains(t, out, "Imported", "(replace): 2 accounts, 1 transactions")
	out = mustRun(t, &accountsCmd{})
	assertContains(t, out, "$957.50", "$5,000.00")

	// Merging a CSV adjusts the existing balance.
	csv := filepath.Join(t.TempDir(), "bank.csv")
	content := "Date,Description,Amount,Account\n2024-02-01,Coffee,-3.50,Checking\n2024-02-02,Refund,10,Checking\n"
	if err := os.WriteFile(csv, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, &importCmd{}, csv)
	assertContains(t, out, "Imported 2 records", "Checking: +$6.50, balance $964.00")
}

func TestSetting(t *testing.T) {
	t.Setenv(envCurrency, "eur")
	old := *currencyFlag
	defer func() { *currencyFlag = old }()

	*currencyFlag = ""
	if got := Currency(); got != "EUR" {
		t.Errorf("Currency() = %q, want EUR from the environment", got)
	}
	*currencyFlag = "gbp"
	if got := Currency(); got != "GBP" {
		t.Errorf("Currency() = %q, want GBP from the flag", got)
	}
	if got := setting("", "MM_TEST_UNSET_VARIABLE", "fallback"); got != "fallback" {
		t.Errorf("setting() = %q, want fallback", got)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	if got, want := outputPath(dir, "a.csv"), filepath.Join(dir, "a.csv"); got != want {
		t.Errorf("outputPath(dir) = %q, want %q", got, want)
	}
	if got := outputPath("", "a.csv"); got != "a.csv" {
		t.Errorf("outputPath(\"\") = %q, want a.csv", got)
	}
	if got, want := outputPath(filepath.Join(dir, "out.csv"), "a.csv"), filepath.Join(dir, "out.csv"); got != want {
		t.Errorf("outputPath(file) = %q, want %q", got, want)
	}
}

func openTestBook(t *testing.T, dir string) *mm.Book {
	t.Helper()
	ctx := logger.WithContext(context.Background(), zerolog.Nop())
	b, closer, err := openBook(ctx)
	if err != nil {
		t.Fatalf("opening the book in %s: %v", dir, err)
	}
	t.Cleanup(func() { closer.Close() })
	return b
}

func TestTopic(t *testing.T) {
	useStore(t)
	out := mustRun(t, &topicCmd{})
	assertContains(t, out, "# mm user manual", "* dates:")
	out = mustRun(t, &topicCmd{}, "dates", "import")
	assertContains(t, out, "# Dates", "# Import")
	if _, status := run(t, &topicCmd{}, "unknown"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic: got status %v, want failure", status)
	}
}
