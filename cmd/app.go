// Package cmd implements the CLI application to manage personal money.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/internal/logger"
	"github.com/etnz/moneymanager/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Commands lists the subcommands, in the order they are shown in the help.
var Commands = []subcommands.Command{
	&summaryCmd{},
	&importCmd{},
	&exportCmd{},

	&accountsCmd{},
	&addAccountCmd{},
	&editAccountCmd{},
	&deleteAccountCmd{},

	&txCmd{},
	&entryCmd{typ: mm.Income},
	&entryCmd{typ: mm.Expense},
	&transferCmd{},
	&editTxCmd{},
	&deleteTxCmd{},

	&categoriesCmd{},
	&addCategoryCmd{},
	&addSubcategoryCmd{},
	&deleteCategoryCmd{},

	&goalsCmd{},
	&addGoalCmd{},
	&contributeCmd{},
	&deleteGoalCmd{},

	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

const (
	envStore    = "MM_STORE"
	envCurrency = "MM_CURRENCY"
	envLogLevel = "MM_LOG_LEVEL"

	defaultStore    = "file:.moneymanager"
	defaultLogLevel = "warn"
)

var (
	storeFlag    = flag.String("store", "", "Store URL: mem:, file:<dir>, redis://... or postgres://... Defaults to $"+envStore+" or "+defaultStore)
	currencyFlag = flag.String("currency", "", "Reporting currency code. Defaults to $"+envCurrency+" or "+mm.DefaultCurrency)
	logLevelFlag = flag.String("log-level", "", "Log level (debug, info, warn, error). Defaults to $"+envLogLevel+" or "+defaultLogLevel)
	plainFlag    = flag.Bool("plain", false, "Print raw markdown instead of styled terminal output")
)

// stdout receives command results.
var stdout io.Writer = os.Stdout

// setting returns the flag value when set, then the environment variable, then the fallback.
func setting(value, env, fallback string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// StoreURL returns the URL of the store to open.
func StoreURL() string { return setting(*storeFlag, envStore, defaultStore) }

// Currency returns the reporting currency.
func Currency() string {
	return strings.ToUpper(setting(*currencyFlag, envCurrency, mm.DefaultCurrency))
}

// Setup reads the optional .env file, configures the log level and returns a
// context carrying the logger. It must be called after the flags are parsed.
func Setup(ctx context.Context) (context.Context, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ctx, fmt.Errorf("reading .env: %w", err)
	}
	if err := logger.SetLevel(setting(*logLevelFlag, envLogLevel, defaultLogLevel)); err != nil {
		return ctx, fmt.Errorf("invalid log level: %w", err)
	}
	return logger.WithContext(ctx, logger.New()), nil
}

// openBook opens the configured store and the book on top of it. Default
// categories are created on first use. The returned closer releases the store.
func openBook(ctx context.Context) (*mm.Book, io.Closer, error) {
	url := StoreURL()
	s, err := store.Open(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store %q: %w", url, err)
	}
	b, err := mm.Open(ctx, s)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	if _, err := b.SeedCategories(ctx); err != nil {
		s.Close()
		return nil, nil, err
	}
	return b, s, nil
}

// withBook runs fn on the opened book and maps errors to exit statuses.
func withBook(ctx context.Context, fn func(b *mm.Book) error) subcommands.ExitStatus {
	b, closer, err := openBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closer.Close()
	if err := fn(b); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// errUsage marks errors in the command line itself.
var errUsage = errors.New("usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// printMarkdown renders md for the terminal, or prints it as is with -plain
// or when stdout is not a terminal.
func printMarkdown(md string) {
	if *plainFlag || !isTerminal(stdout) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// parseAmount parses a strictly positive decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, usageErrorf("invalid amount %q", s)
	}
	if !v.IsPositive() {
		return decimal.Zero, usageErrorf("amount must be positive, got %s", v)
	}
	return v, nil
}

// parseDecimal parses a signed decimal, the empty string being zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, usageErrorf("invalid number %q", s)
	}
	return v, nil
}

// parseDate parses a command line date relative to today.
func parseDate(s string) (date.Date, error) {
	on, err := date.ParseInput(s, date.Today())
	if err != nil {
		return date.Date{}, usageErrorf("%v", err)
	}
	return on, nil
}

// isSet reports whether the flag was given on the command line.
func isSet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// lookupCategory returns the category designated by id or by name. A name
// shared by categories of different types must be disambiguated with typ.
func lookupCategory(b *mm.Book, ref string, typ mm.TransactionType) (mm.Category, error) {
	if c := b.Category(ref); c != nil {
		return *c, nil
	}
	var found []mm.Category
	for _, c := range b.Categories() {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) && (typ == "" || c.Type == typ) {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return mm.Category{}, fmt.Errorf("%w: category %q", mm.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return mm.Category{}, usageErrorf("category %q exists for several types, use -type or its id", ref)
	}
}

// lookupGoal returns the goal designated by id or by name.
func lookupGoal(b *mm.Book, ref string) (mm.Goal, error) {
	if g := b.Goal(ref); g != nil {
		return *g, nil
	}
	for _, g := range b.Goals() {
		if strings.EqualFold(g.Name, strings.TrimSpace(ref)) {
			return g, nil
		}
	}
	return mm.Goal{}, fmt.Errorf("%w: goal %q", mm.ErrNotFound, ref)
}
