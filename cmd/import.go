package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/impexp"
	"github.com/etnz/moneymanager/internal/logger"
	"github.com/google/subcommands"
)

type importCmd struct {
	mode    string
	arrayOf string
	path    string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import records from a CSV, JSON or SQL file" }
func (*importCmd) Usage() string {
	return `mm import [-mode merge|replace] [-array <collection>] [-path <jsonpath>] <file>

  Imports accounts, transactions, categories and goals from a file. The format
  is chosen from the file extension (.csv, .json or .sql).

  In merge mode (the default) imported records are added to the existing ones
  and the balance of existing accounts is adjusted by the imported
  transactions. In replace mode the four collections are replaced.

  CSV files contain transactions with at least the date, description and
  amount columns. An optional account column is matched against account
  names and ids.

Usage Examples:
$ mm import bank.csv
$ mm import -mode replace money-manager-export-2024-02-15.json
$ mm import -path '$.data.items' statement.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", string(mm.MergeMode), "Import mode: merge or replace.")
	f.StringVar(&c.arrayOf, "array", "", "Collection read from a top level JSON array (accounts, transactions, categories, goals). Defaults to transactions.")
	f.StringVar(&c.path, "path", "", "JSONPath of the transactions array inside a JSON object. Defaults to $.transactions.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import expects exactly one file.")
		return subcommands.ExitUsageError
	}
	filename := f.Arg(0)

	mode, err := mm.ParseImportMode(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	opts := impexp.Options{TransactionsPath: c.path}
	if c.arrayOf != "" {
		if opts.ArrayOf, err = mm.ParseCollection(c.arrayOf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	return withBook(ctx, func(b *mm.Book) error {
		opts.Accounts = b.Accounts()
		in, err := impexp.Parse(ctx, filename, data, opts)
		if err != nil {
			return err
		}
		result, err := b.Merge(ctx, in, mode)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info().Str("file", filename).Str("mode", string(result.Mode)).Int("records", result.Total()).Msg("import done")

		fmt.Fprintf(stdout, "Imported %d records from %s (%s): %d accounts, %d transactions, %d categories, %d goals.\n",
			result.Total(), filename, result.Mode, result.Accounts, result.Transactions, result.Categories, result.Goals)
		if result.Rekeyed > 0 {
			fmt.Fprintf(stdout, "%d records were given new identifiers.\n", result.Rekeyed)
		}
		for _, id := range slices.Sorted(maps.Keys(result.Adjustments)) {
			a := b.Account(id)
			if a == nil {
				continue
			}
			delta := mm.M(result.Adjustments[id], Currency())
			fmt.Fprintf(stdout, "  %s: %s, balance %s\n", a.Name, delta.SignedString(), mm.M(a.Balance, Currency()))
		}
		return nil
	})
}
