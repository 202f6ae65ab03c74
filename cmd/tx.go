package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	typ     string
	account string
	from    string
	to      string
	since   string
	period  string
	limit   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `mm tx [-type <type>] [-account <account>] [-range <range> | -from <date>] [-to <date>] [-period <period>] [-limit <n>]

  Lists transactions in stored order, with options for filtering and limiting
  the output. -range is one of all, current-month, last-month, current-year
  or last-year and is overridden by -from. -period selects the whole day,
  week, month, quarter or year containing the -to date (today by default).
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Only transactions of this type: income, expense or transfer.")
	f.StringVar(&c.account, "account", "", "Only transactions from or to this account (name or id).")
	f.StringVar(&c.from, "from", "", "The start date of a custom range.")
	f.StringVar(&c.to, "to", "", "The end date of the range.")
	f.StringVar(&c.since, "range", "", "Predefined range (all, current-month, last-month, current-year, last-year).")
	f.StringVar(&c.period, "period", "", "Calendar period ending the range (day, week, month, quarter, year).")
	f.IntVar(&c.limit, "limit", 0, "Show only the first N transactions.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *mm.Book) error {
		var filter mm.TransactionFilter
		var err error
		if c.typ != "" {
			if filter.Type, err = mm.ParseTransactionType(c.typ); err != nil {
				return usageErrorf("%v", err)
			}
		}
		if c.account != "" {
			a, err := b.LookupAccount(c.account)
			if err != nil {
				return err
			}
			filter.AccountID = a.ID
		}
		if c.since != "" {
			since, err := date.ParseSince(c.since)
			if err != nil {
				return usageErrorf("%v", err)
			}
			filter.Dates = since.Range(date.Today())
		}
		if c.from != "" {
			if filter.Dates.From, err = parseDate(c.from); err != nil {
				return err
			}
		}
		if c.to != "" {
			if filter.Dates.To, err = parseDate(c.to); err != nil {
				return err
			}
		}

		title := "Transactions"
		if c.period != "" {
			p, err := date.ParsePeriod(c.period)
			if err != nil {
				return usageErrorf("%v", err)
			}
			end := filter.Dates.To
			if end.IsZero() {
				end = date.Today()
			}
			filter.Dates = date.NewRange(end, p)
			title = fmt.Sprintf("Transactions %s", filter.Dates.Identifier())
		}

		d := b.Dataset()
		txs := d.Filter(filter)
		printMarkdown(renderer.RenderTransactions(renderer.NewTransactions(title, txs, d, Currency(), c.limit)))
		return nil
	})
}

// entryCmd records an income or an expense.
type entryCmd struct {
	typ         mm.TransactionType
	account     string
	date        string
	category    string
	subcategory string
}

func (c *entryCmd) Name() string { return string(c.typ) }
func (c *entryCmd) Synopsis() string {
	if c.typ == mm.Income {
		return "record money received on an account"
	}
	return "record money spent from an account"
}
func (c *entryCmd) Usage() string {
	return fmt.Sprintf(`mm %[1]s [-account <account>] [-d <date>] [-category <name>] [-subcategory <name>] <amount> [description...]

  Records an %[1]s of the positive amount and updates the account balance.
  The account can be omitted when there is only one.

Usage Examples:
$ mm %[1]s -account Checking -category Food -d -1d 42.50 Groceries
`, c.typ)
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account name or id.")
	f.StringVar(&c.date, "d", "0d", "Transaction date. See 'mm topic dates'.")
	f.StringVar(&c.category, "category", "Other", "Category name.")
	f.StringVar(&c.subcategory, "subcategory", "", "Subcategory name.")
}

func (c *entryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: %s expects an amount.\n", c.typ)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		amount, err := parseAmount(f.Arg(0))
		if err != nil {
			return err
		}
		on, err := parseDate(c.date)
		if err != nil {
			return err
		}
		a, err := defaultAccount(b, c.account)
		if err != nil {
			return err
		}
		tx, err := b.AddTransaction(ctx, mm.Transaction{
			AccountID:   a.ID,
			Type:        c.typ,
			Amount:      amount,
			Category:    c.category,
			Subcategory: c.subcategory,
			Description: strings.Join(f.Args()[1:], " "),
			Date:        on,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, renderer.Transaction(tx, b.Dataset(), Currency()))
		return nil
	})
}

// defaultAccount returns the account designated by ref, or the only account when ref is empty.
func defaultAccount(b *mm.Book, ref string) (mm.Account, error) {
	if ref != "" {
		return b.LookupAccount(ref)
	}
	accounts := b.Accounts()
	if len(accounts) != 1 {
		return mm.Account{}, usageErrorf("-account is required when there are %d accounts", len(accounts))
	}
	return accounts[0], nil
}

type transferCmd struct {
	from string
	to   string
	date string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `mm transfer -from <account> -to <account> [-d <date>] <amount> [description...]

  Records a transfer: the amount leaves the source account and reaches the
  destination account.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account name or id.")
	f.StringVar(&c.to, "to", "", "Destination account name or id.")
	f.StringVar(&c.date, "d", "0d", "Transfer date.")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || c.from == "" || c.to == "" {
		fmt.Fprintln(os.Stderr, "Error: transfer expects -from, -to and an amount.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		amount, err := parseAmount(f.Arg(0))
		if err != nil {
			return err
		}
		on, err := parseDate(c.date)
		if err != nil {
			return err
		}
		from, err := b.LookupAccount(c.from)
		if err != nil {
			return err
		}
		to, err := b.LookupAccount(c.to)
		if err != nil {
			return err
		}
		tx, err := b.Transfer(ctx, from.ID, to.ID, amount, on, strings.Join(f.Args()[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, renderer.Transaction(tx, b.Dataset(), Currency()))
		return nil
	})
}

type editTxCmd struct {
	typ         string
	amount      string
	account     string
	to          string
	date        string
	category    string
	subcategory string
	description string
}

func (*editTxCmd) Name() string     { return "edit-tx" }
func (*editTxCmd) Synopsis() string { return "modify a transaction" }
func (*editTxCmd) Usage() string {
	return `mm edit-tx [-type <type>] [-amount <amount>] [-account <account>] [-to <account>] [-d <date>] [-category <name>] [-subcategory <name>] [-description <text>] <id>

  Modifies the given fields of a transaction. The previous effect on account
  balances is reversed before the new one is applied.
`
}

func (c *editTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "New type: income, expense or transfer.")
	f.StringVar(&c.amount, "amount", "", "New amount.")
	f.StringVar(&c.account, "account", "", "New account name or id.")
	f.StringVar(&c.to, "to", "", "New destination account of a transfer.")
	f.StringVar(&c.date, "d", "", "New date.")
	f.StringVar(&c.category, "category", "", "New category.")
	f.StringVar(&c.subcategory, "subcategory", "", "New subcategory.")
	f.StringVar(&c.description, "description", "", "New description.")
}

func (c *editTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: edit-tx expects one transaction id.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		p := b.Transaction(f.Arg(0))
		if p == nil {
			return fmt.Errorf("%w: transaction %q", mm.ErrNotFound, f.Arg(0))
		}
		tx := *p
		var err error
		if isSet(f, "type") {
			if tx.Type, err = mm.ParseTransactionType(c.typ); err != nil {
				return usageErrorf("%v", err)
			}
			if tx.Type != mm.Transfer {
				tx.ToAccountID = ""
			}
		}
		if isSet(f, "amount") {
			if tx.Amount, err = parseAmount(c.amount); err != nil {
				return err
			}
		}
		if isSet(f, "account") {
			a, err := b.LookupAccount(c.account)
			if err != nil {
				return err
			}
			tx.AccountID = a.ID
		}
		if isSet(f, "to") {
			a, err := b.LookupAccount(c.to)
			if err != nil {
				return err
			}
			tx.ToAccountID = a.ID
		}
		if isSet(f, "d") {
			if tx.Date, err = parseDate(c.date); err != nil {
				return err
			}
		}
		if isSet(f, "category") {
			tx.Category = c.category
		}
		if isSet(f, "subcategory") {
			tx.Subcategory = c.subcategory
		}
		if isSet(f, "description") {
			tx.Description = c.description
		}
		if err := b.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, renderer.Transaction(tx, b.Dataset(), Currency()))
		return nil
	})
}

type deleteTxCmd struct{}

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete a transaction" }
func (*deleteTxCmd) Usage() string {
	return `mm delete-tx <id>

  Deletes a transaction and reverses its effect on account balances.
`
}

func (*deleteTxCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete-tx expects one transaction id.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		if err := b.DeleteTransaction(ctx, f.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted transaction %s\n", f.Arg(0))
		return nil
	})
}
