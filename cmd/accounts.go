package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `mm accounts

  Lists the accounts with their balance, the total balance and the net worth.
`
}

func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *mm.Book) error {
		printMarkdown(renderer.RenderAccounts(renderer.NewAccounts(b.Dataset(), Currency())))
		return nil
	})
}

type addAccountCmd struct {
	typ     string
	balance string
	bank    string
	number  string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `mm add-account [-type checking|savings|credit|investment] [-balance <amount>] [-bank <name>] [-number <masked number>] <name>

  Creates an account with an opening balance. Credit accounts usually have a
  negative balance.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", string(mm.Checking), "Account type: checking, savings, credit or investment.")
	f.StringVar(&c.balance, "balance", "0", "Opening balance.")
	f.StringVar(&c.bank, "bank", "", "Bank name.")
	f.StringVar(&c.number, "number", "", "Masked account number, like ****1234.")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(strings.Join(f.Args(), " "))
	if name == "" {
		fmt.Fprintln(os.Stderr, "Error: add-account expects a name.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		typ, err := mm.ParseAccountType(c.typ)
		if err != nil {
			return usageErrorf("%v", err)
		}
		balance, err := parseDecimal(c.balance)
		if err != nil {
			return err
		}
		if b.AccountByName(name) != nil {
			return fmt.Errorf("%w: an account named %q already exists", mm.ErrValidation, name)
		}
		a, err := b.AddAccount(ctx, mm.Account{
			Name:          name,
			Type:          typ,
			Balance:       balance,
			Bank:          c.bank,
			AccountNumber: c.number,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added account %s (%s) with balance %s\n", a.Name, a.ID, mm.M(a.Balance, Currency()))
		return nil
	})
}

type editAccountCmd struct {
	name    string
	typ     string
	balance string
	bank    string
	number  string
}

func (*editAccountCmd) Name() string     { return "edit-account" }
func (*editAccountCmd) Synopsis() string { return "modify an account" }
func (*editAccountCmd) Usage() string {
	return `mm edit-account [-name <name>] [-type <type>] [-balance <amount>] [-bank <name>] [-number <number>] <account>

  Modifies the given fields of an account designated by its name or id.
  Setting the balance is a manual adjustment, linked goals follow it.
`
}

func (c *editAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.typ, "type", "", "New type: checking, savings, credit or investment.")
	f.StringVar(&c.balance, "balance", "", "New balance.")
	f.StringVar(&c.bank, "bank", "", "New bank name.")
	f.StringVar(&c.number, "number", "", "New masked account number.")
}

func (c *editAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: edit-account expects one account.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		a, err := b.LookupAccount(f.Arg(0))
		if err != nil {
			return err
		}
		if isSet(f, "name") {
			a.Name = strings.TrimSpace(c.name)
		}
		if isSet(f, "type") {
			if a.Type, err = mm.ParseAccountType(c.typ); err != nil {
				return usageErrorf("%v", err)
			}
		}
		if isSet(f, "balance") {
			if a.Balance, err = parseDecimal(c.balance); err != nil {
				return err
			}
		}
		if isSet(f, "bank") {
			a.Bank = c.bank
		}
		if isSet(f, "number") {
			a.AccountNumber = c.number
		}
		if err := b.UpdateAccount(ctx, a); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated account %s (%s)\n", a.Name, a.ID)
		return nil
	})
}

type deleteAccountCmd struct {
	cascade bool
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account" }
func (*deleteAccountCmd) Usage() string {
	return `mm delete-account [-cascade] <account>

  Deletes an account designated by its name or id. An account used by
  transactions is only deleted with -cascade: its transactions are deleted too
  and goals following it switch to manual tracking.
`
}

func (c *deleteAccountCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.cascade, "cascade", false, "Also delete the transactions of the account.")
}

func (c *deleteAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete-account expects one account.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		a, err := b.LookupAccount(f.Arg(0))
		if err != nil {
			return err
		}
		if err := b.DeleteAccount(ctx, a.ID, c.cascade); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted account %s\n", a.Name)
		return nil
	})
}
