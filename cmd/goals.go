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

type goalsCmd struct {
	date string
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "list savings goals and their progress" }
func (*goalsCmd) Usage() string {
	return `mm goals [-d <date>]

  Lists savings goals with their progress and status on the given date.
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date used to classify goals as overdue.")
}

func (c *goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *mm.Book) error {
		on, err := parseDate(c.date)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderGoals(renderer.NewGoals(b.Dataset(), on, Currency())))
		return nil
	})
}

type addGoalCmd struct {
	target      string
	current     string
	date        string
	category    string
	priority    string
	account     string
	description string
}

func (*addGoalCmd) Name() string     { return "add-goal" }
func (*addGoalCmd) Synopsis() string { return "create a savings goal" }
func (*addGoalCmd) Usage() string {
	return `mm add-goal -target <amount> -d <date> [-current <amount>] [-category <name>] [-priority High|Medium|Low] [-account <account>] [-description <text>] <name>

  Creates a savings goal. With -account the goal follows the balance of that
  account, otherwise it is tracked manually with the contribute command.
`
}

func (c *addGoalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.target, "target", "", "Target amount.")
	f.StringVar(&c.current, "current", "0", "Amount already saved, for manually tracked goals.")
	f.StringVar(&c.date, "d", "", "Target date.")
	f.StringVar(&c.category, "category", "Other", "Goal category, like Emergency or Travel.")
	f.StringVar(&c.priority, "priority", string(mm.Medium), "Priority: High, Medium or Low.")
	f.StringVar(&c.account, "account", "", "Account followed by the goal.")
	f.StringVar(&c.description, "description", "", "Description.")
}

func (c *addGoalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(strings.Join(f.Args(), " "))
	if name == "" || c.target == "" || c.date == "" {
		fmt.Fprintln(os.Stderr, "Error: add-goal expects -target, -d and a name.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		target, err := parseAmount(c.target)
		if err != nil {
			return err
		}
		current, err := parseDecimal(c.current)
		if err != nil {
			return err
		}
		on, err := parseDate(c.date)
		if err != nil {
			return err
		}
		priority, err := mm.ParsePriority(c.priority)
		if err != nil {
			return usageErrorf("%v", err)
		}
		g := mm.Goal{
			Name:          name,
			Description:   c.description,
			TargetAmount:  target,
			CurrentAmount: current,
			TargetDate:    on,
			Category:      c.category,
			Priority:      priority,
			TrackingMode:  mm.Manual,
		}
		if c.account != "" {
			a, err := b.LookupAccount(c.account)
			if err != nil {
				return err
			}
			g.TrackingMode = mm.AccountLinked
			g.LinkedAccountID = a.ID
		}
		g, err = b.AddGoal(ctx, g)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added goal %s (%s): %s of %s\n", g.Name, g.ID, mm.M(g.CurrentAmount, Currency()), mm.M(g.TargetAmount, Currency()))
		return nil
	})
}

type contributeCmd struct{}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "add money to a manually tracked goal" }
func (*contributeCmd) Usage() string {
	return `mm contribute <goal> <amount>

  Adds a contribution to a goal designated by its name or id. Goals following
  an account cannot receive contributions.
`
}

func (*contributeCmd) SetFlags(f *flag.FlagSet) {}

func (*contributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: contribute expects a goal and an amount.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		g, err := lookupGoal(b, f.Arg(0))
		if err != nil {
			return err
		}
		amount, err := parseAmount(f.Arg(1))
		if err != nil {
			return err
		}
		if g, err = b.Contribute(ctx, g.ID, amount); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Goal %s: %s of %s (%s%%, %s)\n", g.Name,
			mm.M(g.CurrentAmount, Currency()), mm.M(g.TargetAmount, Currency()),
			g.DisplayProgress().StringFixed(0), g.Status(date.Today()))
		return nil
	})
}

type deleteGoalCmd struct{}

func (*deleteGoalCmd) Name() string     { return "delete-goal" }
func (*deleteGoalCmd) Synopsis() string { return "delete a savings goal" }
func (*deleteGoalCmd) Usage() string {
	return `mm delete-goal <goal>

  Deletes a goal designated by its name or id.
`
}

func (*deleteGoalCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteGoalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete-goal expects one goal.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		g, err := lookupGoal(b, f.Arg(0))
		if err != nil {
			return err
		}
		if err := b.DeleteGoal(ctx, g.ID); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted goal %s\n", g.Name)
		return nil
	})
}
