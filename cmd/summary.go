package cmd

import (
	"context"
	"flag"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "display balances, income, expenses and goals at a glance"
}
func (*summaryCmd) Usage() string {
	return `mm summary [-d <date>]

  Displays the total balance, total income and expenses, the net worth and
  the number of goals completed, overdue or in progress on the given date.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date used to classify goals. See 'mm topic dates'.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *mm.Book) error {
		on, err := parseDate(c.date)
		if err != nil {
			return err
		}
		s := mm.NewSummary(b.Dataset(), on, Currency())
		printMarkdown(renderer.RenderSummary(renderer.NewSummary(s)))
		return nil
	})
}
