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

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories with their spending against budget" }
func (*categoriesCmd) Usage() string {
	return `mm categories

  Lists categories with their subcategories, budget and the total amount of
  the transactions in each category.
`
}

func (*categoriesCmd) SetFlags(f *flag.FlagSet) {}

func (*categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *mm.Book) error {
		printMarkdown(renderer.RenderCategories(renderer.NewCategories(b.Dataset(), Currency())))
		return nil
	})
}

type addCategoryCmd struct {
	typ    string
	budget string
	color  string
	subs   string
}

func (*addCategoryCmd) Name() string     { return "add-category" }
func (*addCategoryCmd) Synopsis() string { return "create a category" }
func (*addCategoryCmd) Usage() string {
	return `mm add-category [-type income|expense|transfer] [-budget <amount>] [-color <#rrggbb>] [-sub <a,b,...>] <name>

  Creates a category. Transactions belong to a category when their category
  label matches its name, ignoring case.
`
}

func (c *addCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", string(mm.Expense), "Category type: income, expense or transfer.")
	f.StringVar(&c.budget, "budget", "0", "Budget, or expected amount for income categories.")
	f.StringVar(&c.color, "color", "", "Display color. Defaults to the next color of the palette.")
	f.StringVar(&c.subs, "sub", "", "Comma separated subcategories.")
}

func (c *addCategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(strings.Join(f.Args(), " "))
	if name == "" {
		fmt.Fprintln(os.Stderr, "Error: add-category expects a name.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		typ, err := mm.ParseTransactionType(c.typ)
		if err != nil {
			return usageErrorf("%v", err)
		}
		budget, err := parseDecimal(c.budget)
		if err != nil {
			return err
		}
		subs := []string{}
		for _, s := range strings.Split(c.subs, ",") {
			if s = strings.TrimSpace(s); s != "" {
				subs = append(subs, s)
			}
		}
		cat, err := b.AddCategory(ctx, mm.Category{
			Name:          name,
			Type:          typ,
			Budget:        budget,
			Color:         c.color,
			Subcategories: subs,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %s category %s (%s)\n", cat.Type, cat.Name, cat.ID)
		return nil
	})
}

type addSubcategoryCmd struct {
	typ string
}

func (*addSubcategoryCmd) Name() string     { return "add-subcategory" }
func (*addSubcategoryCmd) Synopsis() string { return "append a subcategory to a category" }
func (*addSubcategoryCmd) Usage() string {
	return `mm add-subcategory [-type <type>] <category> <subcategory>

  Appends a subcategory to the category designated by its name or id.
  Subcategories already present are ignored.
`
}

func (c *addSubcategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Type of the category, when its name is used by several types.")
}

func (c *addSubcategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: add-subcategory expects a category and a subcategory.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		cat, err := lookupCategory(b, f.Arg(0), mm.TransactionType(strings.ToLower(c.typ)))
		if err != nil {
			return err
		}
		sub := strings.Join(f.Args()[1:], " ")
		if err := b.AddSubcategory(ctx, cat.ID, sub); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Category %s has subcategory %s\n", cat.Name, strings.TrimSpace(sub))
		return nil
	})
}

type deleteCategoryCmd struct {
	typ string
}

func (*deleteCategoryCmd) Name() string     { return "delete-category" }
func (*deleteCategoryCmd) Synopsis() string { return "delete a category" }
func (*deleteCategoryCmd) Usage() string {
	return `mm delete-category [-type <type>] <category>

  Deletes a category. Transactions keep their category label.
`
}

func (c *deleteCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Type of the category, when its name is used by several types.")
}

func (c *deleteCategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete-category expects one category.")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *mm.Book) error {
		cat, err := lookupCategory(b, f.Arg(0), mm.TransactionType(strings.ToLower(c.typ)))
		if err != nil {
			return err
		}
		if err := b.DeleteCategory(ctx, cat.ID); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted %s category %s\n", cat.Type, cat.Name)
		return nil
	})
}
