package moneymanager

import "github.com/shopspring/decimal"

// palette of colors given to default categories, in turn.
var palette = []string{"#8884d8", "#82ca9d", "#ffc658", "#ff7300", "#00c49f", "#0088fe", "#ff8042"}

// Color returns the i-th color of the category palette.
func Color(i int) string { return palette[i%len(palette)] }

var defaultTree = []struct {
	typ           TransactionType
	name          string
	subcategories []string
}{
	{Income, "Salary", []string{"Regular Pay", "Overtime", "Bonus"}},
	{Income, "Business", []string{"Sales", "Services", "Consulting"}},
	{Income, "Investment", []string{"Dividends", "Interest", "Capital Gains"}},
	{Income, "Other", []string{"Gifts", "Refunds", "Miscellaneous"}},
	{Expense, "Food", []string{"Groceries", "Restaurants", "Coffee"}},
	{Expense, "Transportation", []string{"Gas", "Public Transit", "Parking"}},
	{Expense, "Housing", []string{"Rent", "Utilities", "Maintenance"}},
	{Expense, "Entertainment", []string{"Movies", "Games", "Subscriptions"}},
	{Expense, "Healthcare", []string{"Doctor", "Pharmacy", "Insurance"}},
	{Expense, "Shopping", []string{"Clothing", "Electronics", "Home"}},
	{Expense, "Other", []string{"Fees", "Taxes", "Miscellaneous"}},
	{Transfer, "Transfer", []string{"Between Accounts", "To Savings", "From Savings"}},
}

// DefaultCategories returns the categories a new book starts with.
// Each call returns fresh identifiers.
func DefaultCategories() []Category {
	categories := make([]Category, 0, len(defaultTree))
	for i, c := range defaultTree {
		categories = append(categories, Category{
			ID:            NewID(),
			Name:          c.name,
			Type:          c.typ,
			Budget:        decimal.Zero,
			Color:         Color(i),
			Subcategories: append([]string(nil), c.subcategories...),
		})
	}
	return categories
}
