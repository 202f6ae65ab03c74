package moneymanager

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a user defined label grouping transactions of one type.
//
// Transactions are matched to categories by name, case insensitively.
type Category struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          TransactionType `json:"type"`
	Budget        decimal.Decimal `json:"budget"`
	Color         string          `json:"color"`
	Subcategories []string        `json:"subcategories"`
}

// Validate checks the category fields.
func (c Category) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: category id is missing", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category %q has no name", ErrValidation, c.ID)
	}
	if _, err := ParseTransactionType(string(c.Type)); err != nil {
		return fmt.Errorf("category %q: %w", c.ID, err)
	}
	if c.Budget.IsNegative() {
		return fmt.Errorf("%w: category %q budget is negative", ErrValidation, c.ID)
	}
	return nil
}

// Matches reports whether the transaction belongs to this category.
func (c Category) Matches(t Transaction) bool {
	return t.Type == c.Type && strings.EqualFold(t.Category, c.Name)
}

// HasSubcategory reports whether name is one of the subcategories, case insensitively.
func (c Category) HasSubcategory(name string) bool {
	return slices.ContainsFunc(c.Subcategories, func(s string) bool { return strings.EqualFold(s, name) })
}
