package renderer

import (
	"fmt"

	mm "github.com/etnz/moneymanager"
)

// Transaction renders a transaction to a one line sentence.
func Transaction(tx mm.Transaction, d *mm.Dataset, currency string) string {
	amount := mm.M(tx.Amount, currency)
	switch tx.Type {
	case mm.Income:
		return fmt.Sprintf("%s: received %s on %s (%s)", tx.Date, amount, d.AccountName(tx.AccountID), categoryLabel(tx))
	case mm.Expense:
		return fmt.Sprintf("%s: spent %s from %s (%s)", tx.Date, amount, d.AccountName(tx.AccountID), categoryLabel(tx))
	case mm.Transfer:
		if tx.ToAccountID == "" {
			return fmt.Sprintf("%s: transferred %s out of %s", tx.Date, amount, d.AccountName(tx.AccountID))
		}
		return fmt.Sprintf("%s: transferred %s from %s to %s", tx.Date, amount, d.AccountName(tx.AccountID), d.AccountName(tx.ToAccountID))
	default:
		return fmt.Sprintf("%s: %s of %s", tx.Date, tx.Type, amount)
	}
}

func categoryLabel(tx mm.Transaction) string {
	switch {
	case tx.Category == "":
		return "uncategorized"
	case tx.Subcategory == "":
		return tx.Category
	default:
		return tx.Category + " / " + tx.Subcategory
	}
}

// accountLabel names the accounts moved by a transaction.
func accountLabel(tx mm.Transaction, d *mm.Dataset) string {
	if tx.Type == mm.Transfer && tx.ToAccountID != "" {
		return d.AccountName(tx.AccountID) + " → " + d.AccountName(tx.ToAccountID)
	}
	return d.AccountName(tx.AccountID)
}
