package moneymanager

import (
	"fmt"
	"strings"

	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// ParseTransactionType parses a transaction type, case insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case Income, Expense, Transfer:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrValidation, s)
	}
}

// Transaction is a single dated movement of money against one account.
//
// Amount is always a positive magnitude, the Type tells the direction.
// A transfer debits its account and credits ToAccountID when set.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	ToAccountID string          `json:"toAccountId,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
	Date        date.Date       `json:"date"`
}

// Validate checks the transaction fields.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction id is missing", ErrValidation)
	}
	if t.AccountID == "" {
		return fmt.Errorf("%w: transaction %q has no account", ErrValidation, t.ID)
	}
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return fmt.Errorf("transaction %q: %w", t.ID, err)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction %q amount must be positive, got %s", ErrValidation, t.ID, t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction %q has no date", ErrValidation, t.ID)
	}
	if t.ToAccountID != "" && t.Type != Transfer {
		return fmt.Errorf("%w: transaction %q is a %s, only transfers have a destination account", ErrValidation, t.ID, t.Type)
	}
	if t.ToAccountID != "" && t.ToAccountID == t.AccountID {
		return fmt.Errorf("%w: transfer %q has the same source and destination", ErrValidation, t.ID)
	}
	return nil
}

// Signed returns the amount with the sign of its effect on its own account.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Effects returns the signed balance change this transaction causes, by account id.
func (t Transaction) Effects() map[string]decimal.Decimal {
	effects := map[string]decimal.Decimal{t.AccountID: t.Signed()}
	if t.Type == Transfer && t.ToAccountID != "" {
		effects[t.ToAccountID] = effects[t.ToAccountID].Add(t.Amount)
	}
	return effects
}

// References reports whether the transaction moves money on the account.
func (t Transaction) References(accountID string) bool {
	return t.AccountID == accountID || t.ToAccountID == accountID
}
