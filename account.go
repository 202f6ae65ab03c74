package moneymanager

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType is the kind of an account.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Credit     AccountType = "credit"
	Investment AccountType = "investment"
)

// ParseAccountType parses an account type, case insensitively.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case Checking, Savings, Credit, Investment:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrValidation, s)
	}
}

// Account is a named balance bucket.
//
// Its balance is the running sum of the signed effect of every transaction
// recorded against it, plus manual adjustments. It may be negative.
type Account struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	Type          AccountType     `json:"type"`
	Bank          string          `json:"bank,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
}

// Validate checks the account fields.
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: account id is missing", ErrValidation)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: account %q has no name", ErrValidation, a.ID)
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return fmt.Errorf("account %q: %w", a.ID, err)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Account.
func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	w.Append("balance", a.Balance)
	w.Append("type", a.Type)
	w.Optional("bank", a.Bank)
	w.Optional("accountNumber", a.AccountNumber)
	return w.MarshalJSON()
}

var _ json.Marshaler = Account{}
