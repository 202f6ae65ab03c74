package moneymanager

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
)

// Priority of a savings goal.
type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// ParsePriority parses a priority, case insensitively. Empty is Medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium", "":
		return Medium, nil
	case "low":
		return Low, nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
}

// TrackingMode tells how the current amount of a goal evolves.
type TrackingMode string

const (
	// Manual goals change only with explicit contributions.
	Manual TrackingMode = "manual"
	// AccountLinked goals mirror the balance of an account.
	AccountLinked TrackingMode = "account"
)

// ParseTrackingMode parses a tracking mode. Empty is Manual.
func ParseTrackingMode(s string) (TrackingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manual", "":
		return Manual, nil
	case "account", "account-linked", "linked":
		return AccountLinked, nil
	default:
		return "", fmt.Errorf("%w: unknown tracking mode %q", ErrValidation, s)
	}
}

// Goal is a savings target with a deadline.
type Goal struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	CurrentAmount   decimal.Decimal `json:"currentAmount"`
	TargetDate      date.Date       `json:"targetDate"`
	Category        string          `json:"category"`
	Priority        Priority        `json:"priority"`
	TrackingMode    TrackingMode    `json:"trackingMode"`
	LinkedAccountID string          `json:"linkedAccountId,omitempty"`
}

// Validate checks the goal fields.
func (g Goal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: goal id is missing", ErrValidation)
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: goal %q has no name", ErrValidation, g.ID)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: goal %q target amount must be positive, got %s", ErrValidation, g.ID, g.TargetAmount)
	}
	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: goal %q current amount is negative", ErrValidation, g.ID)
	}
	if _, err := ParsePriority(string(g.Priority)); err != nil {
		return fmt.Errorf("goal %q: %w", g.ID, err)
	}
	mode, err := ParseTrackingMode(string(g.TrackingMode))
	if err != nil {
		return fmt.Errorf("goal %q: %w", g.ID, err)
	}
	if mode == AccountLinked && g.LinkedAccountID == "" {
		return fmt.Errorf("%w: goal %q tracks an account but has no linked account", ErrValidation, g.ID)
	}
	return nil
}

// IsLinked reports whether the goal mirrors an account balance.
func (g Goal) IsLinked() bool { return g.TrackingMode == AccountLinked && g.LinkedAccountID != "" }

// MarshalJSON implements the json.Marshaler interface for Goal.
func (g Goal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", g.ID)
	w.Append("name", g.Name)
	w.Optional("description", g.Description)
	w.Append("targetAmount", g.TargetAmount)
	w.Append("currentAmount", g.CurrentAmount)
	w.Append("targetDate", g.TargetDate)
	w.Append("category", g.Category)
	w.Append("priority", g.Priority)
	w.Append("trackingMode", g.TrackingMode)
	if g.TrackingMode == AccountLinked {
		w.Optional("linkedAccountId", g.LinkedAccountID)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Goal.
// It also reads the "deadline" and "trackedAccountId" names used by older files.
func (g *Goal) UnmarshalJSON(data []byte) error {
	type plain Goal
	var temp struct {
		plain
		Deadline         *date.Date `json:"deadline"`
		TrackedAccountID string     `json:"trackedAccountId"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*g = Goal(temp.plain)
	if g.TargetDate.IsZero() && temp.Deadline != nil {
		g.TargetDate = *temp.Deadline
	}
	if g.LinkedAccountID == "" {
		g.LinkedAccountID = temp.TrackedAccountID
	}
	return nil
}
