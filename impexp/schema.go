package impexp

import (
	"encoding/json"
	"fmt"
	"strings"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
)

// The SQL dump format is defined once here: each table lists its columns in
// order, and the encode and decode functions of a table read and write values
// in that order. Export and import both go through these tables.

// column of a dump table.
type column struct {
	name    string
	sqlType string
}

// value is a single SQL literal read from a dump.
type value struct {
	text string
	null bool
}

// table maps records of type T to rows of a dump table.
type table[T any] struct {
	name    string
	columns []column
	// required is the minimum number of values a row must have to be decoded.
	required int
	encode   func(T) []any
	decode   func(row []value) (T, error)
}

// createStatement returns the CREATE TABLE statement of the table.
func (t table[T]) createStatement() string {
	return createStatement(t.name, t.columns)
}

func createStatement(name string, columns []column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", name)
	for i, c := range columns {
		sep := ","
		if i == len(columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  %s %s%s\n", c.name, c.sqlType, sep)
	}
	b.WriteString(");\n")
	return b.String()
}

// insertStatement returns the INSERT statement of a record.
func (t table[T]) insertStatement(r T) string {
	return insertStatement(t.name, t.encode(r))
}

func insertStatement(name string, values []any) string {
	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = literal(v)
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s);\n", name, strings.Join(literals, ", "))
}

// literal formats a value as an SQL literal. Strings holding line breaks are
// written as escape strings (E'...') so that each statement stays on one line.
func literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case decimal.Decimal:
		return v.String()
	case int:
		return fmt.Sprint(v)
	case date.Date:
		if v.IsZero() {
			return "NULL"
		}
		return literal(v.String())
	case string:
		if strings.ContainsAny(v, "\r\n") {
			return "E'" + escaper.Replace(v) + "'"
		}
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return literal(fmt.Sprint(v))
	}
}

var escaper = strings.NewReplacer(`\`, `\\`, "'", "''", "\n", `\n`, "\r", `\r`)

// nullable returns nil for the empty string.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// row helpers decode positional values, recording the first error.
type rowReader struct {
	row []value
	err error
}

func (r *rowReader) str(i int) string {
	if i >= len(r.row) || r.row[i].null {
		return ""
	}
	return r.row[i].text
}

func (r *rowReader) decimal(i int) decimal.Decimal {
	s := r.str(i)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %d: invalid number %q", i+1, s)
	}
	return d
}

func (r *rowReader) date(i int) date.Date {
	s := r.str(i)
	if s == "" {
		return date.Date{}
	}
	d, err := date.ParseAny(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %d: %w", i+1, err)
	}
	return d
}

var accountsTable = table[mm.Account]{
	name: "accounts",
	columns: []column{
		{"id", "TEXT PRIMARY KEY"},
		{"name", "TEXT NOT NULL"},
		{"type", "TEXT NOT NULL"},
		{"balance", "DECIMAL(15,2) NOT NULL"},
		{"bank", "TEXT"},
		{"account_number", "TEXT"},
	},
	required: 4,
	encode: func(a mm.Account) []any {
		return []any{a.ID, a.Name, string(a.Type), a.Balance, a.Bank, a.AccountNumber}
	},
	decode: func(row []value) (mm.Account, error) {
		r := rowReader{row: row}
		a := mm.Account{
			ID:            r.str(0),
			Name:          r.str(1),
			Type:          mm.AccountType(r.str(2)),
			Balance:       r.decimal(3),
			Bank:          r.str(4),
			AccountNumber: r.str(5),
		}
		if r.err != nil {
			return a, r.err
		}
		return a, normalizeAccount(&a)
	},
}

// transactionsTable carries the destination of transfers in a trailing
// nullable column, rows without it are still read.
var transactionsTable = table[mm.Transaction]{
	name: "transactions",
	columns: []column{
		{"id", "TEXT PRIMARY KEY"},
		{"account_id", "TEXT NOT NULL"},
		{"type", "TEXT NOT NULL"},
		{"amount", "DECIMAL(15,2) NOT NULL"},
		{"category", "TEXT"},
		{"subcategory", "TEXT"},
		{"description", "TEXT"},
		{"date", "DATE NOT NULL"},
		{"to_account_id", "TEXT"},
	},
	required: 8,
	encode: func(t mm.Transaction) []any {
		return []any{t.ID, t.AccountID, string(t.Type), t.Amount, t.Category, t.Subcategory, t.Description, t.Date, nullable(t.ToAccountID)}
	},
	decode: func(row []value) (mm.Transaction, error) {
		r := rowReader{row: row}
		t := mm.Transaction{
			ID:          r.str(0),
			AccountID:   r.str(1),
			Type:        mm.TransactionType(r.str(2)),
			Amount:      r.decimal(3),
			Category:    r.str(4),
			Subcategory: r.str(5),
			Description: r.str(6),
			Date:        r.date(7),
			ToAccountID: r.str(8),
		}
		if r.err != nil {
			return t, r.err
		}
		return t, normalizeTransaction(&t)
	},
}

var categoriesTable = table[mm.Category]{
	name: "categories",
	columns: []column{
		{"id", "TEXT PRIMARY KEY"},
		{"name", "TEXT NOT NULL"},
		{"type", "TEXT NOT NULL"},
		{"budget", "DECIMAL(15,2)"},
		{"color", "TEXT"},
		{"subcategories", "TEXT"},
	},
	required: 5,
	encode: func(c mm.Category) []any {
		subs, _ := json.Marshal(nonNil(c.Subcategories)) // a []string always encodes
		return []any{c.ID, c.Name, string(c.Type), c.Budget, c.Color, string(subs)}
	},
	decode: func(row []value) (mm.Category, error) {
		r := rowReader{row: row}
		c := mm.Category{
			ID:     r.str(0),
			Name:   r.str(1),
			Type:   mm.TransactionType(r.str(2)),
			Budget: r.decimal(3),
			Color:  r.str(4),
		}
		if r.err != nil {
			return c, r.err
		}
		// a malformed list only loses the subcategories
		if err := json.Unmarshal([]byte(r.str(5)), &c.Subcategories); err != nil {
			c.Subcategories = nil
		}
		return c, normalizeCategory(&c)
	},
}

var goalsTable = table[mm.Goal]{
	name: "goals",
	columns: []column{
		{"id", "TEXT PRIMARY KEY"},
		{"name", "TEXT NOT NULL"},
		{"description", "TEXT"},
		{"target_amount", "DECIMAL(15,2) NOT NULL"},
		{"current_amount", "DECIMAL(15,2) NOT NULL"},
		{"target_date", "DATE"},
		{"category", "TEXT"},
		{"priority", "TEXT"},
		{"linked_account_id", "TEXT"},
		{"tracking_mode", "TEXT"},
	},
	required: 8,
	encode: func(g mm.Goal) []any {
		return []any{g.ID, g.Name, g.Description, g.TargetAmount, g.CurrentAmount, g.TargetDate, g.Category, string(g.Priority), nullable(g.LinkedAccountID), string(g.TrackingMode)}
	},
	decode: func(row []value) (mm.Goal, error) {
		r := rowReader{row: row}
		g := mm.Goal{
			ID:              r.str(0),
			Name:            r.str(1),
			Description:     r.str(2),
			TargetAmount:    r.decimal(3),
			CurrentAmount:   r.decimal(4),
			TargetDate:      r.date(5),
			Category:        r.str(6),
			Priority:        mm.Priority(r.str(7)),
			LinkedAccountID: r.str(8),
			TrackingMode:    mm.TrackingMode(r.str(9)),
		}
		if r.err != nil {
			return g, r.err
		}
		return g, normalizeGoal(&g)
	},
}

// metadataColumns describe the export_metadata table appended to every dump.
var metadataColumns = []column{
	{"export_date", "TEXT"},
	{"version", "TEXT"},
	{"data_type", "TEXT"},
	{"record_count", "INTEGER"},
}

const metadataTable = "export_metadata"
