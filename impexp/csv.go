package impexp

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/internal/logger"
	"github.com/shopspring/decimal"
)

const bom = "\uFEFF"

// DefaultAccountID is the account given to CSV transactions when no account is known.
const DefaultAccountID = "default"

// ParseCSV reads transactions from a CSV file with a header line.
//
// Columns are found by name, case insensitively: date, description and
// amount are required in each row, category, subcategory, type and account
// are optional. A negative amount or an "expense" type makes an expense of
// the absolute amount, anything else is an income. Rows with a wrong number
// of fields or a missing or invalid required value are skipped.
//
// The account column is matched against the name or id of opts.Accounts.
// Rows without a match go to the first of opts.Accounts, or to
// DefaultAccountID when there is none.
func ParseCSV(ctx context.Context, data []byte, opts Options) (*mm.Dataset, error) {
	log := logger.FromContext(ctx)
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(bom))))
	reader.FieldsPerRecord = -1 // checked against the header below
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.Warn().Err(err).Msg("skipping unreadable CSV line")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read CSV: %v", mm.ErrValidation, err)
		}
		records = append(records, record)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: CSV file must have a header line and at least one data line", mm.ErrValidation)
	}

	header := make(map[string]int)
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, exists := header[h]; !exists {
			header[h] = i
		}
	}
	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("%w: CSV header has no %q column", mm.ErrValidation, required)
		}
	}

	defaultAccount := DefaultAccountID
	if len(opts.Accounts) > 0 {
		defaultAccount = opts.Accounts[0].ID
	}
	resolve := func(ref string) string {
		ref = strings.TrimSpace(ref)
		for _, a := range opts.Accounts {
			if ref != "" && (a.ID == ref || strings.EqualFold(a.Name, ref)) {
				return a.ID
			}
		}
		return defaultAccount
	}

	d := &mm.Dataset{Transactions: []mm.Transaction{}}
	for n, record := range records[1:] {
		line := n + 2
		if len(record) != len(records[0]) {
			log.Warn().Int("line", line).Int("fields", len(record)).Int("want", len(records[0])).Msg("skipping CSV row with a wrong number of fields")
			continue
		}
		field := func(name string) string {
			if i, ok := header[name]; ok {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		tx, err := csvTransaction(field, resolve)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping CSV row")
			continue
		}
		d.Transactions = append(d.Transactions, tx)
	}
	return d, nil
}

func csvTransaction(field func(string) string, resolve func(string) string) (mm.Transaction, error) {
	rawDate, description, rawAmount := field("date"), field("description"), field("amount")
	if rawDate == "" || description == "" || rawAmount == "" {
		return mm.Transaction{}, errors.New("missing date, description or amount")
	}
	on, err := date.ParseAny(rawDate)
	if err != nil {
		return mm.Transaction{}, err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return mm.Transaction{}, err
	}

	typ := mm.Income
	if amount.IsNegative() || strings.EqualFold(field("type"), string(mm.Expense)) {
		typ = mm.Expense
	}
	category := field("category")
	if category == "" {
		category = "Other"
	}
	tx := mm.Transaction{
		ID:          mm.NewID(),
		AccountID:   resolve(field("account")),
		Type:        typ,
		Amount:      amount.Abs(),
		Category:    category,
		Subcategory: field("subcategory"),
		Description: description,
		Date:        on,
	}
	return tx, tx.Validate()
}

// amountPattern is what remains of a valid amount once symbols and separators are removed.
var amountPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// parseAmount reads a number, ignoring currency symbols, spaces and thousand
// separators. Any other character makes the amount invalid.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == ',', r == '\'', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			return -1
		default:
			return r
		}
	}, s)
	if !amountPattern.MatchString(clean) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		if amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("invalid amount %q", s)
		}
		amount = amount.Neg()
	}
	return amount, nil
}

// quote returns s as a double quoted CSV field.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvWriter writes lines of CSV fields. Strings are always quoted.
type csvWriter struct {
	bytes.Buffer
}

func (w *csvWriter) line(fields ...any) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		switch f := f.(type) {
		case string:
			w.WriteString(quote(f))
		case decimal.Decimal:
			w.WriteString(f.StringFixed(2))
		case date.Date:
			if !f.IsZero() {
				w.WriteString(f.String())
			}
		default:
			w.WriteString(quote(fmt.Sprint(f)))
		}
	}
	w.WriteString("\n")
}

// writeCSV writes the plain CSV export.
//
// Transactions (the "all" and "transactions" data types) use the
// Date,Description,Category,Subcategory,Amount,Type,Account columns, with
// expenses negated. Other data types have their own columns.
func writeCSV(s, all *mm.Dataset, opts ExportOptions) []byte {
	var w csvWriter
	switch opts.DataType {
	case AccountsData:
		w.line("ID", "Name", "Type", "Balance", "Bank", "Account Number")
		for _, a := range s.Accounts {
			w.line(a.ID, a.Name, string(a.Type), a.Balance, a.Bank, a.AccountNumber)
		}
	case CategoriesData:
		w.line("ID", "Name", "Type", "Budget", "Color", "Subcategories")
		for _, c := range s.Categories {
			w.line(c.ID, c.Name, string(c.Type), c.Budget, c.Color, strings.Join(c.Subcategories, "; "))
		}
	case GoalsData:
		w.line("ID", "Name", "Description", "Target Amount", "Current Amount", "Target Date", "Category", "Priority", "Tracking Mode", "Linked Account")
		for _, g := range s.Goals {
			w.line(g.ID, g.Name, g.Description, g.TargetAmount, g.CurrentAmount, g.TargetDate, g.Category, string(g.Priority), string(g.TrackingMode), linkedName(all, g))
		}
	default:
		w.line("Date", "Description", "Category", "Subcategory", "Amount", "Type", "Account")
		for _, t := range s.Transactions {
			w.line(t.Date, t.Description, t.Category, t.Subcategory, t.Signed(), string(t.Type), all.AccountName(t.AccountID))
		}
	}
	return w.Bytes()
}

func linkedName(d *mm.Dataset, g mm.Goal) string {
	if !g.IsLinked() {
		return ""
	}
	return d.AccountName(g.LinkedAccountID)
}

// writeSpreadsheet writes a CSV meant to be opened in a spreadsheet: UTF-8
// with a byte order mark, and one titled section per collection with
// resolved account names and computed columns.
func writeSpreadsheet(s, all *mm.Dataset, opts ExportOptions) []byte {
	var w csvWriter
	w.WriteString(bom)
	today := date.Of(opts.Now)
	section := func(title string) {
		if w.Len() > len(bom) {
			w.WriteString("\n")
		}
		w.line(title)
	}

	if opts.DataType.includes(TransactionsData) {
		section("Transactions")
		w.line("Date", "Description", "Category", "Subcategory", "Type", "Amount", "Account", "Account Name", "Balance Impact")
		for _, t := range s.Transactions {
			w.line(t.Date, t.Description, t.Category, t.Subcategory, string(t.Type), t.Amount, t.AccountID, all.AccountName(t.AccountID), t.Signed())
		}
	}
	if opts.DataType.includes(AccountsData) {
		section("Accounts")
		w.line("Name", "Type", "Bank", "Account Number", "Balance")
		for _, a := range s.Accounts {
			w.line(a.Name, string(a.Type), a.Bank, a.AccountNumber, a.Balance)
		}
	}
	if opts.DataType.includes(CategoriesData) {
		section("Categories")
		w.line("Name", "Type", "Budget", "Spent", "Color", "Subcategories")
		for _, c := range s.Categories {
			w.line(c.Name, string(c.Type), c.Budget, all.CategorySpend(c.Name, c.Type), c.Color, strings.Join(c.Subcategories, "; "))
		}
	}
	if opts.DataType.includes(GoalsData) {
		section("Goals")
		w.line("Name", "Description", "Category", "Priority", "Target Amount", "Current Amount", "Progress %", "Target Date", "Status", "Tracking Mode", "Linked Account")
		for _, g := range s.Goals {
			w.line(g.Name, g.Description, g.Category, string(g.Priority), g.TargetAmount, g.CurrentAmount, g.Progress(), g.TargetDate, string(g.Status(today)), string(g.TrackingMode), linkedName(all, g))
		}
	}
	return w.Bytes()
}
