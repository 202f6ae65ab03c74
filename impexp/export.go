package impexp

import (
	"fmt"
	"strings"
	"time"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
)

// Version of the export formats.
const Version = "1.0"

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	// XLSX is a spreadsheet friendly CSV, not a binary workbook.
	XLSX Format = "xlsx"
	SQL  Format = "sql"
	// PDF is a self printing HTML report.
	PDF Format = "pdf"
)

// Formats lists the export formats.
var Formats = []Format{CSV, JSON, XLSX, SQL, PDF}

// ParseFormat parses an export format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown export format %q", mm.ErrValidation, s)
}

// Extension returns the file extension of the format, dot included.
func (f Format) Extension() string {
	switch f {
	case XLSX:
		return ".csv"
	case PDF:
		return ".html"
	default:
		return "." + string(f)
	}
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	switch f {
	case CSV, XLSX:
		return "text/csv"
	case JSON:
		return "application/json"
	case SQL:
		return "application/sql"
	case PDF:
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// DataType selects the collections to export.
type DataType string

const (
	AllData          DataType = "all"
	TransactionsData DataType = "transactions"
	AccountsData     DataType = "accounts"
	CategoriesData   DataType = "categories"
	GoalsData        DataType = "goals"
)

// DataTypes lists the data types.
var DataTypes = []DataType{AllData, TransactionsData, AccountsData, CategoriesData, GoalsData}

// ParseDataType parses a data type name. Empty is AllData.
func ParseDataType(s string) (DataType, error) {
	t := DataType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return AllData, nil
	}
	for _, known := range DataTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown data type %q", mm.ErrValidation, s)
}

// includes reports whether the data type exports the collection of x.
func (t DataType) includes(x DataType) bool { return t == AllData || t == x }

// ExportOptions select what to export and how.
type ExportOptions struct {
	Format   Format
	DataType DataType
	// Since filters transactions by date, relative to Now.
	Since date.Since
	// Now is the export time. It defaults to time.Now().
	Now time.Time
	// Currency is used to format amounts in the report. It defaults to mm.DefaultCurrency.
	Currency string
}

// File is an exported file.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

// Filename returns the name of the export file, like "money-manager-export-2024-02-15-transactions.csv".
func Filename(now time.Time, f Format, t DataType) string {
	name := "money-manager-export-" + date.Of(now).String()
	if t != AllData && t != "" {
		name += "-" + string(t)
	}
	return name + f.Extension()
}

// Select returns the collections of d requested by the data type, with
// transactions filtered by date. Records are shared with d.
func Select(d *mm.Dataset, t DataType, since date.Since, today date.Date) *mm.Dataset {
	s := &mm.Dataset{}
	if t.includes(AccountsData) {
		s.Accounts = d.Accounts
	}
	if t.includes(TransactionsData) {
		s.Transactions = make([]mm.Transaction, 0, len(d.Transactions))
		for _, tx := range d.Transactions {
			if since.Includes(today, tx.Date) {
				s.Transactions = append(s.Transactions, tx)
			}
		}
	}
	if t.includes(CategoriesData) {
		s.Categories = d.Categories
	}
	if t.includes(GoalsData) {
		s.Goals = d.Goals
	}
	return s
}

// Export serializes the data of d selected by the options.
func Export(d *mm.Dataset, opts ExportOptions) (*File, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.DataType == "" {
		opts.DataType = AllData
	}
	if opts.Since == "" {
		opts.Since = date.All
	}
	if opts.Currency == "" {
		opts.Currency = mm.DefaultCurrency
	}
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	if _, err := ParseDataType(string(opts.DataType)); err != nil {
		return nil, err
	}

	selected := Select(d, opts.DataType, opts.Since, date.Of(opts.Now))
	var (
		content []byte
		err     error
	)
	switch opts.Format {
	case CSV:
		content = writeCSV(selected, d, opts)
	case XLSX:
		content = writeSpreadsheet(selected, d, opts)
	case JSON:
		content, err = writeJSON(selected, opts)
	case SQL:
		content = writeSQL(selected, opts)
	case PDF:
		content, err = writeReport(selected, d, opts)
	}
	if err != nil {
		return nil, err
	}
	return &File{
		Name:     Filename(opts.Now, opts.Format, opts.DataType),
		MIMEType: opts.Format.MIMEType(),
		Content:  content,
	}, nil
}
