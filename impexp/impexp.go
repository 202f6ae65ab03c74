// Package impexp reads and writes money manager data in the file formats
// users exchange with other tools: CSV, JSON, SQL dumps, spreadsheet CSV and
// a printable HTML report.
//
// Parsing never touches the store: it produces a Dataset that the caller
// merges into a Book in a single step.
package impexp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/internal/logger"
)

// NoDataError is returned when a file contains no valid record.
type NoDataError struct {
	Ext string // detected file extension, like ".csv"
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no valid data found in %s file", e.Ext)
}

// Unwrap makes NoDataError a validation error.
func (e *NoDataError) Unwrap() error { return mm.ErrValidation }

// Options tune the parsers.
type Options struct {
	// Accounts are the stored accounts, used to resolve the account column of CSV files.
	Accounts []mm.Account
	// TransactionsPath is the JSONPath of the transactions in a JSON object.
	// It defaults to "$.transactions".
	TransactionsPath string
	// ArrayOf is the collection a top level JSON array holds. It defaults to transactions.
	ArrayOf mm.Collection
}

// Parse reads the content of a file, choosing the parser from the file extension.
//
// It fails with an error wrapping mm.ErrValidation when the extension is not
// supported or when no valid record could be read.
func Parse(ctx context.Context, filename string, data []byte, opts Options) (*mm.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		d   *mm.Dataset
		err error
	)
	switch ext {
	case ".csv":
		d, err = ParseCSV(ctx, data, opts)
	case ".json":
		d, err = ParseJSON(ctx, data, opts)
	case ".sql":
		d, err = ParseSQL(ctx, data)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, want .csv, .json or .sql", mm.ErrValidation, ext)
	}
	if err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, &NoDataError{Ext: ext}
	}
	logger.FromContext(ctx).Debug().
		Str("file", filename).
		Int("accounts", len(d.Accounts)).
		Int("transactions", len(d.Transactions)).
		Int("categories", len(d.Categories)).
		Int("goals", len(d.Goals)).
		Msg("file parsed")
	return d, nil
}

// normalizers complete and check one decoded record of each type.
// A record that cannot be normalized is dropped by the caller.

func normalizeAccount(a *mm.Account) error {
	if a.ID == "" {
		a.ID = mm.NewID()
	}
	t, err := mm.ParseAccountType(string(a.Type))
	if err != nil {
		return err
	}
	a.Type = t
	return a.Validate()
}

func normalizeTransaction(t *mm.Transaction) error {
	if t.ID == "" {
		t.ID = mm.NewID()
	}
	typ, err := mm.ParseTransactionType(string(t.Type))
	if err != nil {
		return err
	}
	t.Type = typ
	return t.Validate()
}

func normalizeCategory(c *mm.Category) error {
	if c.ID == "" {
		c.ID = mm.NewID()
	}
	typ, err := mm.ParseTransactionType(string(c.Type))
	if err != nil {
		return err
	}
	c.Type = typ
	if c.Subcategories == nil {
		c.Subcategories = []string{}
	}
	return c.Validate()
}

func normalizeGoal(g *mm.Goal) error {
	if g.ID == "" {
		g.ID = mm.NewID()
	}
	p, err := mm.ParsePriority(string(g.Priority))
	if err != nil {
		return err
	}
	g.Priority = p
	mode, err := mm.ParseTrackingMode(string(g.TrackingMode))
	if err != nil {
		return err
	}
	if g.TrackingMode == "" && g.LinkedAccountID != "" {
		mode = mm.AccountLinked
	}
	g.TrackingMode = mode
	if mode == mm.Manual {
		g.LinkedAccountID = ""
	}
	return g.Validate()
}

// decodeRecords decodes each raw record on its own and keeps the valid ones.
func decodeRecords[T any](ctx context.Context, c mm.Collection, raws []json.RawMessage, normalize func(*T) error) []T {
	log := logger.FromContext(ctx)
	records := make([]T, 0, len(raws))
	for i, raw := range raws {
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			log.Warn().Err(err).Str("collection", string(c)).Int("index", i).Msg("skipping malformed record")
			continue
		}
		if err := normalize(&r); err != nil {
			log.Warn().Err(err).Str("collection", string(c)).Int("index", i).Msg("skipping invalid record")
			continue
		}
		records = append(records, r)
	}
	return records
}
