package impexp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/internal/logger"
)

// ParseJSON reads a JSON payload.
//
// The payload is either an array of records of the opts.ArrayOf collection
// (transactions by default), or an object with optional "accounts",
// "transactions", "categories" and "goals" arrays. Each record is decoded and
// validated on its own, invalid ones are skipped.
func ParseJSON(ctx context.Context, data []byte, opts Options) (*mm.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep amounts exact
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", mm.ErrValidation, err)
	}

	paths := map[mm.Collection]string{
		mm.AccountsCollection:     "$.accounts",
		mm.TransactionsCollection: "$.transactions",
		mm.CategoriesCollection:   "$.categories",
		mm.GoalsCollection:        "$.goals",
	}
	if opts.TransactionsPath != "" {
		paths[mm.TransactionsCollection] = opts.TransactionsPath
	}

	raws := make(map[mm.Collection][]json.RawMessage)
	switch v := payload.(type) {
	case []any:
		c := opts.ArrayOf
		if c == "" {
			c = mm.TransactionsCollection
		}
		var err error
		if raws[c], err = rawRecords(v); err != nil {
			return nil, err
		}
	case map[string]any:
		for c, path := range paths {
			list, ok := extract(ctx, path, v)
			if !ok {
				continue
			}
			var err error
			if raws[c], err = rawRecords(list); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: JSON payload must be an array or an object", mm.ErrValidation)
	}

	return &mm.Dataset{
		Accounts:     decodeRecords(ctx, mm.AccountsCollection, raws[mm.AccountsCollection], normalizeAccount),
		Transactions: decodeRecords(ctx, mm.TransactionsCollection, raws[mm.TransactionsCollection], normalizeTransaction),
		Categories:   decodeRecords(ctx, mm.CategoriesCollection, raws[mm.CategoriesCollection], normalizeCategory),
		Goals:        decodeRecords(ctx, mm.GoalsCollection, raws[mm.GoalsCollection], normalizeGoal),
	}, nil
}

// extract returns the array found at path, if any.
func extract(ctx context.Context, path string, payload any) ([]any, bool) {
	val, err := jsonpath.Get(path, payload)
	if err != nil {
		// jsonpath reports missing keys as errors.
		return nil, false
	}
	list, ok := val.([]any)
	if !ok {
		logger.FromContext(ctx).Warn().Str("path", path).Msg("ignoring value that is not an array")
		return nil, false
	}
	return list, true
}

func rawRecords(list []any) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, 0, len(list))
	for _, item := range list {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("cannot re-encode record: %w", err)
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// jsonExport is the document written for the "all" data type.
type jsonExport struct {
	ExportDate   string           `json:"exportDate"`
	Version      string           `json:"version"`
	Accounts     []mm.Account     `json:"accounts"`
	Transactions []mm.Transaction `json:"transactions"`
	Categories   []mm.Category    `json:"categories"`
	Goals        []mm.Goal        `json:"goals"`
}

func writeJSON(d *mm.Dataset, opts ExportOptions) ([]byte, error) {
	var v any
	switch opts.DataType {
	case AllData:
		v = jsonExport{
			ExportDate:   opts.Now.UTC().Format(timestampLayout),
			Version:      Version,
			Accounts:     nonNil(d.Accounts),
			Transactions: nonNil(d.Transactions),
			Categories:   nonNil(d.Categories),
			Goals:        nonNil(d.Goals),
		}
	case TransactionsData:
		v = nonNil(d.Transactions)
	case AccountsData:
		v = nonNil(d.Accounts)
	case CategoriesData:
		v = nonNil(d.Categories)
	case GoalsData:
		v = nonNil(d.Goals)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode JSON export: %w", err)
	}
	return append(data, '\n'), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
