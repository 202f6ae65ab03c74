package moneymanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/etnz/moneymanager/internal/logger"
)

// Store persists raw collections under string keys.
//
// Load must return an error wrapping fs.ErrNotExist when the key has never been saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Collection names one of the four persisted record collections.
type Collection string

const (
	AccountsCollection     Collection = "accounts"
	TransactionsCollection Collection = "transactions"
	CategoriesCollection   Collection = "categories"
	GoalsCollection        Collection = "goals"
)

// Collections lists all collections in their canonical order.
var Collections = []Collection{AccountsCollection, TransactionsCollection, CategoriesCollection, GoalsCollection}

// Key returns the storage key of the collection.
func (c Collection) Key() string { return "money-manager-" + string(c) }

// ParseCollection parses a collection name.
func ParseCollection(s string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown collection %q", ErrValidation, s)
}

// loadCollection reads a collection from the store.
//
// Read failures and corrupt content never fail: the collection degrades to
// empty, and a corrupt record is dropped, with a warning. exists is false when
// the collection has never been saved.
func loadCollection[T any](ctx context.Context, s Store, c Collection) (records []T, exists bool) {
	log := logger.FromContext(ctx).With().Str("collection", string(c)).Logger()
	records = make([]T, 0)

	data, err := s.Load(ctx, c.Key())
	if errors.Is(err, fs.ErrNotExist) {
		return records, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("cannot read collection, using an empty one")
		return records, true
	}
	if len(data) == 0 {
		return records, true
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		log.Warn().Err(err).Msg("corrupt collection, using an empty one")
		return records, true
	}
	for i, raw := range raws {
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("dropping corrupt record")
			continue
		}
		records = append(records, r)
	}
	return records, true
}

// saveCollection writes a collection to the store as a JSON array.
func saveCollection[T any](ctx context.Context, s Store, c Collection, records []T) error {
	if records == nil {
		records = make([]T, 0)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cannot encode %s: %w", c, err)
	}
	if err := s.Save(ctx, c.Key(), data); err != nil {
		return fmt.Errorf("cannot save %s: %w", c, err)
	}
	return nil
}

// loadDataset reads the four collections.
func loadDataset(ctx context.Context, s Store) (d *Dataset, categoriesExist bool) {
	d = &Dataset{}
	d.Accounts, _ = loadCollection[Account](ctx, s, AccountsCollection)
	d.Transactions, _ = loadCollection[Transaction](ctx, s, TransactionsCollection)
	d.Categories, categoriesExist = loadCollection[Category](ctx, s, CategoriesCollection)
	d.Goals, _ = loadCollection[Goal](ctx, s, GoalsCollection)
	return d, categoriesExist
}

// saveDataset writes the listed collections of d, all of them when none is listed.
func saveDataset(ctx context.Context, s Store, d *Dataset, collections ...Collection) error {
	if len(collections) == 0 {
		collections = Collections
	}
	var errs error
	for _, c := range collections {
		var err error
		switch c {
		case AccountsCollection:
			err = saveCollection(ctx, s, c, d.Accounts)
		case TransactionsCollection:
			err = saveCollection(ctx, s, c, d.Transactions)
		case CategoriesCollection:
			err = saveCollection(ctx, s, c, d.Categories)
		case GoalsCollection:
			err = saveCollection(ctx, s, c, d.Goals)
		}
		errs = errors.Join(errs, err)
	}
	return errs
}
