package moneymanager

import "errors"

var (
	// ErrValidation is the root of user facing validation errors: malformed
	// input files, invalid records, empty imports.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a record identifier does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAccountInUse is returned when deleting an account still referenced by transactions.
	ErrAccountInUse = errors.New("account has transactions")
)
