// Package moneymanager provides the data model and the bookkeeping rules of a
// personal money manager: accounts, transactions, categories and savings goals.
//
// The core functionalities include:
//   - Data Model: the four record collections and their validation rules.
//   - Book: the service that owns the collections, persists them in a [Store]
//     and keeps account balances and account-linked goals consistent when
//     transactions are added, edited, deleted or imported.
//   - Reconciliation: merging (or replacing with) imported collections and
//     recomputing the balance of every affected account.
//   - Aggregates: totals, net worth, category spend and goal progress.
//
// Parsing and serialization of import/export files live in the impexp
// package, storage backends in the store package and the command-line tool in
// the cmd package.
package moneymanager
