// Package repokit holds the seams and helpers the quota and usage repos share
package repokit

import "astrochat/internal/platform/store"

// Queryer is the read and write surface a SQL repo is bound to
type Queryer = store.RowQuerier

// TxRunner is a Queryer that can also open a transaction
type TxRunner = store.TxRunner

// Row is a single scanned row
type Row = store.Row

// Binder binds a domain repo to a dialect specific Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds q; a nil q is a wiring bug and panics
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}
