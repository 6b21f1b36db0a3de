package store

import "context"

// Stores groups the repositories a unit of work may touch.
type Stores struct {
	Books BookStore
	Users UserStore
	Loans LoanStore
}

// TxFunc runs inside a unit of work. The stores it receives are bound to
// that unit of work and must not be retained after it returns.
type TxFunc func(ctx context.Context, stores Stores) error

// Transactor executes multi-store operations atomically. Changes made by fn
// are committed if it returns nil and discarded otherwise, and no other unit
// of work observes them half-applied.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
