// Package book reads and writes a GnuCash-format ledger over SQL.
// A Book is a short-lived session scoped to one handler invocation;
// the underlying pool is shared via Opener.
package book

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrAccountNotFound marks lookups for a guid absent from the book.
	ErrAccountNotFound = errors.New("account not found")
	// ErrReadOnly is returned by mutating operations on a read-only book.
	ErrReadOnly = errors.New("book is read-only")
	// ErrNotPostable is returned when a transfer names a placeholder or root account.
	ErrNotPostable = errors.New("account does not accept postings")
	// ErrPrecision is returned when an amount cannot be represented in the
	// account commodity's smallest unit.
	ErrPrecision = errors.New("amount exceeds commodity precision")
)

// Opener hands out book sessions over a shared connection pool.
type Opener struct {
	db       *sqlx.DB
	readOnly bool
}

// NewOpener wraps an established pool. When readOnly is set, writable
// sessions are refused.
func NewOpener(db *sqlx.DB, readOnly bool) *Opener {
	return &Opener{db: db, readOnly: readOnly}
}

// Open returns a read-only book session.
func (o *Opener) Open() *Book {
	return &Book{db: o.db, writable: false}
}

// OpenWritable returns a session that may commit transactions.
func (o *Opener) OpenWritable() (*Book, error) {
	if o.readOnly {
		return nil, ErrReadOnly
	}
	return &Book{db: o.db, writable: true}, nil
}

// Book is a single ledger session.
type Book struct {
	db       *sqlx.DB
	writable bool
}
