// Package catalog is the durable store for menu items, ingredients, recipe lines,
// the sales ledger and customer feedback. Every other package reaches the database
// through a *Store, which may be bound to the root connection or to a transaction.
package catalog

import (
	"context"
	"database/sql"

	"dinesight-backend/internal/apperr"

	"gorm.io/gorm"
)

type Store struct {
	db   *gorm.DB
	inTx bool
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for read-only reporting queries.
func (s *Store) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// InTx reports whether the store is bound to an open transaction.
func (s *Store) InTx() bool {
	return s.inTx
}

// Transaction runs fn against a transaction-bound Store and commits only if fn
// returns nil. Errors returned by fn are passed through untouched; begin and
// commit failures are reported as StorageError. Calling Transaction on a store
// that is already in a transaction nests through a savepoint.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	var opts []*sql.TxOptions
	if !s.inTx && s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&Store{db: tx, inTx: true})
		return fnErr
	}, opts...)
	if err != nil && fnErr == nil {
		return apperr.Storage("commit", err)
	}
	return err
}
