// Package repository implements the entity store over sqlx. Queries are
// composed with the ent sql builder so the same code runs against PostgreSQL
// in production and SQLite in tests.
package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// Store bundles the per-entity stores over one database handle so that a
// check-then-act sequence can run inside a single transaction.
type Store struct {
	db *sqlx.DB

	Users    *UserStore
	Statuses *StatusStore
	Labels   *LabelStore
	Tasks    *TaskStore
}

func New(db *sqlx.DB) *Store {
	return newStore(db, db, db.DriverName())
}

func newStore(db *sqlx.DB, q sqlx.ExtContext, dialect string) *Store {
	return &Store{
		db:       db,
		Users:    &UserStore{q: q, dialect: dialect},
		Statuses: &StatusStore{q: q, dialect: dialect},
		Labels:   &LabelStore{q: q, dialect: dialect},
		Tasks:    &TaskStore{q: q, dialect: dialect},
	}
}

// WithTx runs fn against a Store bound to a single transaction. Guard checks
// and the destructive action they gate must go through here so both observe
// one consistent snapshot; a racing writer is additionally caught by the
// schema's RESTRICT foreign keys.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newStore(s.db, tx, s.db.DriverName())); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

// insertID executes an insert and returns the generated id. PostgreSQL needs
// RETURNING; SQLite reports the id on the result.
func insertID(ctx context.Context, q sqlx.ExtContext, d string, b *sql.InsertBuilder) (int64, error) {
	if d == dialect.Postgres {
		query, args := b.Returning("id").Query()
		var id int64
		if err := sqlx.GetContext(ctx, q, &id, query, args...); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args := b.Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
