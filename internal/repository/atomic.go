package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type atomicRunner struct {
	db *sqlx.DB
}

func NewAtomicRunner(db *sqlx.DB) AtomicRunner {
	return &atomicRunner{db: db}
}

func (a *atomicRunner) RunAtomic(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
