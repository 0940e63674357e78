package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
)

// Tx wraps a pgx transaction and provides query builder methods.
type Tx struct {
	tx  pgx.Tx
	ctx context.Context
	db  *DB
}

// Begin starts a new transaction.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, ctx: ctx, db: d}, nil
}

// InTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (d *DB) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(t.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back a transaction that was
// already committed or rolled back is a no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(t.ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Exec runs a raw statement inside the transaction.
func (t *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return t.exec(ctx, sql, args...)
}

func (t *Tx) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	t.db.log(sql, args)
	tag, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, runtime.WrapQueryError(sql, err)
	}
	return tag.RowsAffected(), nil
}

func (t *Tx) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.db.log(sql, args)
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, runtime.WrapQueryError(sql, err)
	}
	return rows, nil
}

func (t *Tx) registry() *registry.Registry {
	return t.db.reg
}
