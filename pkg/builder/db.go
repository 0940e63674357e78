package builder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
)

// Session is something queries can run against: a *DB or a *Tx.
type Session interface {
	exec(ctx context.Context, sql string, args ...any) (int64, error)
	query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	registry() *registry.Registry
}

// QueryLogger receives every statement before it is sent.
type QueryLogger func(sql string, args []any)

// DB wraps runtime.DB and provides query builder methods.
type DB struct {
	db     *runtime.DB
	reg    *registry.Registry
	logger QueryLogger
}

// New creates a new query builder DB from a runtime DB.
// A nil runtime DB is allowed for SQL generation.
func New(db *runtime.DB) *DB {
	return &DB{db: db, reg: registry.Default()}
}

// WithRegistry uses r instead of the global registry for model lookups.
func (d *DB) WithRegistry(r *registry.Registry) *DB {
	d.reg = r
	return d
}

// WithLogger installs a statement logger.
func (d *DB) WithLogger(logger QueryLogger) *DB {
	d.logger = logger
	return d
}

// Exec runs a raw statement.
func (d *DB) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return d.exec(ctx, sql, args...)
}

func (d *DB) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	d.log(sql, args)
	return d.db.Exec(ctx, sql, args...)
}

func (d *DB) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.log(sql, args)
	return d.db.Query(ctx, sql, args...)
}

func (d *DB) registry() *registry.Registry {
	return d.reg
}

func (d *DB) log(sql string, args []any) {
	if d.logger != nil {
		d.logger(sql, args)
	}
}

// Select creates a new type-safe SELECT query.
// Usage: builder.Select[Book](db).Where(builder.Eq("id", 1)).All(ctx)
func Select[T any](s Session) *SelectQuery[T] {
	table, err := tableFor[T](s)

	return &SelectQuery[T]{
		session: s,
		table:   table,
		err:     err,
		columns: []string{"*"},
	}
}

// Insert creates a new type-safe INSERT query.
// Usage: builder.Insert[Book](tx).Values(book).Exec(ctx)
func Insert[T any](s Session) *InsertQuery[T] {
	table, err := tableFor[T](s)

	return &InsertQuery[T]{
		session: s,
		table:   table,
		err:     err,
	}
}

func tableFor[T any](s Session) (*schema.TableMetadata, error) {
	var model T
	table, err := s.registry().GetOrRegister(model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", runtime.ErrInvalidModel, err)
	}
	return table, nil
}
