package migration

import (
	"context"
	"fmt"

	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
)

// Execer runs a statement. *builder.DB and *builder.Tx both satisfy it;
// pass a transaction to make the reset part of a larger unit of work.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

// Resetter drops and recreates every table known to a registry.
type Resetter struct {
	registry *registry.Registry
	planner  *Planner
}

// NewResetter creates a Resetter over reg with the default planner.
func NewResetter(reg *registry.Registry) *Resetter {
	return &Resetter{registry: reg, planner: NewPlanner()}
}

// Statements returns the reset DDL without running it.
func (r *Resetter) Statements() ([]string, error) {
	tables, err := r.registry.Ordered()
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables registered")
	}
	return r.planner.ResetStatements(tables), nil
}

// Reset drops and recreates all registered tables. All existing rows are lost.
func (r *Resetter) Reset(ctx context.Context, exec Execer) error {
	statements, err := r.Statements()
	if err != nil {
		return fmt.Errorf("failed to plan reset: %w", err)
	}
	for _, stmt := range statements {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset schema: %w", err)
		}
	}
	return nil
}

// SyncSequences resyncs every serial primary key sequence to the table's
// current maximum.
func (r *Resetter) SyncSequences(ctx context.Context, exec Execer) error {
	tables, err := r.registry.Ordered()
	if err != nil {
		return err
	}
	for _, table := range tables {
		stmt := r.planner.SyncSequence(table)
		if stmt == "" {
			continue
		}
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to sync sequence for %s: %w", table.Name, err)
		}
	}
	return nil
}
