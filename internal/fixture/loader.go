package fixture

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/pkg/builder"
	"github.com/marshallshelly/pebble-bookshop/pkg/migration"
	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
)

// ErrUnknownModel is returned for a record whose model label is not one of
// the schema's kinds.
var ErrUnknownModel = models.ErrUnknownKind

type insertFunc func(ctx context.Context, tx *builder.Tx, table *schema.TableMetadata, rec Record) error

// inserters is the closed set of insert routines, one per kind.
var inserters = map[models.Kind]insertFunc{
	models.KindPublisher: insertRecord[models.Publisher],
	models.KindBook:      insertRecord[models.Book],
	models.KindShop:      insertRecord[models.Shop],
	models.KindStock:     insertRecord[models.Stock],
	models.KindSale:      insertRecord[models.Sale],
}

func insertRecord[T any](ctx context.Context, tx *builder.Tx, table *schema.TableMetadata, rec Record) error {
	row, err := decodeRecord[T](rec, table)
	if err != nil {
		return err
	}
	_, err = builder.Insert[T](tx).Values(row).Exec(ctx)
	return err
}

// Result reports how many rows of each kind were loaded.
type Result struct {
	Counts map[models.Kind]int
	Total  int
}

// Loader resets the schema and loads fixture documents.
type Loader struct {
	db       *builder.DB
	registry *registry.Registry
	resetter *migration.Resetter
}

// NewLoader creates a Loader writing through db. The models must already be
// registered with the registry db uses.
func NewLoader(db *builder.DB) *Loader {
	reg := registry.Default()
	return &Loader{
		db:       db,
		registry: reg,
		resetter: migration.NewResetter(reg),
	}
}

// WithRegistry makes the loader plan the reset and inserts from reg. The
// loader switches to a copy of its DB; the caller's DB is left as it was.
func (l *Loader) WithRegistry(reg *registry.Registry) *Loader {
	db := *l.db
	l.db = db.WithRegistry(reg)
	l.registry = reg
	l.resetter = migration.NewResetter(reg)
	return l
}

type pending struct {
	index int
	kind  models.Kind
	table *schema.TableMetadata
	rec   Record
}

// plan resolves every record's kind and table, then orders the records so
// parent tables are filled before the tables that reference them. Records of
// the same kind keep their document order.
func (l *Loader) plan(doc Document) ([]pending, error) {
	rank, err := l.registry.Rank()
	if err != nil {
		return nil, err
	}

	items := make([]pending, 0, len(doc))
	for i, rec := range doc {
		kind, err := models.ParseKind(rec.Model)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		table, err := l.registry.GetByName(kind.String())
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, pending{index: i, kind: kind, table: table, rec: rec})
	}

	slices.SortStableFunc(items, func(a, b pending) int {
		return cmp.Compare(rank[a.table.Name], rank[b.table.Name])
	})
	return items, nil
}

// Load drops and recreates every table, inserts doc and resyncs the key
// sequences, all in one transaction. Any failure rolls the whole load back,
// leaving the previous contents in place.
func (l *Loader) Load(ctx context.Context, doc Document) (*Result, error) {
	items, err := l.plan(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{Counts: make(map[models.Kind]int)}
	err = l.db.InTx(ctx, func(tx *builder.Tx) error {
		if err := l.resetter.Reset(ctx, tx); err != nil {
			return err
		}
		for _, item := range items {
			if err := inserters[item.kind](ctx, tx, item.table, item.rec); err != nil {
				return fmt.Errorf("record %d (%s pk %d): %w", item.index, item.kind, item.rec.PK, err)
			}
			result.Counts[item.kind]++
			result.Total++
		}
		return l.resetter.SyncSequences(ctx, tx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}
	return result, nil
}
