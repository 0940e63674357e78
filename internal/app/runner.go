// Package app runs the bookshop operations against a database, opening and
// closing a connection pool per call.
package app

import (
	"context"

	"github.com/marshallshelly/pebble-bookshop/internal/database"
	"github.com/marshallshelly/pebble-bookshop/internal/fixture"
	"github.com/marshallshelly/pebble-bookshop/internal/sales"
	"github.com/marshallshelly/pebble-bookshop/pkg/builder"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
)

// DefaultFixturePath is where Load reads fixtures from unless told otherwise.
const DefaultFixturePath = "fixtures/tests_data.json"

// Operations are the actions the menus offer.
type Operations interface {
	Load(ctx context.Context) (*fixture.Result, error)
	Purchases(ctx context.Context, token string) (*sales.Report, error)
}

// Runner implements Operations. URL, when set, takes precedence over Config.
type Runner struct {
	Config      *runtime.Config
	URL         string
	FixturePath string
	// Logger, if set, sees every statement sent.
	Logger builder.QueryLogger
}

var _ Operations = (*Runner)(nil)

func (r *Runner) open(ctx context.Context) (*runtime.DB, error) {
	if r.URL != "" {
		return database.OpenURL(ctx, r.URL)
	}
	return database.Open(ctx, r.Config)
}

func (r *Runner) queries(db *runtime.DB) *builder.DB {
	b := builder.New(db)
	if r.Logger != nil {
		b.WithLogger(r.Logger)
	}
	return b
}

// Load replaces the database contents with the fixture document.
func (r *Runner) Load(ctx context.Context) (*fixture.Result, error) {
	path := r.FixturePath
	if path == "" {
		path = DefaultFixturePath
	}
	doc, err := fixture.ReadFile(path)
	if err != nil {
		return nil, err
	}

	db, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return fixture.NewLoader(r.queries(db)).Load(ctx, doc)
}

// Purchases builds the purchases report for a publisher name or id.
func (r *Runner) Purchases(ctx context.Context, token string) (*sales.Report, error) {
	db, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return sales.NewService(r.queries(db)).FindPurchases(ctx, token)
}
