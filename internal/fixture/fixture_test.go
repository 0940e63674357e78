package fixture

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/pkg/builder"
	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	require.NoError(t, models.RegisterWith(reg))
	return reg
}

func table(t *testing.T, reg *registry.Registry, name string) *schema.TableMetadata {
	t.Helper()
	meta, err := reg.GetByName(name)
	require.NoError(t, err)
	return meta
}

func fields(t *testing.T, raw string) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(`[
		{"model": "publisher", "pk": 1, "fields": {"name": "Эксмо"}},
		{"model": "sale", "pk": 2, "fields": {"price": 450.5, "date_sale": "2024-11-26", "id_stock": 2, "count": null}}
	]`))
	require.NoError(t, err)
	require.Len(t, doc, 2)
	assert.Equal(t, "publisher", doc[0].Model)
	assert.EqualValues(t, 1, doc[0].PK)
	assert.JSONEq(t, `"Эксмо"`, string(doc[0].Fields["name"]))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"object instead of array", `{"model": "book"}`},
		{"unknown record key", `[{"model": "book", "pk": 1, "field": {}}]`},
		{"missing model", `[{"pk": 1, "fields": {}}]`},
		{"trailing data", `[] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadFile_SampleFixture(t *testing.T) {
	doc, err := ReadFile("../../fixtures/tests_data.json")
	require.NoError(t, err)
	assert.Len(t, doc, 36)

	counts := map[string]int{}
	for _, rec := range doc {
		counts[rec.Model]++
	}
	assert.Equal(t, map[string]int{"publisher": 4, "book": 16, "shop": 4, "stock": 6, "sale": 6}, counts)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile("does/not/exist.json")
	assert.ErrorContains(t, err, "failed to read fixture")
}

func TestDecodeRecord(t *testing.T) {
	reg := testRegistry(t)

	t.Run("sale with optional count", func(t *testing.T) {
		rec := Record{Model: "sale", PK: 6, Fields: fields(t,
			`{"price": 700, "date_sale": "2024-12-01", "id_stock": 6, "count": 5}`)}

		sale, err := decodeRecord[models.Sale](rec, table(t, reg, "sale"))
		require.NoError(t, err)
		assert.Equal(t, 6, sale.ID)
		assert.Equal(t, 700.0, sale.Price)
		assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), sale.DateSale)
		assert.Equal(t, 6, sale.StockID)
		require.NotNil(t, sale.Count)
		assert.Equal(t, 5, *sale.Count)
	})

	t.Run("sale without count", func(t *testing.T) {
		rec := Record{Model: "sale", PK: 1, Fields: fields(t,
			`{"price": 12.5, "date_sale": "2024-11-25", "id_stock": 1}`)}

		sale, err := decodeRecord[models.Sale](rec, table(t, reg, "sale"))
		require.NoError(t, err)
		assert.Nil(t, sale.Count)
		assert.Equal(t, 12.5, sale.Price)
	})

	t.Run("book", func(t *testing.T) {
		rec := Record{Model: "book", PK: 16, Fields: fields(t,
			`{"title": "Чистый код", "id_publisher": 3}`)}

		book, err := decodeRecord[models.Book](rec, table(t, reg, "book"))
		require.NoError(t, err)
		assert.Equal(t, models.Book{ID: 16, Title: "Чистый код", PublisherID: 3}, book)
	})
}

func TestDecodeRecord_Errors(t *testing.T) {
	reg := testRegistry(t)
	stock := table(t, reg, "stock")
	sale := table(t, reg, "sale")

	tests := []struct {
		name    string
		decode  func() error
		wantErr error
	}{
		{
			name: "unknown column",
			decode: func() error {
				_, err := decodeRecord[models.Stock](Record{PK: 1, Fields: fields(t,
					`{"id_book": 1, "id_shop": 1, "count": 1, "colour": "red"}`)}, stock)
				return err
			},
			wantErr: ErrUnknownField,
		},
		{
			name: "id repeated in fields",
			decode: func() error {
				_, err := decodeRecord[models.Stock](Record{PK: 1, Fields: fields(t,
					`{"id": 2, "id_book": 1, "id_shop": 1, "count": 1}`)}, stock)
				return err
			},
			wantErr: ErrUnknownField,
		},
		{
			name: "missing not null column",
			decode: func() error {
				_, err := decodeRecord[models.Stock](Record{PK: 1, Fields: fields(t,
					`{"id_book": 1, "count": 1}`)}, stock)
				return err
			},
			wantErr: ErrMissingField,
		},
		{
			name: "null for not null column",
			decode: func() error {
				_, err := decodeRecord[models.Stock](Record{PK: 1, Fields: fields(t,
					`{"id_book": 1, "id_shop": null, "count": 1}`)}, stock)
				return err
			},
			wantErr: ErrMissingField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.decode(), tt.wantErr)
		})
	}

	t.Run("bad date", func(t *testing.T) {
		_, err := decodeRecord[models.Sale](Record{PK: 1, Fields: fields(t,
			`{"price": 1, "date_sale": "01-12-2024", "id_stock": 1}`)}, sale)
		assert.ErrorContains(t, err, "invalid date")
	})

	t.Run("wrong value type", func(t *testing.T) {
		_, err := decodeRecord[models.Stock](Record{PK: 1, Fields: fields(t,
			`{"id_book": "one", "id_shop": 1, "count": 1}`)}, stock)
		assert.ErrorContains(t, err, "field id_book")
	})
}

func TestLoaderPlan_ParentsFirst(t *testing.T) {
	reg := testRegistry(t)
	loader := NewLoader(builder.New(nil)).WithRegistry(reg)

	doc, err := ReadFile("../../fixtures/tests_data.json")
	require.NoError(t, err)

	items, err := loader.plan(doc)
	require.NoError(t, err)
	require.Len(t, items, len(doc))

	rank := map[models.Kind]int{}
	for i, kind := range []models.Kind{models.KindPublisher, models.KindBook, models.KindShop, models.KindStock, models.KindSale} {
		rank[kind] = i
	}
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, rank[items[i-1].kind], rank[items[i].kind], "item %d", i)
	}

	// Within a kind the document order is kept: book 16 sits between 10 and 11.
	var books []int64
	for _, item := range items {
		if item.kind == models.KindBook {
			books = append(books, item.rec.PK)
		}
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 16, 11, 12, 13, 14, 15}, books)
}

func TestLoader_UnknownModel(t *testing.T) {
	reg := testRegistry(t)
	loader := NewLoader(builder.New(nil)).WithRegistry(reg)

	doc := Document{
		{Model: "publisher", PK: 1, Fields: fields(t, `{"name": "A"}`)},
		{Model: "author", PK: 1, Fields: fields(t, `{"name": "B"}`)},
	}
	_, err := loader.Load(context.Background(), doc)
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestLoader_NoConnection(t *testing.T) {
	reg := testRegistry(t)
	loader := NewLoader(builder.New(nil)).WithRegistry(reg)

	_, err := loader.Load(context.Background(), Document{})
	assert.ErrorIs(t, err, runtime.ErrNoConnection)
}

func TestLoader_WithRegistryKeepsCallerDB(t *testing.T) {
	type scratchpad struct {
		ID int `po:"id,primaryKey,serial"`
	}

	reg := testRegistry(t)
	db := builder.New(nil)
	loader := NewLoader(db).WithRegistry(reg)
	assert.NotSame(t, db, loader.db)

	_, _, err := builder.Select[scratchpad](db).ToSQL()
	require.NoError(t, err)
	assert.False(t, reg.Has(reflect.TypeFor[scratchpad]()))

	_, _, err = builder.Select[scratchpad](loader.db).ToSQL()
	require.NoError(t, err)
	assert.True(t, reg.Has(reflect.TypeFor[scratchpad]()))
}

func TestInsertersCoverEveryKind(t *testing.T) {
	for _, kind := range models.Kinds() {
		assert.Contains(t, inserters, kind)
	}
	assert.Len(t, inserters, len(models.Kinds()))
}
