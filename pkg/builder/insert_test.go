package builder

import (
	"reflect"
	"testing"
	"time"

	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reflectTypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func TestInsertQuery_ToSQL(t *testing.T) {
	require.NoError(t, registry.Register(TestCustomer{}))
	require.NoError(t, registry.Register(TestOrder{}))

	db := New(nil)
	tier := 2
	day := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		query   Query
		wantSQL string
		wantLen int
		wantErr bool
	}{
		{
			name:    "explicit primary key is kept",
			query:   Insert[TestCustomer](db).Values(TestCustomer{ID: 5, Name: "Ann", Tier: &tier}),
			wantSQL: "INSERT INTO test_customer (id, name, tier) VALUES ($1, $2, $3)",
			wantLen: 3,
		},
		{
			name:    "zero serial key is left to the sequence",
			query:   Insert[TestCustomer](db).Values(TestCustomer{Name: "Ann"}),
			wantSQL: "INSERT INTO test_customer (name, tier) VALUES ($1, $2)",
			wantLen: 2,
		},
		{
			name: "multiple rows",
			query: Insert[TestOrder](db).Values(
				TestOrder{ID: 1, CustomerID: 5, Total: 10, PlacedOn: day},
				TestOrder{ID: 2, CustomerID: 5, Total: 20.5, PlacedOn: day},
			),
			wantSQL: "INSERT INTO test_order (id, id_customer, total, placed_on) VALUES ($1, $2, $3, $4), ($5, $6, $7, $8)",
			wantLen: 8,
		},
		{
			name:    "returning",
			query:   Insert[TestCustomer](db).Values(TestCustomer{Name: "Ann"}).Returning("id"),
			wantSQL: "INSERT INTO test_customer (name, tier) VALUES ($1, $2) RETURNING id",
			wantLen: 2,
		},
		{
			name:    "no values",
			query:   Insert[TestCustomer](db),
			wantErr: true,
		},
		{
			name:    "mixed explicit and generated keys",
			query:   Insert[TestCustomer](db).Values(TestCustomer{ID: 1, Name: "A"}, TestCustomer{Name: "B"}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.query.ToSQL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Len(t, args, tt.wantLen)
		})
	}
}

func TestStructToValues_NilPointerIsNull(t *testing.T) {
	require.NoError(t, registry.Register(TestCustomer{}))
	table, err := registry.GetByName("test_customer")
	require.NoError(t, err)

	cols, vals, err := structToValues(&TestCustomer{ID: 3, Name: "Cy"}, table)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "tier"}, cols)
	assert.Nil(t, vals[2])

	_, _, err = structToValues(42, table)
	assert.Error(t, err)
}
