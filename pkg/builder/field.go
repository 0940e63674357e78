package builder

import (
	"reflect"

	"github.com/marshallshelly/pebble-bookshop/pkg/registry"
)

// Col returns the table-qualified column ("table.column") for a Go field of
// model T, so join conditions and filters are written against struct fields
// instead of hand-typed column names.
//
//	builder.Eq(builder.Col[Book]("PublisherID"), 3) // book.id_publisher = $1
//
// Unknown fields are returned unchanged, which surfaces as a SQL error.
func Col[T any](goFieldName string) string {
	var zero T
	table, err := registry.GetOrRegister(zero)
	if err != nil {
		return goFieldName
	}

	field, ok := reflect.TypeFor[T]().FieldByName(goFieldName)
	if !ok {
		return goFieldName
	}
	for _, col := range table.Columns {
		if col.GoField == field.Name {
			return table.Name + "." + col.Name
		}
	}
	return goFieldName
}

// Table returns the table name registered for model T.
func Table[T any]() string {
	var zero T
	table, err := registry.GetOrRegister(zero)
	if err != nil {
		return ""
	}
	return table.Name
}
