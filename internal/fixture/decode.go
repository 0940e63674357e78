package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
)

var (
	// ErrUnknownField is returned for a field that names no column.
	ErrUnknownField = errors.New("unknown field")

	// ErrMissingField is returned when a NOT NULL column has no value.
	ErrMissingField = errors.New("missing field")
)

var timeType = reflect.TypeFor[time.Time]()

// Accepted layouts for date and timestamp columns.
var timeLayouts = []string{time.DateOnly, time.RFC3339Nano, "2006-01-02 15:04:05"}

// decodeRecord builds a T from rec using the column metadata in table.
func decodeRecord[T any](rec Record, table *schema.TableMetadata) (T, error) {
	var model T
	value := reflect.ValueOf(&model).Elem()

	if table.PrimaryKey == nil || len(table.PrimaryKey.Columns) != 1 {
		return model, fmt.Errorf("table %s has no single-column primary key", table.Name)
	}
	pkName := table.PrimaryKey.Columns[0]
	pkCol, _ := table.Column(pkName)
	if err := setInt(value.FieldByName(pkCol.GoField), rec.PK); err != nil {
		return model, fmt.Errorf("pk: %w", err)
	}

	seen := make(map[string]bool, len(rec.Fields))
	for name, raw := range rec.Fields {
		col, ok := table.Column(name)
		if !ok || table.IsPrimaryKey(name) {
			return model, fmt.Errorf("%w %q for %s", ErrUnknownField, name, table.Name)
		}
		isNull := bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
		if isNull && !col.Nullable {
			return model, fmt.Errorf("%w: %s.%s is null", ErrMissingField, table.Name, name)
		}
		if err := decodeField(value.FieldByName(col.GoField), raw, isNull); err != nil {
			return model, fmt.Errorf("field %s: %w", name, err)
		}
		seen[name] = true
	}

	var missing []string
	for _, col := range table.Columns {
		if table.IsPrimaryKey(col.Name) || col.Nullable || col.Default != nil || seen[col.Name] {
			continue
		}
		missing = append(missing, col.Name)
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return model, fmt.Errorf("%w: %s needs %v", ErrMissingField, table.Name, missing)
	}

	return model, nil
}

func decodeField(field reflect.Value, raw json.RawMessage, isNull bool) error {
	if isNull {
		field.SetZero()
		return nil
	}

	target := field
	if field.Kind() == reflect.Pointer {
		target = reflect.New(field.Type().Elem()).Elem()
	}

	if target.Type() == timeType {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("want a date string: %w", err)
		}
		t, err := parseTime(s)
		if err != nil {
			return err
		}
		target.Set(reflect.ValueOf(t))
	} else if err := json.Unmarshal(raw, target.Addr().Interface()); err != nil {
		return err
	}

	if field.Kind() == reflect.Pointer {
		field.Set(target.Addr())
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

func setInt(field reflect.Value, v int64) error {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.OverflowInt(v) {
			return fmt.Errorf("%d overflows %s", v, field.Type())
		}
		field.SetInt(v)
		return nil
	}
	return fmt.Errorf("unsupported key type %s", field.Type())
}
