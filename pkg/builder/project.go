package builder

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
)

// Row structs used only as query results are parsed here rather than in the
// registry, so they never turn into tables.
var projections = struct {
	sync.Mutex
	parser *schema.Parser
}{parser: schema.NewParser()}

func projectionMetadata(t reflect.Type) (*schema.TableMetadata, error) {
	projections.Lock()
	defer projections.Unlock()
	return projections.parser.Parse(t)
}

// Into runs q and scans each row into R instead of the model type. R is a
// plain struct whose po tags name the result columns, which is how joins
// across several tables are read back:
//
//	rows, err := builder.Into[PurchaseRow](ctx, builder.Select[Book](db).
//		Columns("book.title AS title", "shop.name AS shop_name").
//		InnerJoin("stock", "stock.id_book = book.id"))
func Into[R, T any](ctx context.Context, q *SelectQuery[T]) ([]R, error) {
	meta, err := projectionMetadata(reflect.TypeFor[R]())
	if err != nil {
		return nil, fmt.Errorf("invalid projection: %w", err)
	}

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.session.query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []R
	for rows.Next() {
		var item R
		if err := scanIntoStruct(rows, &item, meta); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, runtime.WrapQueryError(sql, err)
	}
	return results, nil
}
