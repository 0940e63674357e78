package schema

import (
	"reflect"
	"testing"
	"time"
)

type TestOwner struct {
	ID   int    `po:"id,primaryKey,serial"`
	Name string `po:"name,text,notNull"`
}

type TestItem struct {
	ID       int       `po:"id,primaryKey,serial"`
	OwnerID  int       `po:"id_owner,integer,notNull,references(test_owner.id),onDelete(cascade)"`
	Quantity int       `po:"quantity,integer,notNull,check(quantity >= 0)"`
	Price    float64   `po:"price,numeric(10,2),notNull"`
	SoldOn   time.Time `po:"sold_on,date,notNull"`
	Note     *string   `po:"note,text"`
	Batch    *int      `po:"batch,integer"`
	internal int
	Ignored  string `po:"-"`
	Untagged string
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	t.Run("basic struct parsing", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(TestOwner{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		if table.Name != "test_owner" {
			t.Errorf("expected table name 'test_owner', got '%s'", table.Name)
		}
		if len(table.Columns) != 2 {
			t.Errorf("expected 2 columns, got %d", len(table.Columns))
		}
		if table.PrimaryKey == nil {
			t.Fatal("expected primary key to be set")
		}
		if table.PrimaryKey.Name != "test_owner_pkey" || table.PrimaryKey.Columns[0] != "id" {
			t.Errorf("unexpected primary key %+v", table.PrimaryKey)
		}
	})

	t.Run("column metadata", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(&TestItem{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		if got := table.ColumnNames(); !reflect.DeepEqual(got, []string{"id", "id_owner", "quantity", "price", "sold_on", "note", "batch"}) {
			t.Errorf("unexpected columns %v", got)
		}

		id, _ := table.Column("id")
		if id.SQLType != "serial" || !id.AutoIncrement || id.Nullable {
			t.Errorf("unexpected id column %+v", id)
		}

		price, _ := table.Column("price")
		if price.SQLType != "numeric(10,2)" || price.Nullable {
			t.Errorf("unexpected price column %+v", price)
		}

		soldOn, _ := table.Column("sold_on")
		if soldOn.SQLType != "date" {
			t.Errorf("expected date, got %s", soldOn.SQLType)
		}

		note, _ := table.Column("note")
		if !note.Nullable || note.SQLType != "text" {
			t.Errorf("expected nullable text note, got %+v", note)
		}

		batch, _ := table.Column("batch")
		if !batch.Nullable || batch.SQLType != "integer" {
			t.Errorf("expected nullable integer batch, got %+v", batch)
		}

		if _, ok := table.Column("Untagged"); ok {
			t.Error("untagged field should not become a column")
		}
	})

	t.Run("foreign keys", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(TestItem{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		if len(table.ForeignKeys) != 1 {
			t.Fatalf("expected 1 foreign key, got %d", len(table.ForeignKeys))
		}
		fk := table.ForeignKeys[0]
		if fk.Name != "fk_test_item_id_owner_test_owner" {
			t.Errorf("unexpected fk name %s", fk.Name)
		}
		if fk.ReferencedTable != "test_owner" || fk.ReferencedColumns[0] != "id" {
			t.Errorf("unexpected reference %s(%v)", fk.ReferencedTable, fk.ReferencedColumns)
		}
		if fk.OnDelete != Cascade || fk.OnUpdate != NoAction {
			t.Errorf("unexpected actions %s/%s", fk.OnDelete, fk.OnUpdate)
		}
		if refs := table.ReferencedTables(); !reflect.DeepEqual(refs, []string{"test_owner"}) {
			t.Errorf("unexpected referenced tables %v", refs)
		}
	})

	t.Run("check constraints", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(TestItem{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		if len(table.Constraints) != 1 {
			t.Fatalf("expected 1 constraint, got %d", len(table.Constraints))
		}
		c := table.Constraints[0]
		if c.Type != CheckConstraint || c.Name != "test_item_quantity_check" || c.Expression != "(quantity >= 0)" {
			t.Errorf("unexpected constraint %+v", c)
		}
	})

	t.Run("cached result", func(t *testing.T) {
		first, _ := parser.Parse(reflect.TypeOf(TestOwner{}))
		second, _ := parser.Parse(reflect.TypeOf(TestOwner{}))
		if first != second {
			t.Error("expected cached metadata to be reused")
		}
	})
}

func TestParser_ParseErrors(t *testing.T) {
	parser := NewParser()

	type badReference struct {
		ID int `po:"id,primaryKey,serial,references(nowhere)"`
	}
	type noColumns struct {
		Name string
	}
	type unmappable struct {
		Data map[string]int `po:"data"`
	}

	tests := []struct {
		name  string
		model reflect.Type
	}{
		{"not a struct", reflect.TypeOf(42)},
		{"bad reference", reflect.TypeOf(badReference{})},
		{"no tagged fields", reflect.TypeOf(noColumns{})},
		{"unmappable type", reflect.TypeOf(unmappable{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(tt.model); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	p := NewParser()

	opts, err := p.parseTag("price,numeric(10,2),notNull,check(price > 0)")
	if err != nil {
		t.Fatalf("parseTag failed: %v", err)
	}
	if opts.Name != "price" {
		t.Errorf("expected name price, got %s", opts.Name)
	}
	if opts.Get("numeric") != "10,2" {
		t.Errorf("expected numeric(10,2), got %q", opts.Get("numeric"))
	}
	if !opts.Has("notNull") {
		t.Error("expected notNull option")
	}
	if opts.Get("check") != "price > 0" {
		t.Errorf("unexpected check %q", opts.Get("check"))
	}
	if opts.GetSQLType() != "numeric(10,2)" {
		t.Errorf("unexpected sql type %q", opts.GetSQLType())
	}

	if _, err := p.parseTag("broken,numeric(10"); err == nil {
		t.Error("expected error for unbalanced option")
	}
	if _, err := p.parseTag(""); err == nil {
		t.Error("expected error for empty tag")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Publisher":     "publisher",
		"Sale":          "sale",
		"PurchaseRow":   "purchase_row",
		"StockLevelLog": "stock_level_log",
	}
	for in, want := range tests {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
