package migration

import (
	"strings"
	"testing"

	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
)

func authorsTable() *schema.TableMetadata {
	return &schema.TableMetadata{
		Name: "author",
		Columns: []schema.ColumnMetadata{
			{Name: "id", SQLType: "serial", Nullable: false, AutoIncrement: true},
			{Name: "email", SQLType: "varchar(255)", Nullable: false, Unique: true},
			{Name: "name", SQLType: "varchar(100)", Nullable: true},
		},
		PrimaryKey: &schema.PrimaryKeyMetadata{
			Name:    "author_pkey",
			Columns: []string{"id"},
		},
	}
}

func postsTable() *schema.TableMetadata {
	return &schema.TableMetadata{
		Name: "post",
		Columns: []schema.ColumnMetadata{
			{Name: "id", SQLType: "serial", Nullable: false, AutoIncrement: true},
			{Name: "id_author", SQLType: "integer", Nullable: false},
			{Name: "views", SQLType: "integer", Nullable: false},
		},
		PrimaryKey: &schema.PrimaryKeyMetadata{
			Name:    "post_pkey",
			Columns: []string{"id"},
		},
		ForeignKeys: []schema.ForeignKeyMetadata{
			{
				Name:              "fk_post_id_author_author",
				Columns:           []string{"id_author"},
				ReferencedTable:   "author",
				ReferencedColumns: []string{"id"},
				OnDelete:          schema.Cascade,
			},
		},
		Constraints: []schema.ConstraintMetadata{
			{Name: "post_views_check", Type: schema.CheckConstraint, Columns: []string{"views"}, Expression: "(views >= 0)"},
		},
	}
}

func TestCreateTable(t *testing.T) {
	planner := NewPlanner()
	sql := planner.CreateTable(authorsTable())

	if !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS author") {
		t.Errorf("Expected CREATE TABLE IF NOT EXISTS author, got: %s", sql)
	}
	if !strings.Contains(sql, "id serial NOT NULL PRIMARY KEY") {
		t.Errorf("Expected inline PRIMARY KEY after id column, got: %s", sql)
	}
	if !strings.Contains(sql, "email varchar(255) NOT NULL UNIQUE") {
		t.Errorf("Expected email column definition, got: %s", sql)
	}
	if strings.Contains(sql, "name varchar(100) NOT NULL") {
		t.Errorf("Expected nullable name column, got: %s", sql)
	}
}

func TestCreateTableWithForeignKeysAndChecks(t *testing.T) {
	planner := NewPlanner()
	sql := planner.CreateTable(postsTable())

	want := "CREATE TABLE IF NOT EXISTS post (\n" +
		"    id serial NOT NULL PRIMARY KEY,\n" +
		"    id_author integer NOT NULL,\n" +
		"    views integer NOT NULL,\n" +
		"    CONSTRAINT fk_post_id_author_author FOREIGN KEY (id_author) REFERENCES author (id) ON DELETE CASCADE,\n" +
		"    CONSTRAINT post_views_check CHECK (views >= 0)\n" +
		");"
	if sql != want {
		t.Errorf("CreateTable() =\n%s\nwant\n%s", sql, want)
	}
}

func TestCreateTableCompositeKey(t *testing.T) {
	planner := NewPlannerWithOptions(PlannerOptions{})
	table := &schema.TableMetadata{
		Name: "tagging",
		Columns: []schema.ColumnMetadata{
			{Name: "id_post", SQLType: "integer"},
			{Name: "tag", SQLType: "text"},
		},
		PrimaryKey: &schema.PrimaryKeyMetadata{Name: "tagging_pkey", Columns: []string{"id_post", "tag"}},
	}

	sql := planner.CreateTable(table)
	if !strings.HasPrefix(sql, "CREATE TABLE tagging (") {
		t.Errorf("Expected plain CREATE TABLE, got: %s", sql)
	}
	if !strings.Contains(sql, "CONSTRAINT tagging_pkey PRIMARY KEY (id_post, tag)") {
		t.Errorf("Expected composite key constraint, got: %s", sql)
	}
	if strings.Contains(sql, " PRIMARY KEY,") {
		t.Errorf("Composite key must not be declared inline, got: %s", sql)
	}
}

func TestDropTable(t *testing.T) {
	if got := NewPlanner().DropTable("sale"); got != `DROP TABLE IF EXISTS "sale" CASCADE;` {
		t.Errorf("DropTable() = %s", got)
	}
	if got := NewPlannerWithOptions(PlannerOptions{}).DropTable("sale"); got != `DROP TABLE IF EXISTS "sale";` {
		t.Errorf("DropTable() without cascade = %s", got)
	}
}

func TestResetStatementsOrder(t *testing.T) {
	statements := NewPlanner().ResetStatements([]*schema.TableMetadata{authorsTable(), postsTable()})

	if len(statements) != 4 {
		t.Fatalf("Expected 4 statements, got %d", len(statements))
	}
	if !strings.Contains(statements[0], `"post"`) || !strings.Contains(statements[1], `"author"`) {
		t.Errorf("Expected children dropped first, got: %v", statements[:2])
	}
	if !strings.Contains(statements[2], "author (") || !strings.Contains(statements[3], "post (") {
		t.Errorf("Expected parents created first, got: %v", statements[2:])
	}
}

func TestSyncSequence(t *testing.T) {
	planner := NewPlanner()

	got := planner.SyncSequence(authorsTable())
	want := `SELECT setval(pg_get_serial_sequence('author', 'id'), COALESCE(MAX("id"), 1), MAX("id") IS NOT NULL) FROM "author";`
	if got != want {
		t.Errorf("SyncSequence() = %s, want %s", got, want)
	}

	manual := authorsTable()
	manual.Columns[0].AutoIncrement = false
	if got := planner.SyncSequence(manual); got != "" {
		t.Errorf("Expected no statement without a serial key, got: %s", got)
	}
}

func TestQuoting(t *testing.T) {
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("quoteIdent() = %s", got)
	}
	if got := quoteLiteral("o'neil"); got != "'o''neil'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
}
