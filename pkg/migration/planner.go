// Package migration turns registered table metadata into PostgreSQL DDL and
// applies a full schema reset: every table dropped and created again in
// foreign-key order.
package migration

import (
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-bookshop/pkg/schema"
)

// quoteIdent quotes a PostgreSQL identifier (table name, column name, etc.)
// to handle reserved keywords and special characters.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// PlannerOptions configures DDL generation.
type PlannerOptions struct {
	// IfNotExists adds IF NOT EXISTS to CREATE TABLE statements.
	IfNotExists bool
	// Cascade adds CASCADE to DROP TABLE statements so objects outside the
	// registry that depend on a table do not block the reset.
	Cascade bool
}

// Planner generates SQL statements from table metadata.
type Planner struct {
	options PlannerOptions
}

// NewPlanner creates a planner with default options.
func NewPlanner() *Planner {
	return &Planner{
		options: PlannerOptions{
			IfNotExists: true,
			Cascade:     true,
		},
	}
}

// NewPlannerWithOptions creates a planner with custom options.
func NewPlannerWithOptions(opts PlannerOptions) *Planner {
	return &Planner{options: opts}
}

// ResetStatements returns the statements that drop and recreate tables.
// tables must be in dependency order (parents first), as returned by
// registry.Ordered: drops run children first, creates run parents first.
func (p *Planner) ResetStatements(tables []*schema.TableMetadata) []string {
	statements := make([]string, 0, 2*len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		statements = append(statements, p.DropTable(tables[i].Name))
	}
	for _, table := range tables {
		statements = append(statements, p.CreateTable(table))
	}
	return statements
}

// ResetScript joins ResetStatements into a single script.
func (p *Planner) ResetScript(tables []*schema.TableMetadata) string {
	return strings.Join(p.ResetStatements(tables), "\n\n") + "\n"
}

// CreateTable generates a CREATE TABLE statement.
func (p *Planner) CreateTable(table *schema.TableMetadata) string {
	var parts []string

	var singlePKColumn string
	if table.PrimaryKey != nil && len(table.PrimaryKey.Columns) == 1 {
		singlePKColumn = table.PrimaryKey.Columns[0]
	}

	for _, col := range table.Columns {
		colDef := p.columnDefinition(col)
		if col.Name == singlePKColumn {
			colDef += " PRIMARY KEY"
		}
		parts = append(parts, "    "+colDef)
	}

	// Composite keys only; single-column keys are inline.
	if table.PrimaryKey != nil && len(table.PrimaryKey.Columns) > 1 {
		pkCols := strings.Join(table.PrimaryKey.Columns, ", ")
		parts = append(parts, fmt.Sprintf("    CONSTRAINT %s PRIMARY KEY (%s)", table.PrimaryKey.Name, pkCols))
	}

	for _, fk := range table.ForeignKeys {
		parts = append(parts, "    "+p.foreignKeyDefinition(fk))
	}

	for _, constraint := range table.Constraints {
		switch constraint.Type {
		case schema.CheckConstraint:
			parts = append(parts, fmt.Sprintf("    CONSTRAINT %s CHECK %s", constraint.Name, constraint.Expression))
		case schema.UniqueConstraint:
			if len(constraint.Columns) > 1 {
				cols := strings.Join(constraint.Columns, ", ")
				parts = append(parts, fmt.Sprintf("    CONSTRAINT %s UNIQUE (%s)", constraint.Name, cols))
			}
		}
	}

	createClause := "CREATE TABLE"
	if p.options.IfNotExists {
		createClause = "CREATE TABLE IF NOT EXISTS"
	}
	return fmt.Sprintf("%s %s (\n%s\n);", createClause, table.Name, strings.Join(parts, ",\n"))
}

func (p *Planner) columnDefinition(col schema.ColumnMetadata) string {
	parts := []string{col.Name, col.SQLType}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != nil {
		parts = append(parts, "DEFAULT", *col.Default)
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " ")
}

func (p *Planner) foreignKeyDefinition(fk schema.ForeignKeyMetadata) string {
	localCols := strings.Join(fk.Columns, ", ")
	refCols := strings.Join(fk.ReferencedColumns, ", ")

	parts := []string{
		fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s)", fk.Name, localCols),
		fmt.Sprintf("REFERENCES %s (%s)", fk.ReferencedTable, refCols),
	}
	if fk.OnDelete != schema.NoAction && fk.OnDelete != "" {
		parts = append(parts, "ON DELETE "+string(fk.OnDelete))
	}
	if fk.OnUpdate != schema.NoAction && fk.OnUpdate != "" {
		parts = append(parts, "ON UPDATE "+string(fk.OnUpdate))
	}

	return strings.Join(parts, " ")
}

// DropTable generates a DROP TABLE statement.
func (p *Planner) DropTable(tableName string) string {
	if p.options.Cascade {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", quoteIdent(tableName))
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(tableName))
}

// SyncSequence returns a statement that moves the sequence behind the
// auto-increment primary key of table past its largest stored value, or ""
// when the table has no such column. Rows inserted with explicit keys leave
// the sequence untouched otherwise.
func (p *Planner) SyncSequence(table *schema.TableMetadata) string {
	if table.PrimaryKey == nil || len(table.PrimaryKey.Columns) != 1 {
		return ""
	}
	col, ok := table.Column(table.PrimaryKey.Columns[0])
	if !ok || !col.AutoIncrement {
		return ""
	}

	return fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence(%s, %s), COALESCE(MAX(%s), 1), MAX(%s) IS NOT NULL) FROM %s;",
		quoteLiteral(table.Name), quoteLiteral(col.Name), quoteIdent(col.Name), quoteIdent(col.Name), quoteIdent(table.Name),
	)
}
