// Package schema plans the DDL that brings the table of a generated object
// to each of its schema versions.
package schema

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/dbobject"
	"github.com/syssam/dbobject/compiler/gen"
	"github.com/syssam/dbobject/dialect"
)

// MigrateOption allows configuring a Migrator.
type MigrateOption func(*Migrator)

// WithValidateOptions sets the options used to validate version steps.
func WithValidateOptions(opts ...ValidateOption) MigrateOption {
	return func(m *Migrator) {
		m.validate = append(m.validate, opts...)
	}
}

// Migrator plans the statements of every schema version with atlas. It
// implements gen.Migrator. Nothing is executed.
type Migrator struct {
	dialect  string
	plan     migrate.PlanApplier
	types    func(dbobject.Kind) schema.Type
	validate []ValidateOption
}

var _ gen.Migrator = (*Migrator)(nil)

// NewMigrator returns a Migrator for the given dialect.
func NewMigrator(name string, opts ...MigrateOption) (*Migrator, error) {
	m := &Migrator{dialect: name}
	switch name {
	case dialect.SQLite:
		m.plan, m.types = sqlite.DefaultPlan, sqliteType
	case dialect.MySQL:
		m.plan, m.types = mysql.DefaultPlan, mysqlType
	case dialect.Postgres:
		m.plan, m.types = postgres.DefaultPlan, postgresType
	default:
		return nil, fmt.Errorf("dbgen/schema: unsupported dialect %q", name)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dialect returns the dialect name.
func (m *Migrator) Dialect() string { return m.dialect }

// Migrations implements gen.Migrator. Version 1, or the lowest declared
// version, creates the table. Every later version adds the columns it
// introduces. Validation warnings are reported to r.
func (m *Migrator) Migrations(ctx context.Context, t *gen.Type, r gen.Reporter) ([]*gen.Migration, error) {
	tables := Tables(t)
	if len(tables) == 0 {
		return nil, nil
	}
	res := ValidateVersions(tables, m.validate...)
	if r != nil {
		for _, w := range res.Warnings {
			r.Warn("%s: %v", t.Name, w)
		}
	}
	if res.HasErrors() {
		return nil, fmt.Errorf("dbgen/schema: invalid versions of %s:\n%s", t.Name, res)
	}
	migrations := make([]*gen.Migration, 0, len(tables))
	for i, table := range tables {
		var change schema.Change
		if i == 0 {
			change = &schema.AddTable{T: m.table(table)}
		} else {
			change = m.addColumns(tables[i-1], table)
		}
		name := fmt.Sprintf("%s_v%d", table.Name, table.Version)
		plan, err := m.plan.PlanChanges(ctx, name, []schema.Change{change})
		if err != nil {
			return nil, fmt.Errorf("dbgen/schema: planning %s: %w", name, err)
		}
		mg := &gen.Migration{Version: table.Version}
		for _, c := range plan.Changes {
			mg.Statements = append(mg.Statements, c.Cmd)
		}
		migrations = append(migrations, mg)
	}
	return migrations, nil
}

// table converts the table to its atlas form.
func (m *Migrator) table(t *Table) *schema.Table {
	at := schema.NewTable(t.Name)
	// Tables are never qualified with a schema name.
	schema.New("").AddTables(at)
	for _, c := range t.Columns {
		at.AddColumns(m.column(c))
	}
	if len(t.PrimaryKey) > 0 {
		pk := make([]*schema.Column, 0, len(t.PrimaryKey))
		for _, c := range t.PrimaryKey {
			col, _ := at.Column(c.Name)
			pk = append(pk, col)
		}
		at.SetPrimaryKey(schema.NewPrimaryKey(pk...))
	}
	return at
}

// addColumns returns the change adding the columns of next that are missing
// from prev.
func (m *Migrator) addColumns(prev, next *Table) *schema.ModifyTable {
	at := m.table(next)
	modify := &schema.ModifyTable{T: at}
	for _, c := range next.Columns {
		if _, ok := prev.Column(c.Name); ok {
			continue
		}
		col, _ := at.Column(c.Name)
		modify.Changes = append(modify.Changes, &schema.AddColumn{C: col})
	}
	return modify
}

func (m *Migrator) column(c *Column) *schema.Column {
	return schema.NewColumn(c.Name).
		SetType(m.types(c.Kind)).
		SetNull(c.Nullable)
}

func sqliteType(k dbobject.Kind) schema.Type {
	switch k {
	case dbobject.KindInteger, dbobject.KindLong:
		return &schema.IntegerType{T: "integer"}
	case dbobject.KindDouble:
		return &schema.FloatType{T: "real"}
	default:
		return &schema.StringType{T: "text"}
	}
}

func mysqlType(k dbobject.Kind) schema.Type {
	switch k {
	case dbobject.KindInteger:
		return &schema.IntegerType{T: "int"}
	case dbobject.KindLong:
		return &schema.IntegerType{T: "bigint"}
	case dbobject.KindDouble:
		return &schema.FloatType{T: "double"}
	default:
		// Text columns may be part of a primary key, which requires a length.
		return &schema.StringType{T: "varchar", Size: 255}
	}
}

func postgresType(k dbobject.Kind) schema.Type {
	switch k {
	case dbobject.KindInteger:
		return &schema.IntegerType{T: "integer"}
	case dbobject.KindLong:
		return &schema.IntegerType{T: "bigint"}
	case dbobject.KindDouble:
		return &schema.FloatType{T: "double precision"}
	default:
		return &schema.StringType{T: "text"}
	}
}
