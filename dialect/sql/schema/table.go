package schema

import (
	"github.com/syssam/dbobject"
	"github.com/syssam/dbobject/compiler/gen"
)

// Table is the shape of an object table at one schema version.
type Table struct {
	Name       string
	Version    int
	Columns    []*Column
	PrimaryKey []*Column
}

// Column is a table column.
type Column struct {
	Name     string
	Kind     dbobject.Kind
	Nullable bool
	Primary  bool
	// Version is the schema version that introduced the column.
	Version int
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Tables returns the table of the type at each of its versions, in ascending
// version order. The table of version N holds every column of versions <= N.
func Tables(t *gen.Type) []*Table {
	versions := t.Groups.Versions()
	tables := make([]*Table, 0, len(versions))
	for _, v := range versions {
		tables = append(tables, NewTable(t.Table(), v, t.Groups.Cumulative(v)))
	}
	return tables
}

// NewTable returns the table of the given columns.
func NewTable(name string, version int, specs []*gen.ColumnSpec) *Table {
	t := &Table{Name: name, Version: version}
	for _, s := range specs {
		c := &Column{
			Name:     s.Name,
			Kind:     s.Kind,
			Nullable: s.AllowNull && !s.Primary,
			Primary:  s.Primary,
			Version:  s.Version,
		}
		t.Columns = append(t.Columns, c)
		if c.Primary {
			t.PrimaryKey = append(t.PrimaryKey, c)
		}
	}
	return t
}
