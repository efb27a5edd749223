package dbobject

import (
	"context"
	"fmt"
	"maps"
)

// Template is the ordered set of columns bound to an object.
type Template struct {
	columns []*Column
	index   map[string]int
}

// NewTemplate returns an empty template.
func NewTemplate() *Template {
	return &Template{index: make(map[string]int)}
}

// AddColumns binds the given columns. A column whose name is already bound
// replaces the previous definition in place.
func (t *Template) AddColumns(cols ...*Column) {
	for _, c := range cols {
		if c == nil {
			continue
		}
		if i, ok := t.index[c.Name]; ok {
			t.columns[i] = c
			continue
		}
		t.index[c.Name] = len(t.columns)
		t.columns = append(t.columns, c)
	}
}

// Columns returns the bound columns in binding order.
func (t *Template) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Column returns the bound column with the given name.
func (t *Template) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports if the column is bound to the template.
func (t *Template) Has(c *Column) bool {
	if c == nil {
		return false
	}
	bound, ok := t.Column(c.Name)
	return ok && bound == c
}

// Len returns the number of bound columns.
func (t *Template) Len() int { return len(t.columns) }

// PrimaryKey returns the primary columns in binding order.
func (t *Template) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.columns {
		if c.Primary {
			pk = append(pk, c)
		}
	}
	return pk
}

// DatabaseObject is the base of every generated persistence object. It holds
// the requested schema version, the template of bound columns, and the
// in-memory column values. It is not safe for concurrent use.
type DatabaseObject struct {
	ctx      context.Context
	version  int
	template *Template
	values   map[string]any
}

// NewDatabaseObject returns an object with an empty template. Generated
// constructors bind the columns of the requested version afterwards.
func NewDatabaseObject(ctx context.Context, version int) *DatabaseObject {
	if ctx == nil {
		ctx = context.Background()
	}
	return &DatabaseObject{
		ctx:      ctx,
		version:  version,
		template: NewTemplate(),
		values:   make(map[string]any),
	}
}

// Context returns the context the object was created with.
func (o *DatabaseObject) Context() context.Context { return o.ctx }

// Version returns the schema version of the object.
func (o *DatabaseObject) Version() int { return o.version }

// Template returns the template of bound columns.
func (o *DatabaseObject) Template() *Template { return o.template }

// SetValue stores v for the column. A nil v clears the value of a nullable
// column.
func (o *DatabaseObject) SetValue(c *Column, v any) error {
	if !o.template.Has(c) {
		name := "<nil>"
		if c != nil {
			name = c.Name
		}
		return NewColumnError(name, "set")
	}
	if v == nil {
		if !c.AllowNull {
			return fmt.Errorf("dbobject: column %q does not allow null", c.Name)
		}
		delete(o.values, c.Name)
		return nil
	}
	nv, err := normalize(c, v)
	if err != nil {
		return err
	}
	o.values[c.Name] = nv
	return nil
}

// Value returns the stored value of the column and reports if it was set.
func (o *DatabaseObject) Value(c *Column) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := o.values[c.Name]
	return v, ok
}

// IntegerValue returns the value of an integer column, or 0 if unset.
func (o *DatabaseObject) IntegerValue(c *Column) int {
	v, _ := o.Value(c)
	n, _ := v.(int)
	return n
}

// LongValue returns the value of a long column, or 0 if unset.
func (o *DatabaseObject) LongValue(c *Column) int64 {
	v, _ := o.Value(c)
	n, _ := v.(int64)
	return n
}

// DoubleValue returns the value of a double column, or 0 if unset.
func (o *DatabaseObject) DoubleValue(c *Column) float64 {
	v, _ := o.Value(c)
	n, _ := v.(float64)
	return n
}

// TextValue returns the value of a text column, or "" if unset.
func (o *DatabaseObject) TextValue(c *Column) string {
	v, _ := o.Value(c)
	s, _ := v.(string)
	return s
}

// Values returns a copy of the stored values keyed by column name.
func (o *DatabaseObject) Values() map[string]any {
	return maps.Clone(o.values)
}

// normalize converts v to the Go type stored for the column kind.
func normalize(c *Column, v any) (any, error) {
	switch c.Kind {
	case KindInteger:
		switch n := v.(type) {
		case bool:
			return BoolValue(n), nil
		case int:
			return n, nil
		case int8:
			return int(n), nil
		case int16:
			return int(n), nil
		case int32:
			return int(n), nil
		case int64:
			return int(n), nil
		}
	case KindLong:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		}
	case KindDouble:
		switch n := v.(type) {
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case KindText:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	}
	return nil, fmt.Errorf("dbobject: cannot store %T in %s column %q", v, c.Kind, c.Name)
}
