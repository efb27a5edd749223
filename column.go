package dbobject

import "fmt"

// Kind is the storage category of a column.
type Kind uint8

// List of column kinds.
const (
	KindUnsupported Kind = iota
	KindInteger
	KindLong
	KindText
	KindDouble
)

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindInteger:     "integer",
	KindLong:        "long",
	KindText:        "text",
	KindDouble:      "double",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports if the kind is one of the supported storage kinds.
func (k Kind) Valid() bool {
	return k > KindUnsupported && k <= KindDouble
}

// Column describes how one field of an object is persisted.
// Columns are created once by generated code and shared between objects.
type Column struct {
	Name      string
	Kind      Kind
	AllowNull bool
	Primary   bool
	Version   int
}

func newColumn(kind Kind, name string, allowNull, primary bool, version int) *Column {
	if primary {
		allowNull = false
	}
	return &Column{
		Name:      name,
		Kind:      kind,
		AllowNull: allowNull,
		Primary:   primary,
		Version:   version,
	}
}

// NewIntegerColumn returns an integer column. Boolean fields are stored in
// integer columns as 0 or 1.
func NewIntegerColumn(name string, allowNull, primary bool, version int) *Column {
	return newColumn(KindInteger, name, allowNull, primary, version)
}

// NewLongColumn returns a 64-bit integer column.
func NewLongColumn(name string, allowNull, primary bool, version int) *Column {
	return newColumn(KindLong, name, allowNull, primary, version)
}

// NewTextColumn returns a text column.
func NewTextColumn(name string, allowNull, primary bool, version int) *Column {
	return newColumn(KindText, name, allowNull, primary, version)
}

// NewDoubleColumn returns a double precision column.
func NewDoubleColumn(name string, allowNull, primary bool, version int) *Column {
	return newColumn(KindDouble, name, allowNull, primary, version)
}

// String implements the fmt.Stringer interface.
func (c *Column) String() string {
	return fmt.Sprintf("%s %s (v%d)", c.Name, c.Kind, c.Version)
}

// BoolValue converts a boolean to its stored integer form.
func BoolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Migration holds the DDL statements that bring a table to a schema version.
type Migration struct {
	Version    int
	Statements []string
}
