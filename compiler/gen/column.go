package gen

import (
	"go/token"
	"strconv"

	"github.com/syssam/dbobject"
	"github.com/syssam/dbobject/compiler/load"
)

type (
	// ColumnSpec is the resolved column of one annotated field.
	ColumnSpec struct {
		// Field is the identifier of the source field.
		Field string
		// Name is the column name, never empty.
		Name      string
		Kind      dbobject.Kind
		AllowNull bool
		Primary   bool
		Version   int
		// Constant is the identifier of the generated column variable.
		Constant string
		Type     TypeInfo
		// Getter and Setter are nil when accessors are not generated.
		Getter *Accessor
		Setter *Accessor
	}

	// Accessor is a generated getter or setter method.
	Accessor struct {
		Name string
		// Param is the setter parameter name.
		Param string
	}
)

// promoted holds the method names DatabaseObject promotes to generated types.
var promoted = map[string]struct{}{
	"Context":      {},
	"Version":      {},
	"Template":     {},
	"SetValue":     {},
	"Value":        {},
	"Values":       {},
	"IntegerValue": {},
	"LongValue":    {},
	"DoubleValue":  {},
	"TextValue":    {},
}

// ColumnBuilder builds the column specifications of one type.
type ColumnBuilder struct {
	// TypeName is the name of the object type, used to name the column variables.
	TypeName string
	// Accessors enables the getter/setter pair of every column.
	Accessors bool
	// Runtime is the package name of the runtime package. Setter parameters
	// never shadow it.
	Runtime string
	// Reporter receives the diagnostics of the build.
	Reporter Reporter
}

// Build returns the column specification of an annotated field. ok is false
// if the field cannot be mapped to a column; the reason is reported.
func (b *ColumnBuilder) Build(f *load.Field) (spec *ColumnSpec, ok bool) {
	r := b.reporter()
	if f == nil || f.Column == nil {
		return nil, false
	}
	if f.Name == "" || f.Type == "" {
		r.Warn("%s: skipping field with empty identifier (%q) or type (%q)", b.TypeName, f.Name, f.Type)
		return nil, false
	}
	spec = &ColumnSpec{
		Field:   f.Name,
		Name:    f.Column.Name,
		Version: f.Column.Version,
	}
	if spec.Name == "" {
		spec.Name = ColumnName(f.Name)
	}
	spec.AllowNull = b.flag(f, "allowNull", f.Column.AllowNull, true)
	spec.Primary = b.flag(f, "primary", f.Column.Primary, false)
	if spec.Primary {
		spec.AllowNull = false
	}
	info, ok := LookupType(f.Type)
	if !ok {
		r.Warn("%s.%s: unsupported type %q, field skipped", b.TypeName, f.Name, f.Type)
		return nil, false
	}
	spec.Type, spec.Kind = info, info.Kind
	if spec.Version <= 0 {
		r.Warn("%s.%s: invalid version %d, using %d", b.TypeName, f.Name, spec.Version, load.DefaultVersion)
		spec.Version = load.DefaultVersion
	}
	spec.Constant = b.TypeName + "Column" + pascal(spec.Name)
	if spec.Constant == b.TypeName+"Column" || !token.IsIdentifier(spec.Constant) {
		r.Warn("%s.%s: column name %q does not form a valid identifier, field skipped", b.TypeName, f.Name, spec.Name)
		return nil, false
	}
	if b.Accessors {
		getter, setter := b.accessors(f.Name)
		if getter == nil || setter == nil {
			r.Warn("%s.%s: cannot derive accessor names, field skipped", b.TypeName, f.Name)
			return nil, false
		}
		spec.Getter, spec.Setter = getter, setter
	}
	r.Note("%s.%s: column %q %s (allowNull=%t, primary=%t, version=%d)", b.TypeName, f.Name, spec.Name, spec.Kind, spec.AllowNull, spec.Primary, spec.Version)
	return spec, true
}

// flag parses a boolean annotation value. An empty value is unspecified
// and takes the default silently.
func (b *ColumnBuilder) flag(f *load.Field, key, raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		b.reporter().Warn("%s.%s: invalid %s value %q, using %t", b.TypeName, f.Name, key, raw, def)
		return def
	}
	return v
}

func (b *ColumnBuilder) accessors(field string) (*Accessor, *Accessor) {
	getter := &Accessor{Name: AccessorName(field, Getter)}
	setter := &Accessor{Name: AccessorName(field, Setter), Param: ParamName(field)}
	if setter.Param == b.Runtime {
		setter.Param = "_" + setter.Param
	}
	for _, a := range []*Accessor{getter, setter} {
		if _, ok := promoted[a.Name]; ok {
			a.Name += "Field"
		}
	}
	if !token.IsIdentifier(getter.Name) || !token.IsIdentifier(setter.Name) || !token.IsIdentifier(setter.Param) {
		return nil, nil
	}
	return getter, setter
}

func (b *ColumnBuilder) reporter() Reporter {
	if b.Reporter == nil {
		return nopReporter{}
	}
	return b.Reporter
}
