package gen

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/syssam/dbobject/compiler/load"
)

// Type is the model of one generated persistence object.
type Type struct {
	*Config
	schema *load.Schema
	// Name holds the name of the annotated object type.
	Name string
	// PackageName is the package of the generated file.
	PackageName string
	// Dir is the directory of the generated file.
	Dir string
	// LatestVersion is the version used by the default constructor.
	LatestVersion int
	// Columns holds the valid columns in field order.
	Columns []*ColumnSpec
	// Groups holds the columns partitioned by version.
	Groups *VersionGroups
	// Migrations holds the per-version DDL when FeatureMigrations is enabled.
	Migrations []*Migration
}

// NewType creates the model of a generated object from the given schema.
// Fields that cannot be mapped to a column are reported and skipped.
func NewType(c *Config, schema *load.Schema, r Reporter) (*Type, error) {
	if schema == nil {
		return nil, NewSchemaError("", "", "missing schema", nil)
	}
	if err := ValidSchemaName(schema.Name); err != nil {
		return nil, NewSchemaError(schema.Name, "", "", err)
	}
	if r == nil {
		r = nopReporter{}
	}
	typ := &Type{
		Config:        c,
		schema:        schema,
		Name:          schema.Name,
		PackageName:   schema.Package,
		Dir:           schema.Dir,
		LatestVersion: schema.LatestVersion,
	}
	if typ.LatestVersion <= 0 {
		typ.LatestVersion = load.DefaultVersion
	}
	if c.Target != "" {
		typ.Dir = c.Target
		typ.PackageName = targetPackage(c.Target)
	}
	if typ.PackageName == "" {
		return nil, NewSchemaError(schema.Name, "", "missing package name", nil)
	}
	b := &ColumnBuilder{
		TypeName:  typ.Name,
		Accessors: c.FeatureEnabled(FeatureAccessors),
		Runtime:   typ.RuntimeName(),
		Reporter:  r,
	}
	idents := typ.reservedIdents()
	columns := make(map[string]struct{})
	for _, f := range schema.Annotated() {
		spec, ok := b.Build(f)
		if !ok {
			continue
		}
		if _, ok := columns[spec.Name]; ok {
			r.Warn("%s.%s: column %q redeclared, field skipped", typ.Name, f.Name, spec.Name)
			continue
		}
		if name, ok := typ.conflict(idents, spec); ok {
			r.Warn("%s.%s: generated identifier %q conflicts with another column, field skipped", typ.Name, f.Name, name)
			continue
		}
		columns[spec.Name] = struct{}{}
		typ.Columns = append(typ.Columns, spec)
	}
	typ.Groups = Partition(typ.Columns)
	if len(typ.Columns) > 0 && !typ.Groups.Has(typ.LatestVersion) {
		r.Warn("%s: latest version %d has no columns; %s will fail with an unknown version error", typ.Name, typ.LatestVersion, typ.Constructor())
	}
	return typ, nil
}

// conflict registers the identifiers of a spec and reports the first one
// that is already taken.
func (t *Type) conflict(idents map[string]struct{}, spec *ColumnSpec) (string, bool) {
	names := []string{spec.Constant}
	if spec.Getter != nil {
		names = append(names, spec.Getter.Name, spec.Setter.Name)
	}
	for _, n := range names {
		if _, ok := idents[n]; ok {
			return n, true
		}
	}
	for _, n := range names {
		idents[n] = struct{}{}
	}
	return "", false
}

// reservedIdents returns the package and method identifiers the generated
// file declares regardless of its columns.
func (t *Type) reservedIdents() map[string]struct{} {
	idents := map[string]struct{}{
		t.ClassName():          {},
		t.Constructor():        {},
		t.VersionConstructor(): {},
		t.MigrationsName():     {},
		"initMembers":          {},
	}
	for n := range promoted {
		idents[n] = struct{}{}
	}
	return idents
}

// Pos returns the filename:line position information of this type in the schema.
func (t Type) Pos() string {
	return t.schema.Pos
}

// ClassName returns the name of the generated type.
func (t Type) ClassName() string { return t.Name + t.Suffix }

// Constructor returns the name of the default-version constructor.
func (t Type) Constructor() string { return "New" + t.ClassName() }

// VersionConstructor returns the name of the explicit-version constructor.
func (t Type) VersionConstructor() string { return t.Constructor() + "Version" }

// GroupName returns the name of the column collection of version v.
func (t Type) GroupName(v int) string { return t.Name + "ColumnsV" + strconv.Itoa(v) }

// MigrationsName returns the name of the generated migrations variable.
func (t Type) MigrationsName() string { return t.Name + "Migrations" }

// RuntimeName returns the package name of the runtime package.
func (t Type) RuntimeName() string { return path.Base(t.RuntimePackage) }

// Receiver returns the receiver name of the generated methods.
func (t Type) Receiver() string { return "o" }

// Label returns the snake_case name of the type.
func (t Type) Label() string { return snake(t.Name) }

// Table returns the SQL table name of the type.
func (t Type) Table() string {
	if t.schema != nil && t.schema.Table != "" {
		return t.schema.Table
	}
	return TableName(t.Name)
}

// Filename returns the path of the generated file.
func (t Type) Filename() string {
	return filepath.Join(t.Dir, t.Label()+load.GeneratedSuffix)
}

// HasColumns reports if the type has at least one valid column.
func (t Type) HasColumns() bool { return len(t.Columns) > 0 }

// PrimaryKey returns the primary columns.
func (t Type) PrimaryKey() []*ColumnSpec {
	var pk []*ColumnSpec
	for _, c := range t.Columns {
		if c.Primary {
			pk = append(pk, c)
		}
	}
	return pk
}

// targetPackage derives a package name from the target directory.
func targetPackage(dir string) string {
	name := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, filepath.Base(dir))
	if !token.IsIdentifier(name) {
		return ""
	}
	return strings.ToLower(name)
}

// ValidSchemaName reports an error if the name cannot be used to name the
// generated type and its file.
func ValidSchemaName(name string) error {
	// Check for empty name.
	if name == "" {
		return errors.New("schema name cannot be empty")
	}
	// Check for path traversal characters to prevent directory escape attacks.
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("schema name %q contains path separator characters", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("schema name %q contains parent directory reference", name)
	}
	// Check for hidden files (names starting with dot).
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("schema name %q cannot start with a dot", name)
	}
	// Validate that the name is a valid Go identifier.
	if !token.IsIdentifier(name) {
		return fmt.Errorf("schema name %q is not a valid Go identifier", name)
	}
	if !token.IsExported(name) {
		return fmt.Errorf("schema name %q must be exported", name)
	}
	return nil
}
