package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type (
	// manifest is the YAML form of a set of object types:
	//
	//	package: models
	//	objects:
	//	  - name: User
	//	    latestVersion: 2
	//	    fields:
	//	      - name: mUserName
	//	        type: String
	//	        column: {allowNull: false}
	manifest struct {
		Package string            `yaml:"package"`
		Dir     string            `yaml:"dir"`
		Objects []*manifestObject `yaml:"objects"`
	}
	manifestObject struct {
		Name          string           `yaml:"name"`
		LatestVersion rawString        `yaml:"latestVersion"`
		Table         string           `yaml:"table"`
		Fields        []*manifestField `yaml:"fields"`
	}
	manifestField struct {
		Name   string          `yaml:"name"`
		Type   string          `yaml:"type"`
		Column *manifestColumn `yaml:"column"`
	}
	manifestColumn struct {
		Name      string    `yaml:"name"`
		AllowNull rawString `yaml:"allowNull"`
		Primary   rawString `yaml:"primary"`
		Version   rawString `yaml:"version"`
	}
)

// rawString keeps a scalar exactly as written. Boolean annotation values are
// interpreted by the generator, not by the YAML decoder.
type rawString struct {
	set   bool
	value string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *rawString) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expect scalar value", n.Line)
	}
	r.set, r.value = true, n.Value
	return nil
}

// LoadYAML reads object types from a YAML manifest. The output directory of
// the types defaults to the directory of the manifest.
func LoadYAML(path string) ([]*Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading manifest: %w", err)
	}
	return ParseYAML(path, buf)
}

// ParseYAML parses the content of a YAML manifest located at path.
func ParseYAML(path string, buf []byte) ([]*Schema, error) {
	var m manifest
	if err := yaml.Unmarshal(buf, &m); err != nil {
		return nil, fmt.Errorf("load: parsing manifest %s: %w", path, err)
	}
	dir := m.Dir
	switch {
	case dir == "":
		dir = filepath.Dir(path)
	case !filepath.IsAbs(dir):
		dir = filepath.Join(filepath.Dir(path), dir)
	}
	var (
		schemas []*Schema
		errs    []error
	)
	for i, o := range m.Objects {
		pos := fmt.Sprintf("%s:objects[%d]", path, i)
		s, err := o.schema(m.Package, dir, pos)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		schemas = append(schemas, s)
	}
	return schemas, errors.Join(errs...)
}

func (o *manifestObject) schema(pkg, dir, pos string) (*Schema, error) {
	s := &Schema{
		Name:          o.Name,
		Package:       pkg,
		Dir:           dir,
		Pos:           pos,
		LatestVersion: DefaultVersion,
		Table:         o.Table,
	}
	if o.LatestVersion.set {
		n, err := strconv.Atoi(o.LatestVersion.value)
		if err != nil {
			return nil, &Error{Schema: o.Name, Pos: pos, Err: fmt.Errorf("invalid latestVersion %q", o.LatestVersion.value)}
		}
		s.LatestVersion = n
	}
	for j, f := range o.Fields {
		fld := &Field{
			Name: f.Name,
			Type: f.Type,
			Pos:  fmt.Sprintf("%s.fields[%d]", pos, j),
		}
		if f.Column != nil {
			c := NewColumn()
			c.Name = f.Column.Name
			if f.Column.AllowNull.set {
				c.AllowNull = f.Column.AllowNull.value
			}
			if f.Column.Primary.set {
				c.Primary = f.Column.Primary.value
			}
			if f.Column.Version.set {
				n, err := strconv.Atoi(f.Column.Version.value)
				if err != nil {
					return nil, &Error{Schema: o.Name, Field: f.Name, Pos: fld.Pos, Err: fmt.Errorf("invalid version %q", f.Column.Version.value)}
				}
				c.Version = n
			}
			fld.Column = c
		}
		s.Fields = append(s.Fields, fld)
	}
	return s, nil
}
