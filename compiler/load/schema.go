// Package load discovers the annotated object types that the generator
// derives persistence objects from. Types are read from Go source (struct
// tags and doc directives) or from YAML manifests.
package load

import (
	"errors"
	"fmt"
)

// Defaults applied to unspecified annotation values.
const (
	DefaultAllowNull = "true"
	DefaultPrimary   = "false"
	DefaultVersion   = 1
)

// Schema represents one annotated object type.
type Schema struct {
	Name          string   `json:"name,omitempty"`
	Package       string   `json:"package,omitempty"`
	Dir           string   `json:"dir,omitempty"`
	Pos           string   `json:"-"`
	LatestVersion int      `json:"latest_version,omitempty"`
	Table         string   `json:"table,omitempty"`
	Fields        []*Field `json:"fields,omitempty"`
}

// Field represents one field declaration of an object type.
type Field struct {
	Name string `json:"name,omitempty"`
	// Type holds the declared type as written in source (e.g. "int64").
	Type string `json:"type,omitempty"`
	// Column is nil for fields that carry no column annotation.
	Column *Column `json:"column,omitempty"`
	Pos    string  `json:"-"`
}

// Column is the column annotation of a field. The boolean values are kept
// as written; their interpretation belongs to the generator.
type Column struct {
	Name      string `json:"name,omitempty"`
	AllowNull string `json:"allow_null,omitempty"`
	Primary   string `json:"primary,omitempty"`
	Version   int    `json:"version,omitempty"`
}

// NewColumn returns a column annotation holding the default values.
func NewColumn() *Column {
	return &Column{
		AllowNull: DefaultAllowNull,
		Primary:   DefaultPrimary,
		Version:   DefaultVersion,
	}
}

// Annotated returns the fields that carry a column annotation.
func (s *Schema) Annotated() []*Field {
	fields := make([]*Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Column != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// Error describes a schema that could not be loaded. Other schemas of the
// same source are unaffected.
type Error struct {
	Schema string
	Field  string
	Pos    string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "load: schema " + e.Schema
	if e.Field != "" {
		msg += " field " + e.Field
	}
	if e.Pos != "" {
		msg = e.Pos + ": " + msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// ErrorsOf returns the schema load errors contained in err.
func ErrorsOf(err error) []*Error {
	if err == nil {
		return nil
	}
	var errs []*Error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			errs = append(errs, ErrorsOf(e)...)
		}
		return errs
	}
	var le *Error
	if errors.As(err, &le) {
		errs = append(errs, le)
	}
	return errs
}
