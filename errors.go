package dbobject

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrUnknownVersion is returned when an object is constructed with a schema
	// version that none of its column groups was declared for.
	ErrUnknownVersion = errors.New("dbobject: unknown schema version")

	// ErrUnknownColumn is returned when a value is read or written through a
	// column that is not bound to the object's template.
	ErrUnknownColumn = errors.New("dbobject: column not bound")
)

// VersionError represents an object constructed with a version that has no
// column group.
type VersionError struct {
	label   string
	version int
}

// Error returns the error string.
func (e *VersionError) Error() string {
	return fmt.Sprintf("dbobject: %s has no columns for version %d", e.label, e.version)
}

// Is reports whether the target error matches VersionError.
// This allows errors.Is(versionErr, ErrUnknownVersion) to return true.
func (e *VersionError) Is(err error) bool {
	return err == ErrUnknownVersion
}

// Label returns the object label.
func (e *VersionError) Label() string {
	return e.label
}

// Version returns the requested version.
func (e *VersionError) Version() int {
	return e.version
}

// NewVersionError returns a new VersionError for the given object type.
func NewVersionError(label string, version int) *VersionError {
	return &VersionError{label: label, version: version}
}

// IsVersionError returns true if the error is a VersionError.
func IsVersionError(err error) bool {
	if err == nil {
		return false
	}
	var e *VersionError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownVersion)
}

// ColumnError represents an access through a column that is not part of the
// object's template.
type ColumnError struct {
	Column string // Column name
	Op     string // "get" or "set"
}

// Error returns the error string.
func (e *ColumnError) Error() string {
	return fmt.Sprintf("dbobject: %s %q: column not bound to template", e.Op, e.Column)
}

// Is reports whether the target error matches ColumnError.
func (e *ColumnError) Is(err error) bool {
	return err == ErrUnknownColumn
}

// NewColumnError returns a new ColumnError.
func NewColumnError(column, op string) *ColumnError {
	return &ColumnError{Column: column, Op: op}
}
