package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range errs {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) merge(o *ValidationResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// ValidateOption configures schema validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowLatePrimary bool
}

// AllowLatePrimary allows primary key columns introduced after the first
// version. Such changes are reported as warnings instead of errors.
func AllowLatePrimary() ValidateOption {
	return func(c *validateConfig) {
		c.allowLatePrimary = true
	}
}

// ValidateDiff validates the step from the table of one version to the table
// of the next one. Versions only add columns, so a column missing from the
// desired table or changing its shape is an error.
//
// Example:
//
//	result := schema.ValidateDiff(v1, v2)
//	if result.HasBreakingChanges() {
//	    log.Fatal("Breaking changes detected:", result)
//	}
func ValidateDiff(current, desired *Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	for _, c := range current.Columns {
		d, ok := desired.Column(c.Name)
		if !ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    current.Name,
				Column:   c.Name,
				Message:  fmt.Sprintf("column dropped at version %d", desired.Version),
				Breaking: true,
			})
			continue
		}
		if d.Kind != c.Kind {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    current.Name,
				Column:   c.Name,
				Message:  fmt.Sprintf("column type changing from %s to %s", c.Kind, d.Kind),
				Breaking: true,
			})
		}
		if c.Nullable && !d.Nullable {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    current.Name,
				Column:   c.Name,
				Message:  "column changing from NULL to NOT NULL",
				Breaking: true,
			})
		}
	}
	for _, d := range desired.Columns {
		if _, ok := current.Column(d.Name); ok {
			continue
		}
		if d.Primary {
			err := &ValidationError{
				Table:    desired.Name,
				Column:   d.Name,
				Message:  fmt.Sprintf("primary key column added at version %d", desired.Version),
				Breaking: true,
			}
			if cfg.allowLatePrimary {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
			continue
		}
		if !d.Nullable {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   desired.Name,
				Column:  d.Name,
				Message: "new NOT NULL column without default value may fail if table has data",
			})
		}
	}
	return result
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}
	if len(t.Columns) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: "table has no columns",
		})
	}
	if len(t.PrimaryKey) == 0 {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}
	names := make(map[string]bool)
	for _, c := range t.Columns {
		if names[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		names[c.Name] = true
		if !c.Kind.Valid() {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: fmt.Sprintf("unsupported column kind %s", c.Kind),
			})
		}
	}
	return result
}

// ValidateVersions validates the tables of every version of an object, in
// ascending version order.
func ValidateVersions(tables []*Table, opts ...ValidateOption) *ValidationResult {
	result := &ValidationResult{}
	for i, t := range tables {
		if i == 0 {
			result.merge(ValidateTable(t))
			continue
		}
		result.merge(ValidateDiff(tables[i-1], t, opts...))
	}
	return result
}
