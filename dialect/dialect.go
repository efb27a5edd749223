// Package dialect lists the SQL dialects dbgen can plan per-version DDL for.
package dialect

import "slices"

// Dialect names.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// All holds the supported dialects.
var All = []string{SQLite, MySQL, Postgres}

// Valid reports if the name is one of the supported dialects.
func Valid(name string) bool {
	return slices.Contains(All, name)
}
