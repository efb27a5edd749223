package gen

import (
	"context"
	"go/token"
	"path/filepath"
	"runtime"
	"slices"
)

// Defaults of the Config.
const (
	DefaultHeader         = "Code generated by dbgen. DO NOT EDIT."
	DefaultSuffix         = "DBObject"
	DefaultRuntimePackage = "github.com/syssam/dbobject"
	DefaultCacheFile      = ".dbgen/cache"
)

// Config holds the global codegen configuration shared by all generated
// types.
type Config struct {
	// Header is written as the first comment of every generated file.
	Header string
	// Suffix is appended to the object type name to form the generated type name.
	Suffix string
	// RuntimePackage is the import path of the runtime package providing
	// DatabaseObject, Template and Column.
	RuntimePackage string
	// Target overrides the output directory of all types. When empty, a file is
	// written next to the source of its type.
	Target string
	// Workers limits the number of types processed concurrently.
	Workers int
	// Features enabled in addition to the default ones.
	Features []Feature
	// Disabled lists default features that were turned off.
	Disabled []Feature
	// CacheFile is the path of the generation cache, used when FeatureCache is
	// enabled. Relative paths are resolved against the working directory.
	CacheFile string
	// Migrator plans the per-version DDL when FeatureMigrations is enabled.
	Migrator Migrator
	// Writer persists the generated files. Defaults to a FileWriter.
	Writer Writer
}

// Migrator plans the DDL statements that bring the table of a type to each
// of its versions. Diagnostics of the planning are reported to the Reporter
// of the type's pipeline, which may be nil.
type Migrator interface {
	Migrations(context.Context, *Type, Reporter) ([]*Migration, error)
}

// Migration holds the statements of one schema version.
type Migration struct {
	Version    int
	Statements []string
}

// FeatureEnabled reports if the given feature is enabled for the codegen.
func (c *Config) FeatureEnabled(f Feature) bool {
	if slices.ContainsFunc(c.Disabled, func(d Feature) bool { return d.Name == f.Name }) {
		return false
	}
	if f.Default {
		return true
	}
	return slices.ContainsFunc(c.Features, func(e Feature) bool { return e.Name == f.Name })
}

// EnabledFeatures returns the names of all enabled features.
func (c *Config) EnabledFeatures() []string {
	var names []string
	for _, f := range AllFeatures {
		if c.FeatureEnabled(f) {
			names = append(names, f.Name)
		}
	}
	return names
}

// defaults fills the zero values of the config.
func (c *Config) defaults() {
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if c.RuntimePackage == "" {
		c.RuntimePackage = DefaultRuntimePackage
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.CacheFile == "" {
		c.CacheFile = DefaultCacheFile
		if c.Target != "" {
			c.CacheFile = filepath.Join(c.Target, DefaultCacheFile)
		}
	}
}

// check validates the combination of options.
func (c *Config) check() error {
	if c.FeatureEnabled(FeatureMigrations) && c.Migrator == nil {
		return NewConfigError("Migrator", nil, "feature "+FeatureMigrations.Name+" requires a migrator")
	}
	if !token.IsIdentifier(c.Suffix) {
		return NewConfigError("Suffix", c.Suffix, "suffix must be a valid Go identifier")
	}
	return nil
}
