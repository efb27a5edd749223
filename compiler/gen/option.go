package gen

import (
	"errors"
	"go/token"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithSuffix sets the suffix of generated type names ("DBObject" by default).
func WithSuffix(suffix string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(suffix) {
			return NewConfigError("Suffix", suffix, "suffix must be a valid Go identifier")
		}
		c.Suffix = suffix
		return nil
	}
}

// WithRuntimePackage sets the import path of the runtime package.
// For example: "github.com/org/project/dbobject".
func WithRuntimePackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("RuntimePackage", nil, "package cannot be empty")
		}
		c.RuntimePackage = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// All generated files are written to it instead of the source directories.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers limits the number of types generated concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithoutFeatures disables features, including default ones.
func WithoutFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Disabled = append(c.Disabled, features...)
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			c.Features = append(c.Features, f)
		}
		return nil
	}
}

// WithCacheFile sets the path of the generation cache and enables FeatureCache.
func WithCacheFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("CacheFile", nil, "cache file cannot be empty")
		}
		c.CacheFile = path
		c.Features = append(c.Features, FeatureCache)
		return nil
	}
}

// WithMigrator sets the DDL planner used by FeatureMigrations.
func WithMigrator(m Migrator) Option {
	return func(c *Config) error {
		if m == nil {
			return NewConfigError("Migrator", nil, "migrator cannot be nil")
		}
		c.Migrator = m
		return nil
	}
}

// WithWriter sets a custom writer for the generated files.
// If not set, defaults to a FileWriter.
func WithWriter(w Writer) Option {
	return func(c *Config) error {
		if w == nil {
			return NewConfigError("Writer", nil, "writer cannot be nil")
		}
		c.Writer = w
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.defaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
