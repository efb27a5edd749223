package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	// FeatureAccessors provides a feature-flag for the typed getter/setter pairs
	// of generated objects. When disabled, objects are accessed through the
	// column variables and the DatabaseObject value methods only.
	FeatureAccessors = Feature{
		Name:        "accessors",
		Stage:       Stable,
		Default:     true,
		Description: "Generates a typed getter and setter for every column",
	}

	// FeatureMigrations provides a feature-flag for emitting the per-version DDL
	// of each object as a static list of statements.
	FeatureMigrations = Feature{
		Name:        "sql/migrations",
		Stage:       Experimental,
		Default:     false,
		Description: "Emits CREATE TABLE / ADD COLUMN statements per schema version",
	}

	// FeatureCache provides a feature-flag for skipping the write of files whose
	// content did not change since the previous run.
	FeatureCache = Feature{
		Name:        "cache",
		Stage:       Beta,
		Default:     false,
		Description: "Skips rewriting generated files whose content did not change",
		cleanup: func(c *Config) error {
			if c.CacheFile == "" {
				return nil
			}
			return remove(filepath.Dir(c.CacheFile), filepath.Base(c.CacheFile))
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureAccessors,
		FeatureMigrations,
		FeatureCache,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished, but
	// breaking-changes to their APIs are expected.
	Alpha

	// Beta features are Alpha features with documented behavior, and no
	// breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the name of the stage.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("FeatureStage(%d)", int(s))
	}
}

// A Feature of the dbgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup used to cleanup all changes when a feature-flag is removed.
	// e.g. delete files from previous codegen runs.
	cleanup func(*Config) error
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
