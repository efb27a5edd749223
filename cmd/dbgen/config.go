package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/dbobject/compiler/gen"
	"github.com/syssam/dbobject/compiler/load"
	"github.com/syssam/dbobject/dialect"
	"github.com/syssam/dbobject/dialect/sql/schema"
)

const (
	configFileName = ".dbgen"
	configFileType = "yaml"
	envPrefix      = "DBGEN"

	// Config keys. Each key is also the name of the flag overriding it.
	keyTarget    = "target"
	keyFeatures  = "features"
	keyDisable   = "disable"
	keyWorkers   = "workers"
	keyDialect   = "dialect"
	keyCache     = "cache"
	keyCacheFile = "cache-file"
	keyRuntime   = "runtime"
	keySuffix    = "suffix"
	keyHeader    = "header"
	keyTags      = "tags"
	keyLogLevel  = "log-level"
)

// loadConfig reads the config file into v. A missing default config file is
// not an error.
func loadConfig(v *viper.Viper, file string) error {
	v.SetDefault(keyDialect, dialect.SQLite)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && file == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// addGenerateFlags registers the flags shared by generate and watch.
func addGenerateFlags(fs *pflag.FlagSet) {
	fs.String(keyTarget, "", "output directory of all generated files (default: next to each source)")
	fs.StringSlice(keyFeatures, nil, "features to enable (see 'dbgen features')")
	fs.StringSlice(keyDisable, nil, "default features to disable")
	fs.Int(keyWorkers, 0, "number of types generated concurrently (default: GOMAXPROCS)")
	fs.String(keyDialect, dialect.SQLite, "SQL dialect of the sql/migrations feature ("+strings.Join(dialect.All, ", ")+")")
	fs.Bool(keyCache, false, "skip rewriting files whose content did not change")
	fs.String(keyCacheFile, "", "path of the generation cache (default: "+gen.DefaultCacheFile+")")
	fs.String(keyRuntime, "", "import path of the runtime package (default: "+gen.DefaultRuntimePackage+")")
	fs.String(keySuffix, "", "suffix of generated type names (default: "+gen.DefaultSuffix+")")
	fs.String(keyHeader, "", "header comment of generated files")
	fs.StringSlice(keyTags, nil, "build tags used to load packages")
}

// genOptions builds the generator options from the config.
func genOptions(v *viper.Viper) ([]gen.Option, error) {
	var opts []gen.Option
	if s := v.GetString(keyTarget); s != "" {
		opts = append(opts, gen.WithTarget(s))
	}
	if s := v.GetString(keyRuntime); s != "" {
		opts = append(opts, gen.WithRuntimePackage(s))
	}
	if s := v.GetString(keySuffix); s != "" {
		opts = append(opts, gen.WithSuffix(s))
	}
	if s := v.GetString(keyHeader); s != "" {
		opts = append(opts, gen.WithHeader(s))
	}
	if n := v.GetInt(keyWorkers); n != 0 {
		opts = append(opts, gen.WithWorkers(n))
	}
	features := v.GetStringSlice(keyFeatures)
	if len(features) > 0 {
		opts = append(opts, gen.WithFeatureNames(features...))
	}
	for _, name := range v.GetStringSlice(keyDisable) {
		f, ok := gen.FeatureByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		opts = append(opts, gen.WithoutFeatures(f))
	}
	switch s := v.GetString(keyCacheFile); {
	case s != "":
		opts = append(opts, gen.WithCacheFile(s))
	case v.GetBool(keyCache):
		opts = append(opts, gen.WithFeatures(gen.FeatureCache))
	}
	for _, name := range features {
		if name != gen.FeatureMigrations.Name {
			continue
		}
		m, err := schema.NewMigrator(v.GetString(keyDialect))
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithMigrator(m))
	}
	return opts, nil
}

// loadConfigOf returns the loader config from v.
func loadConfigOf(v *viper.Viper) *load.Config {
	cfg := &load.Config{}
	if tags := v.GetStringSlice(keyTags); len(tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(tags, ",")}
	}
	return cfg
}
