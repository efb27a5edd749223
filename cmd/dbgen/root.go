package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/dbobject/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "v0.1.0-dev"

type rootFlags struct {
	configFile string
	logLevel   string
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		v     = viper.New()
	)
	cmd := &cobra.Command{
		Use:   "dbgen",
		Short: "Generate versioned persistence objects",
		Long: `dbgen reads Go types annotated with //dbobject:generate, or YAML manifests,
and writes a <name>_dbobject.go file per type holding its column descriptors,
per-version column collections, constructors and typed accessors.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, flags.configFile); err != nil {
				return err
			}
			level := logger.LogLevel(flags.logLevel)
			if !cmd.Flags().Changed("log-level") && v.IsSet(keyLogLevel) {
				level = logger.LogLevel(v.GetString(keyLogLevel))
			}
			log := logger.NewLogger(&logger.Config{
				Level:  level,
				Output: cmd.ErrOrStderr(),
				JSON:   flags.logJSON,
			})
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: .dbgen.yaml in the working directory)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", string(logger.InfoLevel), "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log in JSON format")

	cmd.AddCommand(
		newGenerateCmd(v),
		newWatchCmd(v),
		newFeaturesCmd(),
		newVersionCmd(),
	)
	return cmd
}
