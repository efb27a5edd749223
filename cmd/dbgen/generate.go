package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/dbobject/compiler/gen"
	"github.com/syssam/dbobject/compiler/load"
	"github.com/syssam/dbobject/internal/logger"
)

// errFailed is returned when at least one type could not be generated.
var errFailed = errors.New("generation failed")

func isFailure(err error) bool {
	return errors.Is(err, errFailed)
}

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "generate [flags] [package patterns | manifest.yaml]...",
		Short: "Generate the persistence objects of annotated types",
		Example: `  dbgen generate ./models/...
  dbgen generate --features sql/migrations --dialect postgres ./models
  dbgen generate schema.yaml`,
		Args: cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			g := &generator{v: v, log: logger.FromContext(cmd.Context()), out: cmd.OutOrStdout()}
			if dryRun {
				g.mem = &gen.MemWriter{}
			}
			_, err := g.run(cmd.Context(), args)
			return err
		},
	}
	addGenerateFlags(cmd.Flags())
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate in memory and list the files without writing them")
	return cmd
}

// generator runs one load and generate cycle.
type generator struct {
	v   *viper.Viper
	log logger.Logger
	out io.Writer
	mem *gen.MemWriter
}

func (g *generator) run(ctx context.Context, args []string) (*gen.Result, error) {
	schemas, err := g.load(ctx, args)
	if err != nil {
		return nil, err
	}
	if len(schemas) == 0 {
		g.log.Warn("no annotated types found", "args", strings.Join(args, " "))
		return &gen.Result{}, nil
	}
	opts, err := genOptions(g.v)
	if err != nil {
		return nil, err
	}
	if g.mem != nil {
		opts = append(opts, gen.WithWriter(g.mem))
	}
	res, err := gen.Generate(ctx, logger.NewReporter(g.log), schemas, opts...)
	if err != nil {
		return res, err
	}
	g.summary(res)
	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%w: %s", errFailed, strings.Join(res.Failed, ", "))
	}
	return res, nil
}

// load loads the schemas of manifests and package patterns. Schemas that
// fail to load are logged and skipped.
func (g *generator) load(ctx context.Context, args []string) ([]*load.Schema, error) {
	var (
		schemas  []*load.Schema
		patterns []string
	)
	for _, arg := range args {
		if !isManifest(arg) {
			patterns = append(patterns, arg)
			continue
		}
		s, err := load.LoadYAML(arg)
		if err := g.loadErrors(err); err != nil {
			return nil, err
		}
		schemas = append(schemas, s...)
	}
	if len(patterns) > 0 {
		s, err := load.Load(ctx, loadConfigOf(g.v), patterns...)
		if err := g.loadErrors(err); err != nil {
			return nil, err
		}
		schemas = append(schemas, s...)
	}
	return schemas, nil
}

// loadErrors logs the schema errors of err and returns the other ones.
func (g *generator) loadErrors(err error) error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var rest []error
		for _, e := range j.Unwrap() {
			if e := g.loadErrors(e); e != nil {
				rest = append(rest, e)
			}
		}
		return errors.Join(rest...)
	}
	if errs := load.ErrorsOf(err); len(errs) > 0 {
		for _, e := range errs {
			g.log.Error("skipping type", "type", e.Schema, "error", e)
		}
		return nil
	}
	return err
}

func (g *generator) summary(res *gen.Result) {
	names := make([]string, 0, len(res.Files))
	for name := range res.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	if g.mem != nil {
		for _, name := range names {
			fmt.Fprintf(g.out, "%s\t%d bytes\n", res.Files[name], len(g.mem.Files[res.Files[name]]))
		}
	}
	g.log.Info("generation done",
		"written", len(res.Written),
		"unchanged", len(res.Unchanged),
		"skipped", len(res.Skipped),
		"failed", len(res.Failed),
	)
}

func isManifest(arg string) bool {
	switch filepath.Ext(arg) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
