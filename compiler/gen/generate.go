package gen

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/dbobject/compiler/load"
)

// Status is the outcome of the generation of one type.
type Status uint8

// List of generation outcomes.
const (
	StatusWritten Status = iota + 1
	StatusUnchanged
	StatusSkipped
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result summarizes a generation run. Type names are listed in input order.
type Result struct {
	Written   []string
	Unchanged []string
	Skipped   []string
	Failed    []string
	// Files maps the names of the written and unchanged types to their output path.
	Files map[string]string
}

func (r *Result) add(name, path string, s Status) {
	switch s {
	case StatusWritten:
		r.Written = append(r.Written, name)
	case StatusUnchanged:
		r.Unchanged = append(r.Unchanged, name)
	case StatusSkipped:
		r.Skipped = append(r.Skipped, name)
	case StatusFailed:
		r.Failed = append(r.Failed, name)
	}
	if path != "" {
		r.Files[name] = path
	}
}

// Generator runs the per-type generation pipelines.
type Generator struct {
	cfg      *Config
	reporter Reporter
}

// NewGenerator returns a generator for the given config. Diagnostics are
// delivered to r, in input order.
func NewGenerator(c *Config, r Reporter) *Generator {
	if r == nil {
		r = nopReporter{}
	}
	return &Generator{cfg: c, reporter: r}
}

// Generate generates the persistence object of every schema. Per-type
// problems, write failures included, are reported as diagnostics and never
// abort the other types. The returned error is non-nil only for an invalid
// configuration or a canceled context.
func (g *Generator) Generate(ctx context.Context, schemas []*load.Schema) (*Result, error) {
	if g.cfg == nil {
		return nil, NewConfigError("Config", nil, "missing config")
	}
	g.cfg.defaults()
	if err := g.cfg.check(); err != nil {
		return nil, err
	}
	w, cache := g.writer()
	if err := g.cleanup(); err != nil {
		g.reporter.Warn("cleaning up disabled features: %v", err)
	}
	type outcome struct {
		status Status
		path   string
		rec    *Recorder
	}
	outcomes := make([]outcome, len(schemas))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, s := range schemas {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := &Recorder{}
			status, path := g.generate(ctx, s, w, rec)
			outcomes[i] = outcome{status: status, path: path, rec: rec}
			return nil
		})
	}
	err := eg.Wait()
	res := &Result{Files: make(map[string]string)}
	for i, o := range outcomes {
		if o.rec == nil {
			continue
		}
		o.rec.Replay(g.reporter)
		res.add(schemaName(schemas[i]), o.path, o.status)
	}
	if cache != nil {
		if err := cache.Save(); err != nil {
			g.reporter.Warn("%v", err)
		}
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

// generate runs the pipeline of one type: model, migrations, synthesis,
// rendering and writing.
func (g *Generator) generate(ctx context.Context, s *load.Schema, w Writer, r Reporter) (Status, string) {
	t, err := NewType(g.cfg, s, r)
	if err != nil {
		r.Error("%v", err)
		return StatusFailed, ""
	}
	if !t.HasColumns() {
		r.Warn("%s: no valid columns, nothing generated", t.Name)
		return StatusSkipped, ""
	}
	if t.FeatureEnabled(FeatureMigrations) {
		ms, err := g.cfg.Migrator.Migrations(ctx, t, r)
		if err != nil {
			r.Error("%v", NewGenerationError("migrate", t.Name, "", err))
			return StatusFailed, ""
		}
		t.Migrations = ms
	}
	path := t.Filename()
	content, err := Render(Synthesize(t))
	if err != nil {
		r.Error("%v", NewGenerationError("render", t.Name, path, err))
		return StatusFailed, ""
	}
	written, err := w.Write(ctx, &Output{Type: t.Name, Path: path, Content: content})
	if err != nil {
		r.Error("%v", NewGenerationError("write", t.Name, path, err))
		return StatusFailed, ""
	}
	r.Note("%s", describe(t))
	if !written {
		return StatusUnchanged, path
	}
	return StatusWritten, path
}

func (g *Generator) writer() (Writer, *Cache) {
	if g.cfg.Writer != nil {
		return g.cfg.Writer, nil
	}
	if !g.cfg.FeatureEnabled(FeatureCache) {
		return &FileWriter{}, nil
	}
	cache, err := OpenCache(g.cfg.CacheFile)
	if err != nil {
		g.reporter.Warn("%v; continuing without cache", err)
		return &FileWriter{}, nil
	}
	return &FileWriter{Cache: cache}, cache
}

// cleanup removes the artifacts of disabled features.
func (g *Generator) cleanup() error {
	var errs []error
	for _, f := range AllFeatures {
		if f.cleanup == nil || g.cfg.FeatureEnabled(f) {
			continue
		}
		if err := f.cleanup(g.cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func schemaName(s *load.Schema) string {
	if s == nil {
		return ""
	}
	return s.Name
}

// Generate is a convenience wrapper that builds a Config from the options
// and runs a Generator.
func Generate(ctx context.Context, r Reporter, schemas []*load.Schema, opts ...Option) (*Result, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(c, r).Generate(ctx, schemas)
}
