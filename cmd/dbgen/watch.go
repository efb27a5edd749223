package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/dbobject/compiler/gen"
	"github.com/syssam/dbobject/compiler/load"
	"github.com/syssam/dbobject/internal/logger"
)

const defaultDebounce = 200 * time.Millisecond

// ignoredDirs contains directories that are never watched.
var ignoredDirs = map[string]bool{
	".git":         true,
	".dbgen":       true,
	"node_modules": true,
	"vendor":       true,
	"testdata":     true,
}

func newWatchCmd(v *viper.Viper) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [flags] [directories | dir/... | manifest.yaml]...",
		Short: "Regenerate the persistence objects when sources change",
		Args:  cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			log := logger.FromContext(cmd.Context())
			w := &watcher{
				g:        &generator{v: v, log: log, out: cmd.OutOrStdout()},
				args:     args,
				debounce: debounce,
			}
			return w.run(cmd.Context())
		},
	}
	addGenerateFlags(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "delay batching file changes before a regeneration")
	return cmd
}

// watcher regenerates on changes of Go sources and manifests.
type watcher struct {
	g        *generator
	args     []string
	debounce time.Duration
	// generated, if set, is called after every regeneration.
	generated func(*gen.Result, error)
}

func (w *watcher) run(ctx context.Context) error {
	roots, err := watchRoots(w.args)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()
	for _, dir := range roots {
		if err := fw.Add(dir); err != nil {
			w.g.log.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}
	w.g.log.Info("watching for changes", "directories", len(roots))
	w.regenerate(ctx)

	var (
		timer   *time.Timer
		pending = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && w.recursive() {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !ignoredDirs[info.Name()] {
					_ = fw.Add(ev.Name)
				}
			}
			if !relevant(ev) {
				continue
			}
			w.g.log.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.g.log.Warn("file watcher error", "error", err)
		case <-pending:
			w.regenerate(ctx)
		}
	}
}

func (w *watcher) regenerate(ctx context.Context) {
	res, err := w.g.run(ctx, w.args)
	if err != nil {
		w.g.log.Error("regeneration failed", "error", err)
	}
	if w.generated != nil {
		w.generated(res, err)
	}
}

func (w *watcher) recursive() bool {
	for _, arg := range w.args {
		if strings.HasSuffix(arg, "/...") {
			return true
		}
	}
	return false
}

// relevant reports if the event touches a schema source. Generated files
// and tests are ignored, so a regeneration never triggers another one.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	switch {
	case strings.HasPrefix(name, "."):
		return false
	case isManifest(name):
		return true
	case strings.HasSuffix(name, ".go"):
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, load.GeneratedSuffix)
	default:
		return false
	}
}

// watchRoots returns the directories to watch for the given arguments.
// Manifests are watched through their directory and "dir/..." patterns
// recursively.
func watchRoots(args []string) ([]string, error) {
	var (
		roots []string
		seen  = make(map[string]bool)
	)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	for _, arg := range args {
		if isManifest(arg) {
			add(filepath.Dir(arg))
			continue
		}
		dir, recursive := strings.CutSuffix(arg, "/...")
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("watch: %q is not a directory or a manifest", arg)
		}
		if !recursive {
			add(dir)
			continue
		}
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && (ignoredDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("watch: walking %s: %w", dir, err)
		}
	}
	return roots, nil
}
