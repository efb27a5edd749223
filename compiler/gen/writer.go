package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Output is the rendered file of one type.
type Output struct {
	// Type is the name of the annotated object type.
	Type    string
	Path    string
	Content []byte
}

// Writer persists generated files.
type Writer interface {
	// Write persists the output. It reports if the file was written, or left
	// untouched because its content did not change.
	Write(context.Context, *Output) (written bool, err error)
}

// FileWriter writes the outputs to the file system.
type FileWriter struct {
	// Cache, if set, skips the files recorded with the same content.
	Cache *Cache
}

// Write implements the Writer interface.
func (w *FileWriter) Write(ctx context.Context, out *Output) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if w.Cache != nil && w.Cache.Unchanged(out.Path, out.Content) {
		return false, nil
	}
	if w.Cache == nil {
		// Without a cache, compare with the file on disk.
		if cur, err := os.ReadFile(out.Path); err == nil && bytes.Equal(cur, out.Content) {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(out.Path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", out.Path, err)
	}
	if err := os.WriteFile(out.Path, out.Content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", out.Path, err)
	}
	if w.Cache != nil {
		w.Cache.Put(out.Path, out.Content)
	}
	return true, nil
}

// MemWriter keeps the outputs in memory. It is used by dry runs and tests.
type MemWriter struct {
	mu    sync.Mutex
	Files map[string][]byte
	// Fail, if set, is returned for the outputs of the given type names.
	Fail map[string]error
}

// Write implements the Writer interface.
func (w *MemWriter) Write(_ context.Context, out *Output) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err, ok := w.Fail[out.Type]; ok {
		return false, err
	}
	if w.Files == nil {
		w.Files = make(map[string][]byte)
	}
	if cur, ok := w.Files[out.Path]; ok && bytes.Equal(cur, out.Content) {
		return false, nil
	}
	w.Files[out.Path] = out.Content
	return true, nil
}
