package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// GeneratedSuffix is the file suffix of generated persistence objects.
// Files carrying it are never read back.
const GeneratedSuffix = "_dbobject.go"

// Config configures package loading.
type Config struct {
	// Dir is the directory package patterns are resolved from.
	Dir string
	// BuildFlags are passed to the build system (e.g. "-tags=dev").
	BuildFlags []string
}

// Load resolves the package patterns and returns the annotated types of all
// matched packages, in file and declaration order. Schemas that fail to load
// are reported in the returned error, which may be non-nil together with a
// partial result.
func Load(ctx context.Context, cfg *Config, patterns ...string) ([]*Schema, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Fset:       fset,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: loading packages %v: %w", patterns, err)
	}
	var (
		schemas []*Schema
		errs    []error
	)
	for _, pkg := range pkgs {
		if len(pkg.Syntax) == 0 && len(pkg.Errors) > 0 {
			errs = append(errs, fmt.Errorf("load: package %s: %v", pkg.PkgPath, pkg.Errors[0]))
			continue
		}
		for _, file := range pkg.Syntax {
			name := fset.Position(file.Package).Filename
			if skipFile(name) {
				continue
			}
			ss, err := inspect(fset, file, filepath.Dir(name))
			schemas = append(schemas, ss...)
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return schemas, errors.Join(errs...)
}

// ParseDir parses the non-test, non-generated Go files of dir.
func ParseDir(dir string) ([]*Schema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var (
		fset    = token.NewFileSet()
		schemas []*Schema
		errs    []error
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || skipFile(e.Name()) {
			continue
		}
		ss, err := ParseFile(fset, filepath.Join(dir, e.Name()), nil)
		schemas = append(schemas, ss...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return schemas, errors.Join(errs...)
}

// ParseFile parses one Go source file. If src is nil, the file is read
// from filename.
func ParseFile(fset *token.FileSet, filename string, src any) ([]*Schema, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return inspect(fset, file, filepath.Dir(filename))
}

func skipFile(name string) bool {
	return strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, GeneratedSuffix)
}

// inspect walks the type declarations of a file and collects the struct
// types marked with the generate directive.
func inspect(fset *token.FileSet, file *ast.File, dir string) ([]*Schema, error) {
	var (
		schemas []*Schema
		errs    []error
	)
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			pos := fset.Position(ts.Pos()).String()
			opts, ok, err := directive(doc)
			if err != nil {
				errs = append(errs, &Error{Schema: ts.Name.Name, Pos: pos, Err: err})
				continue
			}
			if !ok {
				continue
			}
			s := &Schema{
				Name:          ts.Name.Name,
				Package:       file.Name.Name,
				Dir:           dir,
				Pos:           pos,
				LatestVersion: opts.LatestVersion,
				Table:         opts.Table,
			}
			if err := s.loadFields(fset, st); err != nil {
				errs = append(errs, err)
				continue
			}
			schemas = append(schemas, s)
		}
	}
	return schemas, errors.Join(errs...)
}

func directive(doc *ast.CommentGroup) (ObjectOptions, bool, error) {
	if doc == nil {
		return ObjectOptions{}, false, nil
	}
	for _, c := range doc.List {
		if opts, ok, err := ParseDirective(c.Text); ok {
			return opts, true, err
		}
	}
	return ObjectOptions{}, false, nil
}

func (s *Schema) loadFields(fset *token.FileSet, st *ast.StructType) error {
	for _, fld := range st.Fields.List {
		// Embedded fields carry no column identity.
		if len(fld.Names) == 0 {
			continue
		}
		var (
			column *Column
			typ    = types.ExprString(fld.Type)
		)
		if fld.Tag != nil {
			raw, err := strconv.Unquote(fld.Tag.Value)
			if err != nil {
				return &Error{Schema: s.Name, Field: fld.Names[0].Name, Pos: s.Pos, Err: err}
			}
			c, ok, err := LookupColumnTag(raw)
			if err != nil {
				return &Error{Schema: s.Name, Field: fld.Names[0].Name, Pos: fset.Position(fld.Pos()).String(), Err: err}
			}
			if ok {
				column = c
			}
		}
		for _, name := range fld.Names {
			f := &Field{
				Name: name.Name,
				Type: typ,
				Pos:  fset.Position(name.Pos()).String(),
			}
			if column != nil {
				cp := *column
				f.Column = &cp
			}
			s.Fields = append(s.Fields, f)
		}
	}
	return nil
}
