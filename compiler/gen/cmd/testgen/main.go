// testgen is a simple program demonstrating the generator on in-memory schemas.
// Run: go run ./compiler/gen/cmd/testgen
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syssam/dbobject/compiler/gen"
	"github.com/syssam/dbobject/compiler/load"
	"github.com/syssam/dbobject/dialect"
	"github.com/syssam/dbobject/dialect/sql/schema"
)

func main() {
	// Create a temp directory for output
	outDir, err := os.MkdirTemp("", "dbgen-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output directory: %s\n", outDir)

	column := func(name, allowNull, primary string, version int) *load.Column {
		return &load.Column{Name: name, AllowNull: allowNull, Primary: primary, Version: version}
	}
	schemas := []*load.Schema{
		{
			Name:          "User",
			LatestVersion: 2,
			Fields: []*load.Field{
				{Name: "mUserName", Type: "String", Column: column("", "false", "true", 1)},
				{Name: "mAge", Type: "int", Column: column("", "", "", 1)},
				{Name: "mMarried", Type: "boolean", Column: column("", "false", "", 1)},
				{Name: "mScore", Type: "double", Column: column("", "", "", 2)},
				{Name: "mCache", Type: "string"},
			},
		},
		{
			Name: "Car",
			Fields: []*load.Field{
				{Name: "mModel", Type: "string", Column: column("", "false", "true", 1)},
				{Name: "mRegisteredAt", Type: "time.Time", Column: column("", "", "", 1)},
			},
		},
	}

	migrator, err := schema.NewMigrator(dialect.SQLite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	rec := &gen.Recorder{}
	res, err := gen.Generate(context.Background(), rec, schemas,
		gen.WithTarget(outDir),
		gen.WithFeatures(gen.FeatureMigrations),
		gen.WithMigrator(migrator),
	)
	for _, d := range rec.Diagnostics() {
		fmt.Println(d)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGenerated files:")
	for _, name := range res.Written {
		info, err := os.Stat(res.Files[name])
		if err != nil {
			continue
		}
		rel, _ := filepath.Rel(outDir, res.Files[name])
		fmt.Printf("  %s (%d bytes)\n", rel, info.Size())
	}

	// Show sample output
	fmt.Println("\n--- Sample: user_dbobject.go ---")
	content, err := os.ReadFile(filepath.Join(outDir, "user_dbobject.go"))
	if err == nil {
		lines := bytes.SplitAfter(content, []byte("\n"))
		if len(lines) > 80 {
			lines = append(lines[:80], []byte("... (truncated)\n"))
		}
		os.Stdout.Write(bytes.Join(lines, nil))
	}

	fmt.Printf("\nTo inspect generated code: ls -la %s\n", outDir)
	fmt.Println("Done!")
}
