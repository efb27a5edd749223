package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbobject/compiler/load"
)

func testSchemas(dir string) []*load.Schema {
	pet := &load.Schema{
		Name:    "Pet",
		Package: "models",
		Dir:     dir,
		Fields: []*load.Field{
			field("mName", "string", column("", "false", "", 1)),
			field("mBorn", "time.Time", load.NewColumn()),
		},
	}
	empty := &load.Schema{
		Name:    "Empty",
		Package: "models",
		Dir:     dir,
		Fields:  []*load.Field{field("mAt", "time.Time", load.NewColumn())},
	}
	return []*load.Schema{userSchema(dir), empty, pet}
}

func TestGenerate(t *testing.T) {
	w := &MemWriter{}
	rec := &Recorder{}
	res, err := NewGenerator(MustNewConfig(WithWriter(w)), rec).Generate(context.Background(), testSchemas("/src/models"))
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Pet"}, res.Written)
	assert.Equal(t, []string{"Empty"}, res.Skipped)
	assert.Empty(t, res.Failed)
	assert.Equal(t, filepath.Join("/src/models", "user_dbobject.go"), res.Files["User"])
	assert.Len(t, w.Files, 2)
	assert.Contains(t, string(w.Files[filepath.Join("/src/models", "pet_dbobject.go")]), "type PetDBObject struct")
	assert.Equal(t, 3, rec.Count(SeverityWarning), "unsupported Empty.mAt, no columns in Empty, unsupported Pet.mBorn")
	assert.Zero(t, rec.Count(SeverityError))

	res, err = NewGenerator(MustNewConfig(WithWriter(w)), nil).Generate(context.Background(), testSchemas("/src/models"))
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Equal(t, []string{"User", "Pet"}, res.Unchanged)
}

func TestGenerateWriteFailure(t *testing.T) {
	w := &MemWriter{Fail: map[string]error{"User": errors.New("disk full")}}
	rec := &Recorder{}
	res, err := NewGenerator(MustNewConfig(WithWriter(w)), rec).Generate(context.Background(), testSchemas("/src/models"))
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, res.Failed)
	assert.Equal(t, []string{"Pet"}, res.Written)
	require.Equal(t, 1, rec.Count(SeverityError))
	for _, d := range rec.Diagnostics() {
		if d.Severity == SeverityError {
			assert.Contains(t, d.Message, "User")
			assert.Contains(t, d.Message, "disk full")
		}
	}
}

func TestGenerateDiagnosticsOrder(t *testing.T) {
	var runs [][]Diagnostic
	for _, workers := range []int{1, 4, 16} {
		rec := &Recorder{}
		_, err := NewGenerator(MustNewConfig(WithWriter(&MemWriter{}), WithWorkers(workers)), rec).Generate(context.Background(), testSchemas(""))
		require.NoError(t, err)
		runs = append(runs, rec.Diagnostics())
	}
	assert.Equal(t, runs[0], runs[1])
	assert.Equal(t, runs[0], runs[2])
	// Diagnostics of User come before the ones of Empty and Pet.
	assert.Contains(t, runs[0][0].Message, "User.")
	assert.Contains(t, runs[0][len(runs[0])-1].Message, "PetDBObject")
}

func TestGenerateDiagnosticsOrderMigrations(t *testing.T) {
	var (
		names   []string
		schemas []*load.Schema
	)
	for i := range 8 {
		name := fmt.Sprintf("T%d", i)
		names = append(names, name)
		schemas = append(schemas, &load.Schema{
			Name:          name,
			Package:       "models",
			LatestVersion: 1,
			Fields:        []*load.Field{field("mName", "string", load.NewColumn())},
		})
	}
	for _, workers := range []int{1, 8} {
		rec := &Recorder{}
		_, err := Generate(context.Background(), rec, schemas,
			WithWriter(&MemWriter{}), WithWorkers(workers), WithFeatures(FeatureMigrations), WithMigrator(staticMigrator{}))
		require.NoError(t, err)
		require.Equal(t, len(names), rec.Count(SeverityWarning), "one missing primary key warning per type")
		i := 0
		for _, d := range rec.Diagnostics() {
			for !strings.HasPrefix(d.Message, names[i]) {
				i++
				require.Less(t, i, len(names), "diagnostic out of input order: %s", d.Message)
			}
		}
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewGenerator(MustNewConfig(WithWriter(&MemWriter{})), nil).Generate(ctx, testSchemas(""))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Written)
}

func TestGenerateConfigErrors(t *testing.T) {
	_, err := NewGenerator(nil, nil).Generate(context.Background(), nil)
	require.True(t, IsConfigError(err))

	_, err = NewGenerator(MustNewConfig(WithFeatures(FeatureMigrations)), nil).Generate(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)

	_, err = Generate(context.Background(), nil, nil, WithWorkers(0))
	require.True(t, IsConfigError(err))
}

func TestGenerateMigrations(t *testing.T) {
	w := &MemWriter{}
	res, err := Generate(context.Background(), nil, []*load.Schema{userSchema("")},
		WithWriter(w), WithFeatures(FeatureMigrations), WithMigrator(staticMigrator{}))
	require.NoError(t, err)
	require.Equal(t, []string{"User"}, res.Written)
	assert.Contains(t, string(w.Files["user_dbobject.go"]), "var UserMigrations = []dbobject.Migration{")
}

type failingMigrator struct{}

func (failingMigrator) Migrations(context.Context, *Type, Reporter) ([]*Migration, error) {
	return nil, errors.New("no dialect")
}

func TestGenerateMigrationFailure(t *testing.T) {
	rec := &Recorder{}
	res, err := Generate(context.Background(), rec, []*load.Schema{userSchema("")},
		WithWriter(&MemWriter{}), WithFeatures(FeatureMigrations), WithMigrator(failingMigrator{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, res.Failed)
	require.Equal(t, 1, rec.Count(SeverityError))
	assert.Contains(t, rec.Diagnostics()[len(rec.Diagnostics())-1].Message, "no dialect")
}

func TestGenerateInvalidSchema(t *testing.T) {
	rec := &Recorder{}
	res, err := Generate(context.Background(), rec, []*load.Schema{{Name: "bad", Package: "models"}, userSchema("")}, WithWriter(&MemWriter{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, res.Failed)
	assert.Equal(t, []string{"User"}, res.Written)
}

func TestGenerateFiles(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, ".dbgen", "cache")
	opts := []Option{WithCacheFile(cache)}

	res, err := Generate(context.Background(), nil, testSchemas(dir), opts...)
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Pet"}, res.Written)
	buf, err := os.ReadFile(filepath.Join(dir, "user_dbobject.go"))
	require.NoError(t, err)
	assert.Contains(t, string(buf), "func NewUserDBObject(ctx context.Context) (*UserDBObject, error) {")
	assert.FileExists(t, cache)

	res, err = Generate(context.Background(), nil, testSchemas(dir), opts...)
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Pet"}, res.Unchanged)

	// A removed file is written again.
	require.NoError(t, os.Remove(filepath.Join(dir, "pet_dbobject.go")))
	res, err = Generate(context.Background(), nil, testSchemas(dir), opts...)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet"}, res.Written)
	assert.Equal(t, []string{"User"}, res.Unchanged)

	// A file edited by hand is restored.
	user := filepath.Join(dir, "user_dbobject.go")
	require.NoError(t, os.WriteFile(user, []byte("package models\n"), 0o644))
	res, err = Generate(context.Background(), nil, testSchemas(dir), opts...)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, res.Written)
	restored, err := os.ReadFile(user)
	require.NoError(t, err)
	assert.Equal(t, buf, restored)
}

func TestGenerateWithoutCache(t *testing.T) {
	dir := t.TempDir()
	res, err := Generate(context.Background(), nil, testSchemas(dir), WithTarget(filepath.Join(dir, "out")))
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Pet"}, res.Written)
	assert.FileExists(t, filepath.Join(dir, "out", "user_dbobject.go"))
	assert.NoFileExists(t, filepath.Join(dir, "out", DefaultCacheFile))

	res, err = Generate(context.Background(), nil, testSchemas(dir), WithTarget(filepath.Join(dir, "out")))
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Pet"}, res.Unchanged, "identical content is not rewritten")
}
