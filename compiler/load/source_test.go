package load

import (
	"context"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	src := `package models

// Plain is ignored.
type Plain struct{ A int }

type (
	// Pet is grouped with other types.
	//dbobject:generate table=pets
	Pet struct {
		mName, mNick string ` + "`dbcolumn:\"allowNull=false\"`" + `
		mAge int64
		Plain
	}
	Other struct{ B int }
)
`
	schemas, err := ParseFile(token.NewFileSet(), "/src/models/pet.go", src)
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	s := schemas[0]
	assert.Equal(t, "Pet", s.Name)
	assert.Equal(t, "models", s.Package)
	assert.Equal(t, "/src/models", s.Dir)
	assert.Equal(t, "pets", s.Table)
	assert.Equal(t, 1, s.LatestVersion)
	require.Len(t, s.Fields, 3)
	assert.Equal(t, "mName", s.Fields[0].Name)
	assert.Equal(t, "mNick", s.Fields[1].Name)
	assert.Equal(t, "string", s.Fields[1].Type)
	require.NotNil(t, s.Fields[0].Column)
	require.NotNil(t, s.Fields[1].Column)
	assert.NotSame(t, s.Fields[0].Column, s.Fields[1].Column)
	assert.Equal(t, "false", s.Fields[1].Column.AllowNull)
	assert.Equal(t, "int64", s.Fields[2].Type)
	assert.Nil(t, s.Fields[2].Column)
	assert.Len(t, s.Annotated(), 2)
}

func TestParseFileSyntaxError(t *testing.T) {
	_, err := ParseFile(token.NewFileSet(), "broken.go", "package x\ntype {")
	require.Error(t, err)
}

func TestParseDir(t *testing.T) {
	schemas, err := ParseDir(filepath.Join("testdata", "valid"))
	require.NoError(t, err)
	require.Len(t, schemas, 1, "generated files and unannotated types are skipped")
	s := schemas[0]
	assert.Equal(t, "User", s.Name)
	assert.Equal(t, "valid", s.Package)
	assert.Equal(t, 2, s.LatestVersion)
	require.Len(t, s.Fields, 6)
	assert.Len(t, s.Annotated(), 4)
	assert.Equal(t, &Column{AllowNull: "false", Primary: "true", Version: 1}, s.Fields[0].Column)
	assert.Equal(t, 2, s.Fields[3].Column.Version)
}

func TestParseDirFailure(t *testing.T) {
	schemas, err := ParseDir(filepath.Join("testdata", "failure"))
	require.Error(t, err)
	require.Len(t, schemas, 1, "valid types are kept")
	assert.Equal(t, "Good", schemas[0].Name)
	errs := ErrorsOf(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "Bad", errs[0].Schema)
	assert.Equal(t, "mAge", errs[0].Field)
}

func TestLoad(t *testing.T) {
	schemas, err := Load(context.Background(), &Config{}, "./testdata/valid")
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "User", schemas[0].Name)
	assert.True(t, filepath.IsAbs(schemas[0].Dir))
}
