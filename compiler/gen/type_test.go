package gen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbobject/compiler/load"
)

// userSchema returns the User object type with five columns over two versions.
func userSchema(dir string) *load.Schema {
	return &load.Schema{
		Name:          "User",
		Package:       "models",
		Dir:           dir,
		LatestVersion: 2,
		Fields: []*load.Field{
			field("mUserId", "long", column("", "true", "true", 1)),
			field("mUserName", "String", column("user_name", "false", "false", 1)),
			field("mAge", "int", column("age", "true", "false", 1)),
			field("mMarried", "boolean", column("married", "true", "false", 1)),
			field("mScore", "double", column("score", "true", "false", 2)),
			field("mCache", "string", nil),
		},
	}
}

func TestType(t *testing.T) {
	require := require.New(t)
	rec := &Recorder{}
	typ, err := NewType(MustNewConfig(), userSchema("/src/models"), rec)
	require.NoError(err)
	require.Equal("User", typ.Name)
	require.Equal("UserDBObject", typ.ClassName())
	require.Equal("NewUserDBObject", typ.Constructor())
	require.Equal("NewUserDBObjectVersion", typ.VersionConstructor())
	require.Equal("UserColumnsV2", typ.GroupName(2))
	require.Equal("users", typ.Table())
	require.Equal("models", typ.PackageName)
	require.Equal(filepath.Join("/src/models", "user_dbobject.go"), typ.Filename())
	require.Equal(2, typ.LatestVersion)
	require.Len(typ.Columns, 5)
	require.Equal([]int{1, 2}, typ.Groups.Versions())
	require.Len(typ.Groups.Columns(1), 4)
	require.Len(typ.Groups.Cumulative(2), 5)
	require.Len(typ.PrimaryKey(), 1)
	require.Equal("user_id", typ.PrimaryKey()[0].Name)
	require.Zero(rec.Count(SeverityWarning))
	require.Equal(5, rec.Count(SeverityNote))
}

func TestTypeDefaults(t *testing.T) {
	s := &load.Schema{
		Name:    "Pet",
		Package: "models",
		Table:   "animals",
		Fields: []*load.Field{
			field("mName", "string", load.NewColumn()),
		},
	}
	typ, err := NewType(MustNewConfig(WithTarget("out/gen-models")), s, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, typ.LatestVersion)
	assert.Equal(t, "animals", typ.Table())
	assert.Equal(t, "out/gen-models", typ.Dir)
	assert.Equal(t, "gen_models", typ.PackageName)
}

func TestTypeErrors(t *testing.T) {
	_, err := NewType(MustNewConfig(), nil, nil)
	require.Error(t, err)

	for _, name := range []string{"", "user", "../User", "User-1", "_User"} {
		_, err := NewType(MustNewConfig(), &load.Schema{Name: name, Package: "models"}, nil)
		require.Error(t, err, name)
		assert.True(t, IsSchemaError(err), name)
		assert.ErrorIs(t, err, ErrInvalidSchema)
	}

	_, err = NewType(MustNewConfig(), &load.Schema{Name: "User"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing package name")
}

func TestTypeRedeclared(t *testing.T) {
	rec := &Recorder{}
	s := &load.Schema{
		Name:    "User",
		Package: "models",
		Fields: []*load.Field{
			field("mName", "string", load.NewColumn()),
			field("sName", "string", load.NewColumn()),
			field("mTitle", "string", column("name", "", "", 1)),
			field("mLabel", "string", column("label", "", "", 1)),
			field("sLabel", "string", column("label2", "", "", 1)),
		},
	}
	typ, err := NewType(MustNewConfig(), s, rec)
	require.NoError(t, err)
	require.Len(t, typ.Columns, 2)
	assert.Equal(t, "name", typ.Columns[0].Name)
	assert.Equal(t, "label", typ.Columns[1].Name)
	assert.Equal(t, 3, rec.Count(SeverityWarning), "two redeclared columns and one accessor conflict")
}

func TestTypeLatestVersionWithoutColumns(t *testing.T) {
	rec := &Recorder{}
	s := userSchema("")
	s.LatestVersion = 3
	typ, err := NewType(MustNewConfig(), s, rec)
	require.NoError(t, err)
	assert.True(t, typ.HasColumns())
	require.Equal(t, 1, rec.Count(SeverityWarning))
	assert.Contains(t, rec.Diagnostics()[len(rec.Diagnostics())-1].Message, "latest version 3")
}

func TestTypeWithoutAccessors(t *testing.T) {
	typ, err := NewType(MustNewConfig(WithoutFeatures(FeatureAccessors)), userSchema(""), nil)
	require.NoError(t, err)
	for _, c := range typ.Columns {
		assert.Nil(t, c.Getter)
		assert.Nil(t, c.Setter)
	}
}

func TestValidSchemaName(t *testing.T) {
	require.NoError(t, ValidSchemaName("User"))
	require.NoError(t, ValidSchemaName("UserInfo"))
	require.Error(t, ValidSchemaName(""))
	require.Error(t, ValidSchemaName(".User"))
	require.Error(t, ValidSchemaName("a/b"))
	require.Error(t, ValidSchemaName("user"))
	require.Error(t, ValidSchemaName("_User"))
}
