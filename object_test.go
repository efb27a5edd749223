package dbobject_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbobject"
)

var (
	colID      = dbobject.NewLongColumn("user_id", true, true, 1)
	colName    = dbobject.NewTextColumn("user_name", false, false, 1)
	colMarried = dbobject.NewIntegerColumn("married", true, false, 1)
	colScore   = dbobject.NewDoubleColumn("score", true, false, 2)
)

func TestColumn(t *testing.T) {
	t.Parallel()

	assert.False(t, colID.AllowNull, "primary column never allows null")
	assert.True(t, colID.Primary)
	assert.Equal(t, dbobject.KindLong, colID.Kind)
	assert.Equal(t, "score double (v2)", colScore.String())
	assert.Equal(t, "integer", dbobject.KindInteger.String())
	assert.Equal(t, "Kind(42)", dbobject.Kind(42).String())
	assert.True(t, dbobject.KindText.Valid())
	assert.False(t, dbobject.KindUnsupported.Valid())
	assert.Equal(t, 1, dbobject.BoolValue(true))
	assert.Equal(t, 0, dbobject.BoolValue(false))
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	templ := dbobject.NewTemplate()
	templ.AddColumns(colID, colName, nil, colMarried)
	require.Equal(t, 3, templ.Len())
	assert.Equal(t, []*dbobject.Column{colID, colName, colMarried}, templ.Columns())
	assert.Equal(t, []*dbobject.Column{colID}, templ.PrimaryKey())

	c, ok := templ.Column("user_name")
	require.True(t, ok)
	assert.Same(t, colName, c)
	assert.True(t, templ.Has(colName))
	assert.False(t, templ.Has(colScore))
	assert.False(t, templ.Has(nil))

	// Rebinding a name keeps its position.
	renamed := dbobject.NewTextColumn("user_name", true, false, 2)
	templ.AddColumns(renamed)
	require.Equal(t, 3, templ.Len())
	assert.Same(t, renamed, templ.Columns()[1])
}

func TestDatabaseObject(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context falls back to Background.
	o := dbobject.NewDatabaseObject(nil, 1)
	require.NotNil(t, o.Context())
	assert.Equal(t, 1, o.Version())
	o.Template().AddColumns(colID, colName, colMarried)

	t.Run("typed values", func(t *testing.T) {
		require.NoError(t, o.SetValue(colID, int64(7)))
		require.NoError(t, o.SetValue(colName, "alice"))
		require.NoError(t, o.SetValue(colMarried, true))
		assert.Equal(t, int64(7), o.LongValue(colID))
		assert.Equal(t, "alice", o.TextValue(colName))
		assert.Equal(t, 1, o.IntegerValue(colMarried))
		assert.Equal(t, map[string]any{"user_id": int64(7), "user_name": "alice", "married": 1}, o.Values())
	})

	t.Run("unbound column", func(t *testing.T) {
		err := o.SetValue(colScore, 1.5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbobject.ErrUnknownColumn))
		assert.Zero(t, o.DoubleValue(colScore))
		require.Error(t, o.SetValue(nil, 1))
	})

	t.Run("null values", func(t *testing.T) {
		require.NoError(t, o.SetValue(colMarried, nil))
		_, ok := o.Value(colMarried)
		assert.False(t, ok)
		assert.Error(t, o.SetValue(colName, nil), "user_name is not nullable")
	})

	t.Run("kind mismatch", func(t *testing.T) {
		err := o.SetValue(colName, 12)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `cannot store int in text column "user_name"`)
	})
}

func TestDatabaseObject_Context(t *testing.T) {
	t.Parallel()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	o := dbobject.NewDatabaseObject(ctx, 2)
	assert.Equal(t, "v", o.Context().Value(key{}))
	assert.Equal(t, 2, o.Version())
	assert.Zero(t, o.Template().Len())
}
