package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbobject"
)

func TestValidateTable(t *testing.T) {
	id := &Column{Name: "id", Kind: dbobject.KindLong, Primary: true}
	res := ValidateTable(&Table{Name: "users", Columns: []*Column{id}, PrimaryKey: []*Column{id}})
	assert.False(t, res.HasErrors())
	assert.False(t, res.HasWarnings())
	assert.Equal(t, "No issues found", res.String())

	res = ValidateTable(&Table{Name: "users", Columns: []*Column{
		{Name: "name", Kind: dbobject.KindText},
		{Name: "name", Kind: dbobject.KindUnsupported},
	}})
	assert.Len(t, res.Errors, 2)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "users: table has no primary key", res.Warnings[0].Error())

	res = ValidateTable(&Table{Name: "users"})
	assert.True(t, res.HasErrors())
}

func TestValidateDiff(t *testing.T) {
	v1 := &Table{Name: "users", Version: 1, Columns: []*Column{
		{Name: "id", Kind: dbobject.KindLong},
		{Name: "age", Kind: dbobject.KindInteger, Nullable: true},
	}}
	v2 := &Table{Name: "users", Version: 2, Columns: []*Column{
		{Name: "id", Kind: dbobject.KindText},
		{Name: "age", Kind: dbobject.KindInteger},
		{Name: "nick", Kind: dbobject.KindText, Nullable: true},
	}}
	res := ValidateDiff(v1, v2)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "users.id: column type changing from long to text", res.Errors[0].Error())
	assert.Equal(t, "users.age: column changing from NULL to NOT NULL", res.Errors[1].Error())
	assert.True(t, res.HasBreakingChanges())
	assert.Contains(t, res.String(), "[BREAKING]")

	res = ValidateDiff(v2, v1)
	var msgs []string
	for _, err := range res.Errors {
		msgs = append(msgs, err.Error())
	}
	assert.ElementsMatch(t, []string{
		"users.id: column type changing from text to long",
		"users.nick: column dropped at version 1",
	}, msgs)
}

func TestValidateVersions(t *testing.T) {
	id := &Column{Name: "id", Kind: dbobject.KindLong, Primary: true}
	v1 := &Table{Name: "users", Version: 1, Columns: []*Column{id}, PrimaryKey: []*Column{id}}
	v2 := &Table{Name: "users", Version: 2, Columns: []*Column{id, {Name: "name", Kind: dbobject.KindText}}, PrimaryKey: []*Column{id}}
	res := ValidateVersions([]*Table{v1, v2})
	assert.False(t, res.HasErrors())
	require.Len(t, res.Warnings, 1)
	assert.False(t, res.HasBreakingChanges())
	assert.Contains(t, res.String(), "Warnings:\n  - users.name: new NOT NULL column")
}
