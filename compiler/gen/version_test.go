package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	c1 := &ColumnSpec{Name: "c1", Version: 2}
	c2 := &ColumnSpec{Name: "c2", Version: 1}
	c3 := &ColumnSpec{Name: "c3", Version: 2}
	c4 := &ColumnSpec{Name: "c4", Version: 1}
	g := Partition([]*ColumnSpec{c1, c2, c3, c4})

	assert.Equal(t, []int{1, 2}, g.Versions())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []*ColumnSpec{c2, c4}, g.Columns(1))
	assert.Equal(t, []*ColumnSpec{c1, c3}, g.Columns(2))
	assert.Empty(t, g.Columns(3))
	assert.True(t, g.Has(1))
	assert.False(t, g.Has(3))
	assert.Equal(t, 2, g.Latest())

	assert.Equal(t, []*ColumnSpec{c2, c4}, g.Cumulative(1))
	assert.Equal(t, []*ColumnSpec{c2, c4, c1, c3}, g.Cumulative(2))
	assert.Equal(t, []*ColumnSpec{c2, c4, c1, c3}, g.Cumulative(7))
	assert.Empty(t, g.Cumulative(0))

	versions := g.Versions()
	versions[0] = 9
	assert.Equal(t, []int{1, 2}, g.Versions(), "versions are copied")
}

func TestPartitionSparse(t *testing.T) {
	a := &ColumnSpec{Name: "a", Version: 5}
	b := &ColumnSpec{Name: "b", Version: 1}
	g := Partition([]*ColumnSpec{a, nil, b})
	assert.Equal(t, []int{1, 5}, g.Versions())
	assert.False(t, g.Has(3), "empty versions are absent")
	assert.Equal(t, []*ColumnSpec{b}, g.Cumulative(4))

	empty := Partition(nil)
	assert.Zero(t, empty.Len())
	assert.Zero(t, empty.Latest())
	assert.Empty(t, empty.Versions())
}
