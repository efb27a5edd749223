package gen

import (
	"maps"
	"slices"
)

// VersionGroups holds the columns of a type grouped by schema version.
// Versions without columns are absent.
type VersionGroups struct {
	versions []int
	groups   map[int][]*ColumnSpec
}

// Partition groups the specs by version. Encounter order is kept inside
// a group.
func Partition(specs []*ColumnSpec) *VersionGroups {
	g := &VersionGroups{groups: make(map[int][]*ColumnSpec)}
	for _, s := range specs {
		if s == nil {
			continue
		}
		g.groups[s.Version] = append(g.groups[s.Version], s)
	}
	g.versions = slices.Sorted(maps.Keys(g.groups))
	return g
}

// Versions returns the versions that have columns, in ascending order.
func (g *VersionGroups) Versions() []int {
	return slices.Clone(g.versions)
}

// Len returns the number of versions.
func (g *VersionGroups) Len() int { return len(g.versions) }

// Has reports if the version has columns.
func (g *VersionGroups) Has(v int) bool {
	_, ok := g.groups[v]
	return ok
}

// Columns returns the columns introduced at version v.
func (g *VersionGroups) Columns(v int) []*ColumnSpec {
	return slices.Clone(g.groups[v])
}

// Cumulative returns the columns of all versions up to and including v,
// ordered by version first and encounter order second.
func (g *VersionGroups) Cumulative(v int) []*ColumnSpec {
	var specs []*ColumnSpec
	for _, ver := range g.versions {
		if ver > v {
			break
		}
		specs = append(specs, g.groups[ver]...)
	}
	return specs
}

// Latest returns the highest version, or 0 if there are no columns.
func (g *VersionGroups) Latest() int {
	if len(g.versions) == 0 {
		return 0
	}
	return g.versions[len(g.versions)-1]
}
