package mesh

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// Region is a named subset of a mesh's elements. It records membership only.
type Region struct {
	id      int
	name    string
	mesh    *Mesh
	members []*roaring.Bitmap // One per dimension
}

// CreateRegion adds an empty region. Names are unique within a mesh.
func (m *Mesh) CreateRegion(name string) (*Region, error) {
	if _, exists := m.regions[name]; exists {
		return nil, fmt.Errorf("region %q already exists", name)
	}
	r := &Region{
		id:      m.nextRegion,
		name:    name,
		mesh:    m,
		members: make([]*roaring.Bitmap, m.CellDimension()+1),
	}
	for d := range r.members {
		r.members[d] = roaring.New()
	}
	m.nextRegion++
	m.regions[name] = r
	return r, nil
}

// Region returns the named region, nil if there is none.
func (m *Mesh) Region(name string) *Region { return m.regions[name] }

// Regions returns all regions ordered by creation.
func (m *Mesh) Regions() (rs []*Region) {
	rs = make([]*Region, 0, len(m.regions))
	for _, r := range m.regions {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].id < rs[j].id })
	return
}

// DeleteRegion drops the region; the elements stay in the mesh.
func (m *Mesh) DeleteRegion(name string) bool {
	r, ok := m.regions[name]
	if ok {
		delete(m.regions, name)
		r.mesh = nil
	}
	return ok
}

// ElementRegions returns the regions containing (dim, id), ordered by creation.
func (m *Mesh) ElementRegions(dim, id int) ([]*Region, error) {
	if err := m.check(dim, id); err != nil {
		return nil, err
	}
	var rs []*Region
	for _, r := range m.Regions() {
		if r.Contains(dim, id) {
			rs = append(rs, r)
		}
	}
	return rs, nil
}

func (r *Region) ID() int { return r.id }

func (r *Region) Name() string { return r.name }

func (r *Region) Mesh() *Mesh { return r.mesh }

func (r *Region) owner() (*Mesh, error) {
	if r.mesh == nil {
		return nil, fmt.Errorf("region %q was deleted", r.name)
	}
	return r.mesh, nil
}

func (r *Region) checkMember(dim, id int) error {
	m, err := r.owner()
	if err != nil {
		return err
	}
	if err = m.check(dim, id); err != nil {
		return fmt.Errorf("region %q: %w", r.name, err)
	}
	return nil
}

// Add marks (dim, id) as a member without touching its boundary.
func (r *Region) Add(dim, id int) error {
	if err := r.checkMember(dim, id); err != nil {
		return err
	}
	r.members[dim].Add(uint32(id))
	return nil
}

// AddRecursive marks (dim, id) and every element of its boundary closure.
func (r *Region) AddRecursive(dim, id int) error {
	if err := r.Add(dim, id); err != nil {
		return err
	}
	for t := 0; t < dim; t++ {
		b, err := r.mesh.Boundary(dim, id, t)
		if err != nil {
			return err
		}
		for _, bid := range b {
			r.members[t].Add(uint32(bid))
		}
	}
	return nil
}

func (r *Region) Contains(dim, id int) bool {
	if dim < 0 || dim >= len(r.members) || id < 0 {
		return false
	}
	return r.members[dim].Contains(uint32(id))
}

// Count is the number of members of dimension dim.
func (r *Region) Count(dim int) int {
	if dim < 0 || dim >= len(r.members) {
		return 0
	}
	return int(r.members[dim].GetCardinality())
}

// ElementRange lists the members of dimension dim in ascending id order.
func (r *Region) ElementRange(dim int) utils.Index {
	if dim < 0 || dim >= len(r.members) {
		return nil
	}
	ids := r.members[dim].ToArray()
	I := utils.NewIndex(len(ids))
	for i, id := range ids {
		I[i] = int(id)
	}
	return I
}

// Members exposes the membership bitmap of dimension dim, read only.
// Out of range dimensions return nil.
func (r *Region) Members(dim int) *roaring.Bitmap {
	if dim < 0 || dim >= len(r.members) {
		return nil
	}
	return r.members[dim]
}

// Coboundary is the mesh coboundary restricted to region members.
func (r *Region) Coboundary(dim, id, target int) (utils.Index, error) {
	m, err := r.owner()
	if err != nil {
		return nil, err
	}
	cob, err := m.Coboundary(dim, id, target)
	if err != nil {
		return nil, err
	}
	var I utils.Index
	for _, c := range cob {
		if r.Contains(target, c) {
			I = append(I, c)
		}
	}
	return I, nil
}

// IsRegionBoundary reports whether the member (dim, id) lies on the boundary of
// the region's cells: a facet contained in exactly one member cell, or an element
// touching such a facet.
func (r *Region) IsRegionBoundary(dim, id int) (bool, error) {
	if err := r.checkMember(dim, id); err != nil {
		return false, err
	}
	if !r.Contains(dim, id) {
		return false, nil
	}
	var (
		m     = r.mesh
		D     = m.CellDimension()
		table = m.coboundaryTable(D-1, D)
		flags = make(map[int]bool)
	)
	count := func(f int) bool {
		var n int
		for _, c := range table[f] {
			if r.Contains(D, c) {
				n++
			}
		}
		return n == 1
	}
	switch dim {
	case D - 1:
		return count(id), nil
	case D:
		for _, f := range m.elements[D][id].Facets {
			flags[f] = count(f)
		}
	default:
		cob, _ := m.Coboundary(dim, id, D-1)
		for _, f := range cob {
			flags[f] = count(f)
		}
	}
	return m.isBoundary(dim, id, flags, func(int, int) bool { return true })
}

// Restore replaces the membership of dimension dim from a serialized bitmap.
func (r *Region) Restore(dim int, bm *roaring.Bitmap) error {
	m, err := r.owner()
	if err != nil {
		return err
	}
	if dim < 0 || dim >= len(r.members) {
		return &types.IndexError{Dim: dim, Owner: "region " + r.name}
	}
	if !bm.IsEmpty() && int(bm.Maximum()) >= m.Count(dim) {
		return fmt.Errorf("region %q: %w", r.name, &types.IndexError{Dim: dim, ID: int(bm.Maximum()), Count: m.Count(dim)})
	}
	r.members[dim] = bm
	return nil
}
