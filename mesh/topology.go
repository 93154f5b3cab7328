package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

func (m *Mesh) checkTarget(dim, target int, below bool) error {
	if below && (target < 0 || target >= dim) {
		return fmt.Errorf("boundary dimension %d must lie in 0..%d", target, dim-1)
	}
	if !below && (target <= dim || target > m.CellDimension()) {
		return fmt.Errorf("coboundary dimension %d must lie in %d..%d", target, dim+1, m.CellDimension())
	}
	return nil
}

/*
Boundary returns the ids of the dimension target elements bounding element (dim, id):
  - target 0: the element's vertices in definition order
  - target dim-1: its facets in template order
  - otherwise: the shape's sub-element template order
*/
func (m *Mesh) Boundary(dim, id, target int) (utils.Index, error) {
	if err := m.check(dim, id); err != nil {
		return nil, err
	}
	if err := m.checkTarget(dim, target, true); err != nil {
		return nil, err
	}
	e := &m.elements[dim][id]
	switch target {
	case 0:
		return utils.Index(e.Vertices).Copy(), nil
	case dim - 1:
		return utils.Index(e.Facets).Copy(), nil
	}
	if m.Layout(dim) == LayoutFull {
		return m.eager[dim][target][id].Copy(), nil
	}
	k := [2]int{dim, target}
	m.cacheMu.RLock()
	b, ok := m.lazy[k][id]
	m.cacheMu.RUnlock()
	if ok {
		return b.Copy(), nil
	}
	b = m.computeBoundary(*e, target)
	m.cacheMu.Lock()
	if m.lazy[k] == nil {
		m.lazy[k] = make(map[int]utils.Index)
	}
	m.lazy[k][id] = b
	m.cacheMu.Unlock()
	return b.Copy(), nil
}

// computeBoundary resolves the shape's sub-element template against the key index.
func (m *Mesh) computeBoundary(e Element, target int) (b utils.Index) {
	template := subElementTemplate(e.Shape, len(e.Vertices), target)
	b = make(utils.Index, len(template))
	for i, local := range template {
		b[i] = m.keys[target][types.NewCanonicalKey(gather(e.Vertices, local))]
	}
	return
}

// Coboundary returns, in ascending order, the dimension target elements whose boundary contains (dim, id).
func (m *Mesh) Coboundary(dim, id, target int) (utils.Index, error) {
	if err := m.check(dim, id); err != nil {
		return nil, err
	}
	if err := m.checkTarget(dim, target, false); err != nil {
		return nil, err
	}
	return m.coboundaryTable(dim, target)[id].Copy(), nil
}

// coboundaryTable inverts Boundary(target -> dim) over the whole mesh, caching the result.
func (m *Mesh) coboundaryTable(dim, target int) []utils.Index {
	k := [2]int{dim, target}
	m.cacheMu.RLock()
	table, ok := m.coboundary[k]
	gen := m.generation
	m.cacheMu.RUnlock()
	if ok {
		return table
	}
	table = make([]utils.Index, m.Count(dim))
	for cid := range m.elements[target] {
		b, _ := m.Boundary(target, cid, dim)
		for _, bid := range b {
			table[bid] = append(table[bid], cid)
		}
	}
	m.cacheMu.Lock()
	if m.generation == gen {
		m.coboundary[k] = table
	}
	m.cacheMu.Unlock()
	return table
}

/*
Neighbor returns the elements of dimension neighborDim that share at least one
element of dimension connectorDim with (dim, id), excluding the element itself.
The connector may lie below the element (cells sharing a facet) or above it
(vertices joined by an edge). The result is ascending and free of duplicates.
*/
func (m *Mesh) Neighbor(dim, id, connectorDim, neighborDim int) (utils.Index, error) {
	if err := m.check(dim, id); err != nil {
		return nil, err
	}
	if connectorDim == dim || connectorDim < 0 || connectorDim > m.CellDimension() {
		return nil, fmt.Errorf("connector dimension %d invalid for element dimension %d", connectorDim, dim)
	}
	if neighborDim < 0 || neighborDim > m.CellDimension() {
		return nil, fmt.Errorf("neighbor dimension %d outside 0..%d", neighborDim, m.CellDimension())
	}
	connectors, err := m.related(dim, id, connectorDim)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var r utils.Index
	for _, c := range connectors {
		candidates, err := m.related(connectorDim, c, neighborDim)
		if err != nil {
			return nil, err
		}
		for _, n := range candidates {
			if (neighborDim == dim && n == id) || seen[n] {
				continue
			}
			seen[n] = true
			r = append(r, n)
		}
	}
	sort.Ints(r)
	return r, nil
}

// related dispatches to Boundary or Coboundary depending on the direction of target.
func (m *Mesh) related(dim, id, target int) (utils.Index, error) {
	switch {
	case target < dim:
		return m.Boundary(dim, id, target)
	case target > dim:
		return m.Coboundary(dim, id, target)
	}
	return utils.Index{id}, nil
}

/*
IsBoundary reports whether (dim, id) lies on the mesh boundary. A facet is on the
boundary when exactly one cell contains it; a cell when one of its facets is; a
lower dimensional element when one of the boundary facets contains it.
*/
func (m *Mesh) IsBoundary(dim, id int) (bool, error) {
	if err := m.check(dim, id); err != nil {
		return false, err
	}
	return m.isBoundary(dim, id, m.boundaryFacets(), func(int, int) bool { return true })
}

// isBoundary evaluates the boundary test against a facet flag table, restricted
// to elements accepted by member.
func (m *Mesh) isBoundary(dim, id int, facets map[int]bool, member func(dim, id int) bool) (bool, error) {
	D := m.CellDimension()
	var (
		candidates utils.Index
		err        error
	)
	switch {
	case dim == D-1:
		return facets[id], nil
	case dim == D:
		candidates = m.elements[D][id].Facets
	default:
		if candidates, err = m.Coboundary(dim, id, D-1); err != nil {
			return false, err
		}
	}
	for _, f := range candidates {
		if member(D-1, f) && facets[f] {
			return true, nil
		}
	}
	return false, nil
}

// boundaryFacets flags facets contained in exactly one cell.
func (m *Mesh) boundaryFacets() map[int]bool {
	m.cacheMu.RLock()
	flags := m.boundaryFct
	m.cacheMu.RUnlock()
	if flags != nil {
		return flags
	}
	D := m.CellDimension()
	flags = make(map[int]bool)
	for f, cells := range m.coboundaryTable(D-1, D) {
		if len(cells) == 1 {
			flags[f] = true
		}
	}
	m.cacheMu.Lock()
	m.boundaryFct = flags
	m.cacheMu.Unlock()
	return flags
}

// BoundaryElements lists the dimension dim elements on the mesh boundary.
func (m *Mesh) BoundaryElements(dim int) (r utils.Index, err error) {
	for id := 0; id < m.Count(dim); id++ {
		var on bool
		if on, err = m.IsBoundary(dim, id); err != nil {
			return nil, err
		}
		if on {
			r = append(r, id)
		}
	}
	return
}

// FacetOrientation returns the permutation relating local facet i of (dim, id)
// to the facet's stored vertex order.
func (m *Mesh) FacetOrientation(dim, id, i int) (types.Permutation, error) {
	if err := m.check(dim, id); err != nil {
		return nil, err
	}
	e := &m.elements[dim][id]
	if dim == 0 || i < 0 || i >= len(e.Facets) {
		return nil, &types.IndexError{Dim: dim - 1, ID: i, Count: len(e.Facets), Owner: fmt.Sprintf("facet list of %s %d", e.Shape, id)}
	}
	return e.FacetOrientation[i], nil
}

// FacetSign is the relative orientation (+1 or -1) of local facet i of the
// element with respect to the facet's stored orientation.
func (m *Mesh) FacetSign(dim, id, i int) (int, error) {
	perm, err := m.FacetOrientation(dim, id, i)
	if err != nil {
		return 0, err
	}
	shape := m.elements[dim][id].Shape
	return facetSign(shape, i) * perm.Sign(facetShape(shape)), nil
}

func (m *Mesh) invalidate() {
	m.cacheMu.Lock()
	m.generation++
	clear(m.coboundary)
	m.boundaryFct = nil
	m.cacheMu.Unlock()
}
