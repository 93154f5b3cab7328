package mesh

import (
	"errors"
	"math"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/utils"
)

// ErrNoBoundary is returned by boundary distances of a mesh or region without boundary facets.
var ErrNoBoundary = errors.New("no boundary facets")

// Inside reports whether p lies in the element, closed boundary included.
func (m *Mesh) Inside(p geometry.Point, e ElementRef, acc geometry.PointAccessor) (bool, error) {
	pe, err := m.Primitive(e.Dim, e.ID, acc)
	if err != nil {
		return false, err
	}
	return m.engine.Inside(p, pe)
}

// BoundaryDistance is the distance from p to the nearest facet on the mesh boundary.
func (m *Mesh) BoundaryDistance(p geometry.Point, acc geometry.PointAccessor) (float64, error) {
	facets, err := m.BoundaryElements(m.CellDimension() - 1)
	if err != nil {
		return 0, err
	}
	return m.closestFacet(p, facets, acc)
}

// Surface is the summed measure of the mesh boundary facets: the perimeter of a
// surface mesh, the boundary area of a volume mesh, the endpoint count of a line mesh.
func (m *Mesh) Surface(acc geometry.PointAccessor) (float64, error) {
	facets, err := m.BoundaryElements(m.CellDimension() - 1)
	if err != nil {
		return 0, err
	}
	return m.measure(facets, acc)
}

func (m *Mesh) closestFacet(p geometry.Point, facets utils.Index, acc geometry.PointAccessor) (float64, error) {
	if len(facets) == 0 {
		return 0, ErrNoBoundary
	}
	var (
		best = math.Inf(1)
		D    = m.CellDimension()
	)
	for _, f := range facets {
		d, err := m.DistanceToPoint(p, ElementRef{D - 1, f}, acc)
		if err != nil {
			return 0, err
		}
		best = min(best, d)
	}
	return best, nil
}

func (m *Mesh) measure(facets utils.Index, acc geometry.PointAccessor) (total float64, err error) {
	D := m.CellDimension()
	for _, f := range facets {
		var vol float64
		if vol, err = m.Volume(D-1, f, acc); err != nil {
			return
		}
		total += vol
	}
	return
}

// BoundaryFacets lists the facets of member cells that belong to exactly one member
// cell, in ascending id order. Facets need not be members themselves.
func (r *Region) BoundaryFacets() (facets utils.Index, err error) {
	m, err := r.owner()
	if err != nil {
		return nil, err
	}
	var (
		D     = m.CellDimension()
		table = m.coboundaryTable(D-1, D)
		seen  = make(map[int]bool)
	)
	for _, c := range r.ElementRange(D) {
		for _, f := range m.elements[D][c].Facets {
			if seen[f] {
				continue
			}
			seen[f] = true
			var n int
			for _, cell := range table[f] {
				if r.Contains(D, cell) {
					n++
				}
			}
			if n == 1 {
				facets = append(facets, f)
			}
		}
	}
	return facets.Sorted(), nil
}

// BoundaryDistance is the distance from p to the nearest facet on the region boundary.
func (r *Region) BoundaryDistance(p geometry.Point, acc geometry.PointAccessor) (float64, error) {
	facets, err := r.BoundaryFacets()
	if err != nil {
		return 0, err
	}
	return r.mesh.closestFacet(p, facets, acc)
}

// Surface is the summed measure of the region boundary facets.
func (r *Region) Surface(acc geometry.PointAccessor) (float64, error) {
	facets, err := r.BoundaryFacets()
	if err != nil {
		return 0, err
	}
	return r.mesh.measure(facets, acc)
}

