package mesh

import (
	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/types"
)

// Point implements geometry.PointAccessor over the mesh's own point table.
func (m *Mesh) Point(id int) (geometry.Point, error) {
	if err := m.check(0, id); err != nil {
		return nil, err
	}
	return m.points[id], nil
}

// Points returns the point table, indexed by vertex id.
func (m *Mesh) Points() geometry.PointTable { return m.points }

func (m *Mesh) accessor(acc geometry.PointAccessor) geometry.PointAccessor {
	if acc == nil {
		return m
	}
	return acc
}

// Primitive resolves the element's vertices through acc, or the mesh points when acc is nil.
func (m *Mesh) Primitive(dim, id int, acc geometry.PointAccessor) (geometry.Primitive, error) {
	if err := m.check(dim, id); err != nil {
		return geometry.Primitive{}, err
	}
	e := &m.elements[dim][id]
	return geometry.PrimitiveOf(e.Shape, m.accessor(acc), e.Vertices)
}

func (m *Mesh) ClosestPoints(a, b ElementRef, acc geometry.PointAccessor) (geometry.Pair, error) {
	pa, pb, err := m.primitivePair(a, b, acc)
	if err != nil {
		return geometry.Pair{}, err
	}
	return m.engine.ClosestPoints(pa, pb)
}

func (m *Mesh) Distance(a, b ElementRef, acc geometry.PointAccessor) (float64, error) {
	pa, pb, err := m.primitivePair(a, b, acc)
	if err != nil {
		return 0, err
	}
	return m.engine.Distance(pa, pb)
}

// DistanceToPoint measures from an arbitrary location to the element.
func (m *Mesh) DistanceToPoint(p geometry.Point, e ElementRef, acc geometry.PointAccessor) (float64, error) {
	pe, err := m.Primitive(e.Dim, e.ID, acc)
	if err != nil {
		return 0, err
	}
	return m.engine.Distance(geometry.Primitive{Shape: types.Vertex, Points: []geometry.Point{p}}, pe)
}

func (m *Mesh) primitivePair(a, b ElementRef, acc geometry.PointAccessor) (pa, pb geometry.Primitive, err error) {
	if pa, err = m.Primitive(a.Dim, a.ID, acc); err != nil {
		return
	}
	pb, err = m.Primitive(b.Dim, b.ID, acc)
	return
}

// Circumcenter of the element; see geometry.Engine.Circumcenter for degenerate input.
func (m *Mesh) Circumcenter(dim, id int, acc geometry.PointAccessor) (geometry.Point, error) {
	p, err := m.Primitive(dim, id, acc)
	if err != nil {
		return nil, err
	}
	return m.engine.Circumcenter(p)
}

func (m *Mesh) Volume(dim, id int, acc geometry.PointAccessor) (float64, error) {
	p, err := m.Primitive(dim, id, acc)
	if err != nil {
		return 0, err
	}
	return p.Volume(), nil
}

func (m *Mesh) Centroid(dim, id int, acc geometry.PointAccessor) (geometry.Point, error) {
	p, err := m.Primitive(dim, id, acc)
	if err != nil {
		return nil, err
	}
	return p.Centroid(), nil
}
