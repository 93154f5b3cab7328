package mesh

import (
	"fmt"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// CreateVertex appends a vertex at point and returns its id.
func (m *Mesh) CreateVertex(point []float64) (id int, err error) {
	if len(point) != m.GeometricDimension() {
		return 0, &types.MalformedElementError{Shape: types.Vertex,
			Reason: fmt.Sprintf("point has %d coordinates, mesh expects %d", len(point), m.GeometricDimension())}
	}
	if utils.IsNan(point) {
		return 0, &types.MalformedElementError{Shape: types.Vertex, Reason: "NaN coordinate"}
	}
	id = len(m.elements[0])
	m.points = append(m.points, geometry.Point(point).Copy())
	m.elements[0] = append(m.elements[0], Element{Dim: 0, ID: id, Shape: types.Vertex, Vertices: []int{id}})
	m.invalidate()
	return id, nil
}

// CreateElement inserts an element of dimension dim defined by its ordered vertex ids.
// The shape follows from dim and the vertex count, see types.InferShape.
func (m *Mesh) CreateElement(dim int, vertices []int) (InsertResult, error) {
	if dim == 0 {
		if len(vertices) != 1 {
			return InsertResult{}, &types.MalformedElementError{Shape: types.Vertex, IDs: vertices, Reason: "a vertex is its own single id"}
		}
		if err := m.check(0, vertices[0]); err != nil {
			return InsertResult{}, err
		}
		return InsertResult{ID: vertices[0], Orientation: types.Identity(1)}, nil
	}
	shape, ok := types.InferShape(dim, len(vertices))
	if !ok {
		return InsertResult{}, &types.MalformedElementError{Shape: shape, IDs: vertices,
			Reason: fmt.Sprintf("no dimension %d shape has %d vertices", dim, len(vertices))}
	}
	return m.CreateShape(shape, vertices)
}

/*
CreateShape inserts an element of the given shape. If an element with the same
vertex set already exists its id is returned with IsNew false, and Orientation
maps the given vertex order onto the stored one. Otherwise the boundary facets
are inserted first, following the shape's template, then the element itself.
*/
func (m *Mesh) CreateShape(shape types.Shape, vertices []int) (res InsertResult, err error) {
	if err = m.validate(shape, vertices); err != nil {
		return
	}
	if err = m.checkCompatible(shape, vertices); err != nil {
		return
	}
	if res = m.insert(shape, vertices); res.IsNew {
		m.history = append(m.history, LogEntry{Shape: shape, Vertices: append([]int(nil), vertices...)})
	}
	return
}

func (m *Mesh) validate(shape types.Shape, vertices []int) error {
	dim := shape.Dimension()
	if dim < 1 || dim > m.CellDimension() {
		return &types.MalformedElementError{Shape: shape, IDs: vertices,
			Reason: fmt.Sprintf("dimension %d outside 1..%d", dim, m.CellDimension())}
	}
	if !shape.AcceptsVertexCount(len(vertices)) {
		return &types.MalformedElementError{Shape: shape, IDs: vertices,
			Reason: fmt.Sprintf("%d vertices", len(vertices))}
	}
	if dup, found := types.HasDuplicate(vertices); found {
		return &types.MalformedElementError{Shape: shape, IDs: vertices,
			Reason: fmt.Sprintf("duplicate vertex %d", dup)}
	}
	for _, v := range vertices {
		if err := m.check(0, v); err != nil {
			return fmt.Errorf("%s %v: %w", shape, vertices, err)
		}
	}
	return nil
}

// checkCompatible rejects definitions whose vertex set, or that of one of its
// boundary pieces, is already stored under a different shape.
func (m *Mesh) checkCompatible(shape types.Shape, vertices []int) error {
	dim := shape.Dimension()
	if id, ok := m.keys[dim][types.NewCanonicalKey(vertices)]; ok {
		if stored := m.elements[dim][id].Shape; stored != shape {
			return &types.MalformedElementError{Shape: shape, IDs: vertices,
				Reason: fmt.Sprintf("vertex set already stored as %s %d", stored, id)}
		}
		return nil
	}
	if dim < 2 {
		return nil
	}
	fs := facetShape(shape)
	for _, local := range subElementTemplate(shape, len(vertices), dim-1) {
		if err := m.checkCompatible(fs, gather(vertices, local)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) insert(shape types.Shape, vertices []int) InsertResult {
	dim := shape.Dimension()
	key := types.NewCanonicalKey(vertices)
	if id, ok := m.keys[dim][key]; ok {
		perm, _ := types.FindPermutation(vertices, m.elements[dim][id].Vertices)
		return InsertResult{ID: id, Orientation: perm}
	}
	e := Element{
		Dim:      dim,
		Shape:    shape,
		Vertices: append([]int(nil), vertices...),
	}
	if dim == 1 {
		e.Facets = e.Vertices
		e.FacetOrientation = []types.Permutation{types.Identity(1), types.Identity(1)}
	} else {
		fs := facetShape(shape)
		template := subElementTemplate(shape, len(vertices), dim-1)
		e.Facets = make([]int, len(template))
		e.FacetOrientation = make([]types.Permutation, len(template))
		for i, local := range template {
			fr := m.insert(fs, gather(vertices, local))
			e.Facets[i], e.FacetOrientation[i] = fr.ID, fr.Orientation
		}
	}
	e.ID = len(m.elements[dim])
	m.elements[dim] = append(m.elements[dim], e)
	m.keys[dim][key] = e.ID
	if m.Layout(dim) == LayoutFull {
		for t := 1; t < dim-1; t++ {
			m.eager[dim][t] = append(m.eager[dim][t], m.computeBoundary(e, t))
		}
	}
	m.invalidate()
	return InsertResult{ID: e.ID, IsNew: true, Orientation: types.Identity(len(vertices))}
}

/*
CreateFromBoundary inserts an element given the ids of its dimension dim-1 boundary:
  - dim 1: two vertex ids
  - dim 2: edge ids forming one closed loop, giving a triangle, quadrilateral or polygon
  - dim 3: four triangle ids (tetrahedron) or six quadrilateral ids (hexahedron)

The first boundary element fixes the orientation of the result.
*/
func (m *Mesh) CreateFromBoundary(dim int, boundary []int) (res InsertResult, err error) {
	if dup, found := types.HasDuplicate(boundary); found {
		return res, &types.MalformedElementError{IDs: boundary, Reason: fmt.Sprintf("duplicate boundary id %d", dup)}
	}
	for _, b := range boundary {
		if err = m.check(dim-1, b); err != nil {
			return
		}
	}
	var (
		shape    types.Shape
		vertices []int
	)
	switch dim {
	case 1:
		shape, vertices = types.Line, boundary
	case 2:
		if vertices, err = m.edgeLoop(boundary); err != nil {
			return
		}
		shape, _ = types.InferShape(2, len(vertices))
	case 3:
		if shape, vertices, err = m.solidFromFaces(boundary); err != nil {
			return
		}
	default:
		return res, &types.MalformedElementError{IDs: boundary, Reason: fmt.Sprintf("cannot build dimension %d from its boundary", dim)}
	}
	if err = m.validate(shape, vertices); err != nil {
		return
	}
	if got, ok := m.templateFacets(shape, vertices); !ok || !got.Sorted().Equal(utils.Index(boundary).Sorted()) {
		return res, &types.MalformedElementError{Shape: shape, IDs: boundary,
			Reason: fmt.Sprintf("boundary does not close a %s on %v", shape, vertices)}
	}
	return m.CreateShape(shape, vertices)
}

// templateFacets looks up the stored facets the shape's template would produce.
func (m *Mesh) templateFacets(shape types.Shape, vertices []int) (facets utils.Index, ok bool) {
	dim := shape.Dimension()
	if dim == 1 {
		return utils.Index(vertices).Copy(), true
	}
	for _, local := range subElementTemplate(shape, len(vertices), dim-1) {
		id, found := m.keys[dim-1][types.NewCanonicalKey(gather(vertices, local))]
		if !found {
			return nil, false
		}
		facets = append(facets, id)
	}
	return facets, true
}

// edgeLoop orders the vertices of a closed chain of edges, starting along the first edge.
func (m *Mesh) edgeLoop(edges []int) (loop []int, err error) {
	if len(edges) < 3 {
		return nil, &types.MalformedElementError{Shape: types.Polygon, IDs: edges, Reason: "fewer than 3 edges"}
	}
	var (
		used  = make([]bool, len(edges))
		first = m.elements[1][edges[0]].Vertices
	)
	loop = []int{first[0], first[1]}
	used[0] = true
	for len(loop) < len(edges) {
		tail := loop[len(loop)-1]
		found := false
		for i, eid := range edges {
			if used[i] {
				continue
			}
			ev := m.elements[1][eid].Vertices
			var next int
			switch tail {
			case ev[0]:
				next = ev[1]
			case ev[1]:
				next = ev[0]
			default:
				continue
			}
			loop = append(loop, next)
			used[i], found = true, true
			break
		}
		if !found {
			return nil, &types.MalformedElementError{Shape: types.Polygon, IDs: edges, Reason: "edges do not form a single loop"}
		}
	}
	for i, eid := range edges {
		if used[i] {
			continue
		}
		ev := m.elements[1][eid].Vertices
		tail := loop[len(loop)-1]
		if !(ev[0] == tail && ev[1] == loop[0]) && !(ev[1] == tail && ev[0] == loop[0]) {
			return nil, &types.MalformedElementError{Shape: types.Polygon, IDs: edges, Reason: "edge chain is not closed"}
		}
	}
	return loop, nil
}

// solidFromFaces recovers the vertex order of a tetrahedron or hexahedron.
// Face 0 of the templates is read clockwise from outside, so the first face
// given is traversed in reverse to obtain the base vertices.
func (m *Mesh) solidFromFaces(faces []int) (shape types.Shape, vertices []int, err error) {
	base := m.elements[2][faces[0]]
	switch {
	case len(faces) == 4 && base.Shape == types.Triangle:
		shape = types.Tetrahedron
		b := base.Vertices
		vertices = []int{b[0], b[2], b[1]}
		for _, f := range faces[1:] {
			for _, v := range m.elements[2][f].Vertices {
				if !utils.Index(vertices).Contains(v) {
					vertices = append(vertices, v)
				}
			}
		}
		if len(vertices) != 4 {
			return shape, nil, &types.MalformedElementError{Shape: shape, IDs: faces, Reason: "faces do not close a tetrahedron"}
		}
		return
	case len(faces) == 6 && base.Shape == types.Quadrilateral:
		shape = types.Hexahedron
		b := base.Vertices
		bottom := []int{b[0], b[3], b[2], b[1]}
		top := make([]int, 4)
		for i, v := range bottom {
			if top[i], err = m.oppositeVertex(faces[1:], bottom, v); err != nil {
				return shape, nil, err
			}
		}
		vertices = append(bottom, top...)
		return
	}
	return shape, nil, &types.MalformedElementError{IDs: faces, Reason: "expected 4 triangles or 6 quadrilaterals"}
}

// oppositeVertex finds the vertex joined to v by an edge leaving the bottom face.
func (m *Mesh) oppositeVertex(faces, bottom []int, v int) (int, error) {
	for _, f := range faces {
		fv := m.elements[2][f].Vertices
		for i, w := range fv {
			if w != v {
				continue
			}
			for _, u := range []int{fv[(i+1)%len(fv)], fv[(i+len(fv)-1)%len(fv)]} {
				if !utils.Index(bottom).Contains(u) {
					return u, nil
				}
			}
		}
	}
	return 0, &types.MalformedElementError{Shape: types.Hexahedron, IDs: faces, Reason: fmt.Sprintf("no side edge at vertex %d", v)}
}
