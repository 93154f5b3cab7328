package types

import (
	"fmt"
	"strings"
)

type Shape uint8

const (
	Vertex Shape = iota
	Line
	Triangle
	Quadrilateral
	Tetrahedron
	Hexahedron
	Polygon
)

var ShapeNameMap = map[string]Shape{
	"vertex":        Vertex,
	"point":         Vertex,
	"line":          Line,
	"edge":          Line,
	"triangle":      Triangle,
	"tri":           Triangle,
	"quadrilateral": Quadrilateral,
	"quad":          Quadrilateral,
	"tetrahedron":   Tetrahedron,
	"tet":           Tetrahedron,
	"hexahedron":    Hexahedron,
	"hex":           Hexahedron,
	"polygon":       Polygon,
}

func (s Shape) String() string {
	switch s {
	case Vertex:
		return "Vertex"
	case Line:
		return "Line"
	case Triangle:
		return "Triangle"
	case Quadrilateral:
		return "Quadrilateral"
	case Tetrahedron:
		return "Tetrahedron"
	case Hexahedron:
		return "Hexahedron"
	case Polygon:
		return "Polygon"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ParseShape accepts any of the names in ShapeNameMap, case insensitive.
func ParseShape(name string) (Shape, error) {
	if s, ok := ShapeNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("unknown shape name %q", name)
}

// Dimension is the topological dimension of the shape.
func (s Shape) Dimension() int {
	switch s {
	case Vertex:
		return 0
	case Line:
		return 1
	case Triangle, Quadrilateral, Polygon:
		return 2
	case Tetrahedron, Hexahedron:
		return 3
	}
	return -1
}

// NumVertices returns the fixed vertex count, or -1 for Polygon.
func (s Shape) NumVertices() int {
	switch s {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quadrilateral, Tetrahedron:
		return 4
	case Hexahedron:
		return 8
	}
	return -1
}

func (s Shape) IsSimplex() bool {
	switch s {
	case Vertex, Line, Triangle, Tetrahedron:
		return true
	}
	return false
}

// IsCyclic is true for 2D shapes whose vertices are listed around the perimeter.
func (s Shape) IsCyclic() bool {
	return s.Dimension() == 2
}

// AcceptsVertexCount reports whether n vertices can define the shape.
func (s Shape) AcceptsVertexCount(n int) bool {
	if s == Polygon {
		return n >= 3
	}
	return n == s.NumVertices()
}

// InferShape picks the shape for an element of dimension dim defined by n vertices.
// Ambiguous counts resolve to the fixed shape first: dim 2 with 4 vertices is a
// Quadrilateral, dim 2 with more than 4 is a Polygon.
func InferShape(dim, n int) (Shape, bool) {
	switch dim {
	case 0:
		return Vertex, n == 1
	case 1:
		return Line, n == 2
	case 2:
		switch {
		case n == 3:
			return Triangle, true
		case n == 4:
			return Quadrilateral, true
		case n > 4:
			return Polygon, true
		}
	case 3:
		switch n {
		case 4:
			return Tetrahedron, true
		case 8:
			return Hexahedron, true
		}
	}
	return 0, false
}
