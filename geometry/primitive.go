package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/types"
)

// Primitive is an element shape together with its resolved vertex coordinates.
type Primitive struct {
	Shape  types.Shape
	Points []Point
}

func NewPrimitive(shape types.Shape, pts ...Point) (p Primitive, err error) {
	p = Primitive{Shape: shape, Points: pts}
	err = p.Validate()
	return
}

// PrimitiveOf builds a Primitive for the vertex ids using acc.
func PrimitiveOf(shape types.Shape, acc PointAccessor, ids []int) (p Primitive, err error) {
	var pts []Point
	if pts, err = Resolve(acc, ids); err != nil {
		return
	}
	return NewPrimitive(shape, pts...)
}

func (p Primitive) Validate() error {
	if !p.Shape.AcceptsVertexCount(len(p.Points)) {
		return &types.MalformedElementError{Shape: p.Shape, Reason: fmt.Sprintf("%d points", len(p.Points))}
	}
	dim := len(p.Points[0])
	if dim < p.Shape.Dimension() {
		return &types.MalformedElementError{Shape: p.Shape,
			Reason: fmt.Sprintf("coordinates of dimension %d cannot hold a %d-dimensional shape", dim, p.Shape.Dimension())}
	}
	for _, pt := range p.Points[1:] {
		if len(pt) != dim {
			return &types.MalformedElementError{Shape: p.Shape, Reason: "points of mixed dimension"}
		}
	}
	return nil
}

func (p Primitive) Dim() int { return len(p.Points[0]) }

func (p Primitive) sub(idx ...int) (pts []Point) {
	pts = make([]Point, len(idx))
	for i, j := range idx {
		pts[i] = p.Points[j]
	}
	return
}

var (
	quadTriangles = [][]int{{0, 1, 2}, {0, 2, 3}}
	// Hexahedron vertices: 0-3 counterclockwise on the bottom face, 4-7 above them.
	// All six tetrahedra share the 0-6 diagonal.
	hexTetrahedra = [][]int{
		{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
		{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
	}
)

// Decompose splits non-simplex shapes into simplices. Simplices return nil.
func (p Primitive) Decompose() (parts []Primitive) {
	switch p.Shape {
	case types.Quadrilateral:
		for _, tri := range quadTriangles {
			parts = append(parts, Primitive{types.Triangle, p.sub(tri...)})
		}
	case types.Polygon:
		for i := 1; i+1 < len(p.Points); i++ {
			parts = append(parts, Primitive{types.Triangle, p.sub(0, i, i+1)})
		}
	case types.Hexahedron:
		for _, tet := range hexTetrahedra {
			parts = append(parts, Primitive{types.Tetrahedron, p.sub(tet...)})
		}
	}
	return
}

func Centroid(pts []Point) (c Point) {
	c = make(Point, len(pts[0]))
	for _, pt := range pts {
		for i := range c {
			c[i] += pt[i]
		}
	}
	return c.Scale(1 / float64(len(pts)))
}

func (p Primitive) Centroid() Point { return Centroid(p.Points) }

// Volume is the d-dimensional measure: 1 for a vertex, length, area or volume.
func (p Primitive) Volume() (vol float64) {
	if parts := p.Decompose(); parts != nil {
		for _, part := range parts {
			vol += part.Volume()
		}
		return
	}
	switch p.Shape {
	case types.Vertex:
		return 1
	case types.Line:
		return p.Points[0].Distance(p.Points[1])
	case types.Triangle:
		return 0.5 * math.Sqrt(math.Max(0, crossNorm2(p.Points[1].Sub(p.Points[0]), p.Points[2].Sub(p.Points[0]))))
	case types.Tetrahedron:
		if p.Dim() == 3 {
			return math.Abs(SignedVolume(p.Points[0], p.Points[1], p.Points[2], p.Points[3]))
		}
		return math.Sqrt(math.Max(0, gramDet(p.Points))) / 6
	}
	return 0
}

// crossNorm2 is |a x b|^2 written with inner products so it holds in any dimension.
func crossNorm2(a, b Point) float64 {
	ab := a.Dot(b)
	return a.Dot(a)*b.Dot(b) - ab*ab
}

// gramDet is the determinant of the Gram matrix of the edge vectors leaving pts[0].
func gramDet(pts []Point) float64 {
	n := len(pts) - 1
	edges := make([]Point, n)
	for i := range edges {
		edges[i] = pts[i+1].Sub(pts[0])
	}
	g := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			g.SetSym(i, j, edges[i].Dot(edges[j]))
		}
	}
	return mat.Det(g)
}

// SignedVolume of the tetrahedron (a,b,c,d), positive when d lies on the side
// of the plane (a,b,c) that makes a->b->c counterclockwise.
func SignedVolume(a, b, c, d Point) float64 {
	va := a.Vec()
	return r3.Dot(r3.Sub(b.Vec(), va), r3.Cross(r3.Sub(c.Vec(), va), r3.Sub(d.Vec(), va))) / 6
}

// SignedArea of the planar triangle (a,b,c) using the first two coordinates.
func SignedArea(a, b, c Point) float64 {
	return 0.5 * ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1]))
}
