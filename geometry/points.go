package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/types"
)

// Point is a coordinate of arbitrary dimension.
type Point []float64

func (p Point) Dim() int { return len(p) }

func (p Point) Copy() Point {
	q := make(Point, len(p))
	copy(q, p)
	return q
}

func (p Point) Sub(q Point) Point {
	r := make(Point, len(p))
	floats.SubTo(r, p, q)
	return r
}

func (p Point) Add(q Point) Point {
	r := make(Point, len(p))
	floats.AddTo(r, p, q)
	return r
}

func (p Point) Scale(c float64) Point {
	r := make(Point, len(p))
	floats.ScaleTo(r, c, p)
	return r
}

// AddScaled returns p + alpha*q.
func (p Point) AddScaled(alpha float64, q Point) Point {
	r := make(Point, len(p))
	floats.AddScaledTo(r, p, alpha, q)
	return r
}

func (p Point) Dot(q Point) float64 { return floats.Dot(p, q) }

func (p Point) Norm() float64 { return floats.Norm(p, 2) }

func (p Point) Distance(q Point) float64 { return floats.Distance(p, q, 2) }

// Vec converts the first three coordinates to an r3.Vec, padding with zeros.
func (p Point) Vec() (v r3.Vec) {
	switch {
	case len(p) >= 3:
		v.Z = p[2]
		fallthrough
	case len(p) == 2:
		v.Y = p[1]
		fallthrough
	case len(p) == 1:
		v.X = p[0]
	}
	return
}

// PointAccessor maps a vertex id to its coordinate.
type PointAccessor interface {
	Point(id int) (Point, error)
}

// PointFunc adapts a function to PointAccessor.
type PointFunc func(id int) (Point, error)

func (f PointFunc) Point(id int) (Point, error) { return f(id) }

// PointTable is a PointAccessor over a slice of coordinates indexed by vertex id.
type PointTable []Point

func (t PointTable) Point(id int) (Point, error) {
	if id < 0 || id >= len(t) {
		return nil, &types.IndexError{Dim: 0, ID: id, Count: len(t), Owner: "point table"}
	}
	return t[id], nil
}

// Rows returns the coordinates as plain slices sharing storage with t.
func (t PointTable) Rows() (rows [][]float64) {
	rows = make([][]float64, len(t))
	for i, p := range t {
		rows[i] = p
	}
	return
}

// Resolve looks up all ids through acc.
func Resolve(acc PointAccessor, ids []int) (pts []Point, err error) {
	pts = make([]Point, len(ids))
	for i, id := range ids {
		if pts[i], err = acc.Point(id); err != nil {
			return nil, fmt.Errorf("resolving vertex %d: %w", id, err)
		}
	}
	return
}
