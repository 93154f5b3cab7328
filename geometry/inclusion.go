package geometry

import (
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// Inside reports whether p lies in q, closed boundary included. p counts as
// inside when its distance to q is below RELTOL times the extent of q, so a
// triangle in 3D space only contains points of its own plane.
func (e *Engine) Inside(p Point, q Primitive) (bool, error) {
	d, err := e.Distance(Primitive{Shape: types.Vertex, Points: []Point{p}}, q)
	if err != nil {
		return false, err
	}
	return d <= utils.RELTOL*extent(q.Points), nil
}

// extent is the largest distance from the first point to any other.
func extent(pts []Point) (r float64) {
	for _, pt := range pts[1:] {
		r = max(r, pts[0].Distance(pt))
	}
	return
}

// Inside uses the default engine.
func Inside(p Point, q Primitive) (bool, error) { return defaultEngine.Inside(p, q) }
