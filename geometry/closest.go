package geometry

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

func closestPointPoint(_ *Engine, a, b Primitive) (Pair, error) {
	return Pair{a.Points[0], b.Points[0]}, nil
}

func closestPointLine(e *Engine, a, b Primitive) (Pair, error) {
	return Pair{a.Points[0], e.pointOnSegment(a.Points[0], b.Points[0], b.Points[1])}, nil
}

// pointOnSegment projects p onto the line through a and b and clamps to the segment.
func (e *Engine) pointOnSegment(p, a, b Point) Point {
	var (
		d  = b.Sub(a)
		dd = d.Dot(d)
	)
	if dd == 0 {
		e.log.LogDegenerate("point-line", &types.DegenerateError{Shape: types.Line, Op: "closest points", Measure: dd})
		return a.Copy()
	}
	t := p.Sub(a).Dot(d) / dd
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return a.AddScaled(t, d)
}

func closestLineLine(e *Engine, a, b Primitive) (Pair, error) {
	var (
		v0, v1 = a.Points[0], a.Points[1]
		w0, w1 = b.Points[0], b.Points[1]
		v      = v1.Sub(v0)
		w      = w1.Sub(w0)
		d      = v0.Sub(w0)
		vv, vw = v.Dot(v), v.Dot(w)
		ww     = w.Dot(w)
		vd, wd = v.Dot(d), w.Dot(d)
		den    = vv*ww - vw*vw
	)
	if den <= utils.RELTOL*vv*ww {
		e.log.LogDegenerate("line-line", &types.DegenerateError{Shape: types.Line, Op: "closest points", Measure: den})
		return e.segmentEndpoints(v0, v1, w0, w1), nil
	}
	s := (vw*wd - ww*vd) / den
	t := (vv*wd - vw*vd) / den
	if s < 0 || s > 1 || t < 0 || t > 1 {
		return e.segmentEndpoints(v0, v1, w0, w1), nil
	}
	return Pair{v0.AddScaled(s, v), w0.AddScaled(t, w)}, nil
}

// segmentEndpoints is the best of the four endpoint to segment pairs.
func (e *Engine) segmentEndpoints(v0, v1, w0, w1 Point) (best Pair) {
	candidates := []Pair{
		{v0, e.pointOnSegment(v0, w0, w1)},
		{v1, e.pointOnSegment(v1, w0, w1)},
		{e.pointOnSegment(w0, v0, v1), w0},
		{e.pointOnSegment(w1, v0, v1), w1},
	}
	return shortest(candidates)
}

func shortest(candidates []Pair) (best Pair) {
	bestDist := -1.
	for _, c := range candidates {
		if d := c.Distance(); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return
}

func closestPointTriangle(e *Engine, a, b Primitive) (Pair, error) {
	var (
		p          = a.Points[0]
		v0, v1, v2 = b.Points[0], b.Points[1], b.Points[2]
		u0, u1     = v1.Sub(v0), v2.Sub(v0)
		u          = p.Sub(v0)
		aa, bb, dd = u0.Dot(u0), u0.Dot(u1), u1.Dot(u1)
		uu0, uu1   = u.Dot(u0), u.Dot(u1)
		den        = aa*dd - bb*bb
	)
	if den > utils.RELTOL*aa*dd {
		s := (dd*uu0 - bb*uu1) / den
		t := (aa*uu1 - bb*uu0) / den
		if s >= 0 && t >= 0 && s+t <= 1 {
			return Pair{p, v0.AddScaled(s, u0).AddScaled(t, u1)}, nil
		}
	} else {
		e.log.LogDegenerate("point-triangle", &types.DegenerateError{Shape: types.Triangle, Op: "closest points", Measure: den})
	}
	return shortest([]Pair{
		{p, e.pointOnSegment(p, v0, v1)},
		{p, e.pointOnSegment(p, v1, v2)},
		{p, e.pointOnSegment(p, v2, v0)},
	}), nil
}

var tetrahedronFacets = [][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}

func closestPointTetrahedron(e *Engine, a, b Primitive) (Pair, error) {
	var (
		p     = a.Points[0]
		v0    = b.Points[0]
		u     = p.Sub(v0)
		edges = []Point{b.Points[1].Sub(v0), b.Points[2].Sub(v0), b.Points[3].Sub(v0)}
		g     = mat.NewSymDense(3, nil)
		rhs   = mat.NewVecDense(3, nil)
		scale = 1.
	)
	for i := range edges {
		for j := i; j < 3; j++ {
			g.SetSym(i, j, edges[i].Dot(edges[j]))
		}
		rhs.SetVec(i, u.Dot(edges[i]))
		scale *= g.At(i, i)
	}
	if det := mat.Det(g); det > utils.RELTOL*scale {
		var lambda mat.VecDense
		if err := lambda.SolveVec(g, rhs); err == nil {
			l0, l1, l2 := lambda.AtVec(0), lambda.AtVec(1), lambda.AtVec(2)
			if l0 >= 0 && l1 >= 0 && l2 >= 0 && l0+l1+l2 <= 1 {
				q := v0.AddScaled(l0, edges[0]).AddScaled(l1, edges[1]).AddScaled(l2, edges[2])
				return Pair{p, q}, nil
			}
		}
	} else {
		e.log.LogDegenerate("point-tetrahedron", &types.DegenerateError{Shape: types.Tetrahedron, Op: "closest points", Measure: det})
	}
	candidates := make([]Pair, len(tetrahedronFacets))
	for i, f := range tetrahedronFacets {
		tri := Primitive{types.Triangle, b.sub(f...)}
		candidates[i], _ = closestPointTriangle(e, a, tri)
	}
	return shortest(candidates), nil
}
