package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// Circumcenter returns the center of the sphere through the primitive's vertices.
// Quadrilaterals, hexahedra and polygons return the vertex centroid, which is the
// circumcenter for rectangles and boxes.
//
// For near-singular input the centroid is returned together with an error
// matching types.ErrDegenerateGeometry; the point is still usable.
func (e *Engine) Circumcenter(p Primitive) (Point, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.Shape {
	case types.Vertex:
		return p.Points[0].Copy(), nil
	case types.Line:
		return Centroid(p.Points), nil
	case types.Triangle:
		return e.triangleCircumcenter(p)
	case types.Tetrahedron:
		return e.tetrahedronCircumcenter(p)
	case types.Quadrilateral, types.Hexahedron, types.Polygon:
		return p.Centroid(), nil
	}
	return nil, &types.UnsupportedError{Op: "circumcenter", Shapes: []types.Shape{p.Shape}}
}

func (e *Engine) triangleCircumcenter(p Primitive) (Point, error) {
	var (
		A, B, C = p.Points[0], p.Points[1], p.Points[2]
		ab, bc  = A.Sub(B), B.Sub(C)
		cross2  = crossNorm2(ab, bc)
	)
	if cross2 <= utils.RELTOL*ab.Dot(ab)*bc.Dot(bc) {
		err := &types.DegenerateError{Shape: types.Triangle, Op: "circumcenter", Measure: cross2}
		e.log.LogDegenerate("circumcenter", err)
		return p.Centroid(), err
	}
	if p.Dim() == 2 {
		var (
			a2, b2, c2 = A.Dot(A), B.Dot(B), C.Dot(C)
			D          = 2 * (A[0]*(B[1]-C[1]) + B[0]*(C[1]-A[1]) + C[0]*(A[1]-B[1]))
		)
		return Point{
			(a2*(B[1]-C[1]) + b2*(C[1]-A[1]) + c2*(A[1]-B[1])) / D,
			(a2*(C[0]-B[0]) + b2*(A[0]-C[0]) + c2*(B[0]-A[0])) / D,
		}, nil
	}
	var (
		ac, ca, cb = A.Sub(C), C.Sub(A), C.Sub(B)
		ba         = B.Sub(A)
		den        = 2 * cross2
		alpha      = bc.Dot(bc) * ab.Dot(ac) / den
		beta       = ac.Dot(ac) * ba.Dot(bc) / den
		gamma      = ab.Dot(ab) * ca.Dot(cb) / den
	)
	return A.Scale(alpha).AddScaled(beta, B).AddScaled(gamma, C), nil
}

// tetrahedronCircumcenter solves 2(v_i - v_0) . x = |v_i - v_0|^2 for the offset x from v_0.
func (e *Engine) tetrahedronCircumcenter(p Primitive) (Point, error) {
	if p.Dim() != 3 {
		return nil, &types.UnsupportedError{Op: "circumcenter in dimension != 3", Shapes: []types.Shape{p.Shape}}
	}
	var (
		v0    = p.Points[0]
		m     = mat.NewDense(3, 3, nil)
		rhs   = mat.NewVecDense(3, nil)
		scale = 1.
	)
	for i := 0; i < 3; i++ {
		r := p.Points[i+1].Sub(v0)
		for j := 0; j < 3; j++ {
			m.Set(i, j, 2*r[j])
		}
		rhs.SetVec(i, r.Dot(r))
		scale *= 2 * r.Norm()
	}
	det := mat.Det(m)
	if math.Abs(det) <= utils.DETTOL*scale || scale == 0 {
		err := &types.DegenerateError{Shape: types.Tetrahedron, Op: "circumcenter", Measure: det}
		e.log.LogDegenerate("circumcenter", err)
		return p.Centroid(), err
	}
	var x mat.VecDense
	if err := x.SolveVec(m, rhs); err != nil {
		derr := &types.DegenerateError{Shape: types.Tetrahedron, Op: "circumcenter", Measure: det}
		e.log.LogDegenerate("circumcenter", derr)
		return p.Centroid(), derr
	}
	return Point{v0[0] + x.AtVec(0), v0[1] + x.AtVec(1), v0[2] + x.AtVec(2)}, nil
}
