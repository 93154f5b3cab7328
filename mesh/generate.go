package mesh

import (
	"fmt"

	"github.com/notargets/meshtopo/types"
)

// StructuredSpec describes an axis aligned grid of Divisions cells per direction
// spanning Min to Max. Only the first Shape.Dimension() entries are used.
type StructuredSpec struct {
	Shape     types.Shape
	Divisions [3]int
	Min, Max  [3]float64
}

// Kuhn subdivision of a unit cube into six tetrahedra around the 0-6 diagonal.
// Every cube uses the same diagonal, so neighboring cubes share triangulated faces.
var cubeTetrahedra = [][]int{
	{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
	{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
}

// GenerateStructured builds a grid mesh. Squares are split into two triangles along
// their rising diagonal when Shape is Triangle, cubes into six tetrahedra when it
// is Tetrahedron. opts.CellDimension and opts.GeometricDimension are set from the shape.
func GenerateStructured(spec StructuredSpec, opts Options) (m *Mesh, err error) {
	dim := spec.Shape.Dimension()
	if dim < 1 || spec.Shape == types.Polygon {
		return nil, fmt.Errorf("cannot generate a structured %s grid", spec.Shape)
	}
	n := [3]int{1, 1, 1}
	for d := 0; d < dim; d++ {
		if spec.Divisions[d] < 1 {
			return nil, fmt.Errorf("divisions must be positive, have %v", spec.Divisions)
		}
		if spec.Max[d] <= spec.Min[d] {
			return nil, fmt.Errorf("empty extent in direction %d: %g..%g", d, spec.Min[d], spec.Max[d])
		}
		n[d] = spec.Divisions[d]
	}
	opts.CellDimension, opts.GeometricDimension = dim, dim
	if m, err = NewMesh(opts); err != nil {
		return
	}
	var (
		nv    = [3]int{n[0] + 1, 1, 1}
		kmax  = 0
		jmax  = 0
		index = func(i, j, k int) int { return i + nv[0]*(j+nv[1]*k) }
	)
	if dim > 1 {
		nv[1], jmax = n[1]+1, n[1]
	}
	if dim > 2 {
		nv[2], kmax = n[2]+1, n[2]
	}
	for k := 0; k < nv[2]; k++ {
		for j := 0; j < nv[1]; j++ {
			for i := 0; i < nv[0]; i++ {
				pt := make([]float64, dim)
				ijk := [3]int{i, j, k}
				for d := range pt {
					pt[d] = spec.Min[d] + (spec.Max[d]-spec.Min[d])*float64(ijk[d])/float64(n[d])
				}
				if _, err = m.CreateVertex(pt); err != nil {
					return nil, err
				}
			}
		}
	}
	for k := 0; k < max(kmax, 1); k++ {
		for j := 0; j < max(jmax, 1); j++ {
			for i := 0; i < n[0]; i++ {
				corners := []int{
					index(i, j, k), index(i+1, j, k), index(i+1, j+1, k), index(i, j+1, k),
					index(i, j, k+1), index(i+1, j, k+1), index(i+1, j+1, k+1), index(i, j+1, k+1),
				}
				var cells [][]int
				switch spec.Shape {
				case types.Line:
					cells = [][]int{{corners[0], corners[1]}}
				case types.Triangle:
					cells = [][]int{gather(corners, []int{0, 1, 2}), gather(corners, []int{0, 2, 3})}
				case types.Quadrilateral:
					cells = [][]int{corners[:4]}
				case types.Tetrahedron:
					for _, tet := range cubeTetrahedra {
						cells = append(cells, gather(corners, tet))
					}
				case types.Hexahedron:
					cells = [][]int{corners}
				}
				for _, c := range cells {
					if _, err = m.CreateShape(spec.Shape, c); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return
}
