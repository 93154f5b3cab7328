package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// IncidenceMatrix returns the signed incidence between elements of dimension dim
// (rows) and dim-1 (columns). Entry (e, f) is the relative orientation of facet f
// within e, so IncidenceMatrix(d) * IncidenceMatrix(d-1) vanishes.
func (m *Mesh) IncidenceMatrix(dim int) (*sparse.CSR, error) {
	if dim < 1 || dim > m.CellDimension() {
		return nil, fmt.Errorf("incidence dimension %d outside 1..%d", dim, m.CellDimension())
	}
	if m.Count(dim) == 0 || m.Count(dim-1) == 0 {
		return nil, fmt.Errorf("incidence dimension %d: mesh has no elements of dimension %d or %d", dim, dim, dim-1)
	}
	dok := sparse.NewDOK(m.Count(dim), m.Count(dim-1))
	for id, e := range m.elements[dim] {
		for i, f := range e.Facets {
			sign, err := m.FacetSign(dim, id, i)
			if err != nil {
				return nil, err
			}
			dok.Set(id, f, float64(sign))
		}
	}
	return dok.ToCSR(), nil
}
