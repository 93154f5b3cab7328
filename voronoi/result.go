package voronoi

import (
	"fmt"
	"math"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/utils"
)

// Attribute names used by Result.Attach.
const (
	AttrBoxVolume     = "voronoi_box_volume"
	AttrInterfaceArea = "voronoi_interface_area"
	AttrEdgeBoxVolume = "voronoi_edge_box_volume"
	AttrEdgeLength    = "voronoi_edge_length"
)

const (
	QuantityBoxVolume     = "box volume"
	QuantityInterfaceArea = "interface area"
	QuantityCircumcenter  = "circumcenter"
)

// Contribution is the part of a cell assigned to Vertex through Edge.
type Contribution struct {
	Vertex, Edge int
	Volume       float64
}

// Warning flags a negative accumulated quantity, or an element whose
// circumcenter was replaced by its centroid.
type Warning struct {
	Dim, ID  int
	Quantity string
	Value    float64
}

func (w Warning) String() string {
	if w.Quantity == QuantityCircumcenter {
		return fmt.Sprintf("degenerate circumcenter of element (%d,%d)", w.Dim, w.ID)
	}
	return fmt.Sprintf("negative %s %g at element (%d,%d)", w.Quantity, w.Value, w.Dim, w.ID)
}

// Result holds the dual grid quantities, indexed by vertex or edge id. It is not
// modified after Build returns.
type Result struct {
	mesh          *mesh.Mesh
	boxVolume     []float64 // vertex
	interfaceArea []float64 // edge
	edgeBoxVolume []float64 // edge
	edgeLength    []float64 // edge
	cells         [][]Contribution
	warnings      []Warning
}

func newResult(m *mesh.Mesh) *Result {
	return &Result{
		mesh:          m,
		boxVolume:     make([]float64, m.Count(0)),
		interfaceArea: make([]float64, m.Count(1)),
		edgeBoxVolume: make([]float64, m.Count(1)),
		edgeLength:    make([]float64, m.Count(1)),
		cells:         make([][]Contribution, m.Count(m.CellDimension())),
	}
}

func (r *Result) accumulate(contribs []Contribution, D int) {
	for _, c := range contribs {
		r.boxVolume[c.Vertex] += c.Volume
		r.edgeBoxVolume[c.Edge] += c.Volume
		if L := r.edgeLength[c.Edge]; L > 0 {
			r.interfaceArea[c.Edge] += c.Volume * float64(D) / L
		}
	}
}

// check flags totals below -tol for box volumes and below the matching
// relative tolerance for interface areas.
func (r *Result) check(log *utils.Logger, tol float64) {
	D := r.mesh.CellDimension()
	for v, vol := range r.boxVolume {
		if vol < -tol {
			r.warnings = append(r.warnings, Warning{Dim: 0, ID: v, Quantity: QuantityBoxVolume, Value: vol})
		}
	}
	for e, area := range r.interfaceArea {
		if area < -utils.RELTOL*math.Pow(r.edgeLength[e], float64(D-1)) {
			r.warnings = append(r.warnings, Warning{Dim: 1, ID: e, Quantity: QuantityInterfaceArea, Value: area})
		}
	}
	for _, w := range r.warnings {
		log.WithElement(w.Dim, w.ID).Warn("mesh is not Delaunay", "problem", w.String())
	}
}

func (r *Result) Mesh() *mesh.Mesh { return r.mesh }

// BoxVolume of the dual cell around vertex v.
func (r *Result) BoxVolume(v int) float64 { return r.boxVolume[v] }

// InterfaceArea of the dual facet crossing edge e.
func (r *Result) InterfaceArea(e int) float64 { return r.interfaceArea[e] }

// EdgeBoxVolume is the part of both endpoint boxes attributed to edge e.
func (r *Result) EdgeBoxVolume(e int) float64 { return r.edgeBoxVolume[e] }

func (r *Result) EdgeLength(e int) float64 { return r.edgeLength[e] }

// CellContributions lists the flags of cell c merged per vertex and edge.
func (r *Result) CellContributions(c int) []Contribution {
	return append([]Contribution(nil), r.cells[c]...)
}

func (r *Result) Warnings() []Warning { return append([]Warning(nil), r.warnings...) }

// TotalVolume sums the vertex box volumes.
func (r *Result) TotalVolume() (total float64) {
	for _, v := range r.boxVolume {
		total += v
	}
	return
}

// Attach stores the result as scalar attributes of the mesh.
func (r *Result) Attach(a *mesh.Attributes) (err error) {
	for v, vol := range r.boxVolume {
		if err = a.SetScalar(AttrBoxVolume, 0, v, vol); err != nil {
			return
		}
	}
	for e := range r.edgeLength {
		if err = a.SetScalar(AttrInterfaceArea, 1, e, r.interfaceArea[e]); err != nil {
			return
		}
		if err = a.SetScalar(AttrEdgeBoxVolume, 1, e, r.edgeBoxVolume[e]); err != nil {
			return
		}
		if err = a.SetScalar(AttrEdgeLength, 1, e, r.edgeLength[e]); err != nil {
			return
		}
	}
	return
}
