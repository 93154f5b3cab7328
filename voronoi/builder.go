package voronoi

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// Builder computes the dual grid of a mesh whose cells are all of its top dimension.
type Builder struct {
	mesh *mesh.Mesh
	acc  geometry.PointAccessor
	log  *utils.Logger
}

type Option func(*Builder)

// WithAccessor reads coordinates through acc instead of the mesh point table.
func WithAccessor(acc geometry.PointAccessor) Option {
	return func(b *Builder) { b.acc = acc }
}

func WithLogger(l *utils.Logger) Option {
	return func(b *Builder) { b.log = l.OrDefault().WithComponent("voronoi") }
}

func NewBuilder(m *mesh.Mesh, opts ...Option) *Builder {
	b := &Builder{
		mesh: m,
		acc:  m,
		log:  m.Logger().WithComponent("voronoi"),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.acc == nil {
		b.acc = m
	}
	return b
}

// Build runs the builder with default options.
func Build(m *mesh.Mesh) (*Result, error) {
	return NewBuilder(m).Build()
}

/*
Build walks every cell and splits it along its flags (vertex, edge[, facet], cell).
Each flag spans a simplex through the vertex, the edge midpoint, the facet
circumcenter in 3D and the cell circumcenter. Its measure is signed: negative when
the simplex is inverted relative to the one spanned by the corresponding centroids,
which happens when a circumcenter lies outside its element. The vertex owning the
flag receives the measure as box volume. Per edge, the sum over both endpoints
gives the edge box volume, and that sum times D/L the interface area, since every
flag simplex has height L/2 over the edge's bisector.

The signed parts of one cell always add up to the cell's measure. Negative totals
are reported as warnings; the result is returned regardless.
*/
func (b *Builder) Build() (r *Result, err error) {
	var (
		m = b.mesh
		D = m.CellDimension()
	)
	r = newResult(m)
	for _, e := range m.Elements(1) {
		if r.edgeLength[e], err = m.Volume(1, e, b.acc); err != nil {
			return nil, err
		}
	}
	var maxVolume float64
	for _, c := range m.Elements(D) {
		var (
			cell cellFlags
			vol  float64
		)
		if vol, err = m.Volume(D, c, b.acc); err != nil {
			return nil, err
		}
		maxVolume = math.Max(maxVolume, vol)
		switch D {
		case 1:
			err = b.lineCell(c, r, &cell)
		case 2:
			err = b.surfaceCell(c, r, &cell)
		case 3:
			err = b.volumeCell(c, r, &cell)
		}
		if err != nil {
			el, _ := m.Element(D, c)
			return nil, fmt.Errorf("voronoi contribution of %s %d: %w", el.Shape, c, err)
		}
		r.cells[c] = cell.list
		r.accumulate(cell.list, D)
	}
	r.check(b.log, utils.RELTOL*maxVolume)
	b.log.Debug("dual grid built",
		"cells", m.Count(D),
		"vertices", m.Count(0),
		"warnings", len(r.warnings),
	)
	return r, nil
}

// cellFlags merges the contributions of one cell per (vertex, edge).
type cellFlags struct {
	list  []Contribution
	index map[[2]int]int
}

func (cf *cellFlags) add(v, e int, vol float64) {
	if cf.index == nil {
		cf.index = make(map[[2]int]int)
	}
	k := [2]int{v, e}
	if i, ok := cf.index[k]; ok {
		cf.list[i].Volume += vol
		return
	}
	cf.index[k] = len(cf.list)
	cf.list = append(cf.list, Contribution{Vertex: v, Edge: e, Volume: vol})
}

// circumcenter falls back to the centroid for degenerate elements and records it.
func (b *Builder) circumcenter(dim, id int, r *Result) (geometry.Point, error) {
	cc, err := b.mesh.Circumcenter(dim, id, b.acc)
	if err != nil && errors.Is(err, types.ErrDegenerateGeometry) {
		r.warnings = append(r.warnings, Warning{Dim: dim, ID: id, Quantity: QuantityCircumcenter})
		return cc, nil
	}
	return cc, err
}

func (b *Builder) edge(e int) (vertices []int, pts []geometry.Point, mid geometry.Point, err error) {
	el, err := b.mesh.Element(1, e)
	if err != nil {
		return
	}
	if pts, err = geometry.Resolve(b.acc, el.Vertices); err != nil {
		return
	}
	return el.Vertices, pts, geometry.Centroid(pts), nil
}

func (b *Builder) lineCell(c int, r *Result, cell *cellFlags) error {
	vertices, _, _, err := b.edge(c)
	if err != nil {
		return err
	}
	half := 0.5 * r.edgeLength[c]
	cell.add(vertices[0], c, half)
	cell.add(vertices[1], c, half)
	return nil
}

func (b *Builder) surfaceCell(c int, r *Result, cell *cellFlags) error {
	cc, err := b.circumcenter(2, c, r)
	if err != nil {
		return err
	}
	g, err := b.mesh.Centroid(2, c, b.acc)
	if err != nil {
		return err
	}
	edges, err := b.mesh.Boundary(2, c, 1)
	if err != nil {
		return err
	}
	for _, e := range edges {
		vertices, pts, mid, err := b.edge(e)
		if err != nil {
			return err
		}
		L := r.edgeLength[e]
		if L == 0 {
			continue
		}
		// Normal to the edge, within the cell's plane, pointing inward
		u := pts[1].Sub(pts[0]).Scale(1 / L)
		n := g.Sub(mid)
		n = n.AddScaled(-n.Dot(u), u)
		nn := n.Norm()
		if nn == 0 {
			continue
		}
		h := cc.Sub(mid).Dot(n) / nn
		for i, v := range vertices {
			cell.add(v, e, 0.5*pts[i].Distance(mid)*h)
		}
	}
	return nil
}

func (b *Builder) volumeCell(c int, r *Result, cell *cellFlags) error {
	cc, err := b.circumcenter(3, c, r)
	if err != nil {
		return err
	}
	g, err := b.mesh.Centroid(3, c, b.acc)
	if err != nil {
		return err
	}
	facets, err := b.mesh.Boundary(3, c, 2)
	if err != nil {
		return err
	}
	for _, f := range facets {
		cf, err := b.circumcenter(2, f, r)
		if err != nil {
			return err
		}
		gf, err := b.mesh.Centroid(2, f, b.acc)
		if err != nil {
			return err
		}
		edges, err := b.mesh.Boundary(2, f, 1)
		if err != nil {
			return err
		}
		for _, e := range edges {
			vertices, pts, mid, err := b.edge(e)
			if err != nil {
				return err
			}
			for i, v := range vertices {
				vol := geometry.SignedVolume(pts[i], mid, cf, cc)
				if geometry.SignedVolume(pts[i], mid, gf, g) < 0 {
					vol = -vol
				}
				cell.add(v, e, vol)
			}
		}
	}
	return nil
}
