package locator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/peterstace/simplefeatures/rtree"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/utils"
)

var ErrEmpty = errors.New("locator holds no elements")

/*
Locator finds elements of one dimension near a point. Elements are indexed by
the bounding box of their first two coordinates, so box distances bound the
exact distance from below in any geometric dimension; candidates are refined
with the mesh distance engine.
*/
type Locator struct {
	mesh  *mesh.Mesh
	dim   int
	acc   geometry.PointAccessor
	tree  *rtree.RTree
	boxes []rtree.Box
	log   *utils.Logger
}

// New indexes every element of dimension dim. A nil accessor reads the mesh points.
func New(m *mesh.Mesh, dim int, acc geometry.PointAccessor) (l *Locator, err error) {
	if dim < 0 || dim > m.CellDimension() {
		return nil, fmt.Errorf("locator dimension %d outside 0..%d", dim, m.CellDimension())
	}
	if acc == nil {
		acc = m
	}
	l = &Locator{
		mesh: m,
		dim:  dim,
		acc:  acc,
		log:  m.Logger().WithComponent("locator"),
	}
	items := make([]rtree.BulkItem, m.Count(dim))
	l.boxes = make([]rtree.Box, m.Count(dim))
	for id := range items {
		if l.boxes[id], err = l.box(id); err != nil {
			return nil, err
		}
		items[id] = rtree.BulkItem{Box: l.boxes[id], RecordID: id}
	}
	if len(items) == 0 {
		l.tree = new(rtree.RTree)
	} else {
		l.tree = rtree.BulkLoad(items)
	}
	l.log.Debug("bulk loaded", "dimension", dim, "elements", len(items))
	return l, nil
}

func (l *Locator) box(id int) (b rtree.Box, err error) {
	p, err := l.mesh.Primitive(l.dim, id, l.acc)
	if err != nil {
		return
	}
	b = pointBox(p.Points[0])
	for _, pt := range p.Points[1:] {
		x, y := xy(pt)
		b.MinX, b.MaxX = math.Min(b.MinX, x), math.Max(b.MaxX, x)
		b.MinY, b.MaxY = math.Min(b.MinY, y), math.Max(b.MaxY, y)
	}
	return
}

func xy(p geometry.Point) (x, y float64) {
	x = p[0]
	if len(p) > 1 {
		y = p[1]
	}
	return
}

func pointBox(p geometry.Point) rtree.Box {
	x, y := xy(p)
	return rtree.Box{MinX: x, MinY: y, MaxX: x, MaxY: y}
}

func boxDistance(b rtree.Box, p geometry.Point) float64 {
	x, y := xy(p)
	dx := math.Max(0, math.Max(b.MinX-x, x-b.MaxX))
	dy := math.Max(0, math.Max(b.MinY-y, y-b.MaxY))
	return math.Hypot(dx, dy)
}

// Update indexes elements inserted into the mesh since the last call.
func (l *Locator) Update() error {
	for id := len(l.boxes); id < l.mesh.Count(l.dim); id++ {
		b, err := l.box(id)
		if err != nil {
			return err
		}
		l.boxes = append(l.boxes, b)
		l.tree.Insert(b, id)
	}
	return nil
}

func (l *Locator) Dim() int { return l.dim }

func (l *Locator) Len() int { return len(l.boxes) }

// Closest returns the element nearest to p and its distance. Ties go to the
// element whose box is visited first.
func (l *Locator) Closest(p geometry.Point) (id int, dist float64, err error) {
	if len(p) != l.mesh.GeometricDimension() {
		return 0, 0, fmt.Errorf("query point has %d coordinates, mesh has %d", len(p), l.mesh.GeometricDimension())
	}
	var visited int
	id, dist = -1, math.Inf(1)
	err = l.tree.PrioritySearch(pointBox(p), func(rec int) error {
		if boxDistance(l.boxes[rec], p) > dist {
			return rtree.Stop
		}
		visited++
		d, err := l.mesh.DistanceToPoint(p, mesh.ElementRef{Dim: l.dim, ID: rec}, l.acc)
		if err != nil {
			return err
		}
		if d < dist {
			id, dist = rec, d
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	if id < 0 {
		return 0, 0, ErrEmpty
	}
	l.log.Debug("closest element", "id", id, "distance", dist, "candidates", visited)
	return id, dist, nil
}

// Containing returns the element nearest to p and whether p lies inside it.
func (l *Locator) Containing(p geometry.Point) (id int, inside bool, err error) {
	if id, _, err = l.Closest(p); err != nil {
		return
	}
	inside, err = l.mesh.Inside(p, mesh.ElementRef{Dim: l.dim, ID: id}, l.acc)
	return
}

// Within returns, ascending, the elements whose boxes overlap the box spanned by lo and hi.
func (l *Locator) Within(lo, hi geometry.Point) (ids utils.Index, err error) {
	q := pointBox(lo)
	x, y := xy(hi)
	q.MaxX, q.MaxY = x, y
	if q.MinX > q.MaxX || q.MinY > q.MaxY {
		return nil, fmt.Errorf("empty query box %v..%v", lo, hi)
	}
	err = l.tree.RangeSearch(q, func(rec int) error {
		ids = append(ids, rec)
		return nil
	})
	sort.Ints(ids)
	return
}

// Extent is the bounding box of all indexed elements.
func (l *Locator) Extent() (lo, hi geometry.Point, ok bool) {
	b, ok := l.tree.Extent()
	if !ok {
		return nil, nil, false
	}
	return geometry.Point{b.MinX, b.MinY}, geometry.Point{b.MaxX, b.MaxY}, true
}
