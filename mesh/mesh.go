package mesh

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// BoundaryLayout selects when boundary relations below the facet level are built.
type BoundaryLayout uint8

const (
	// LayoutSparse computes a boundary list on first query and caches it.
	LayoutSparse BoundaryLayout = iota
	// LayoutFull computes boundary lists when the element is inserted.
	LayoutFull
)

func (l BoundaryLayout) String() string {
	if l == LayoutFull {
		return "full"
	}
	return "sparse"
}

// ParseLayout accepts "full" or "sparse".
func ParseLayout(name string) (BoundaryLayout, error) {
	switch name {
	case "full":
		return LayoutFull, nil
	case "sparse", "":
		return LayoutSparse, nil
	}
	return LayoutSparse, fmt.Errorf("unknown boundary layout %q", name)
}

// Options configures a Mesh.
type Options struct {
	CellDimension      int                    // Highest element dimension D, 1 to 3
	GeometricDimension int                    // Coordinates per vertex, at least CellDimension
	Layouts            map[int]BoundaryLayout // Per element dimension, sparse when absent
	Logger             *utils.Logger
	Engine             *geometry.Engine // Geometric routines, a default engine when nil
}

// DefaultOptions returns options for a volume mesh in 3D space.
func DefaultOptions() Options {
	return Options{
		CellDimension:      3,
		GeometricDimension: 3,
		Layouts:            make(map[int]BoundaryLayout),
	}
}

// Element is a stored element. Slices are shared with the mesh and must not be modified.
type Element struct {
	Dim      int
	ID       int
	Shape    types.Shape
	Vertices []int
	// Facets are the dimension Dim-1 boundary ids in template order; for a
	// line these are its two vertices.
	Facets []int
	// FacetOrientation[i] relates the local listing of facet i to the facet's stored vertex order.
	FacetOrientation []types.Permutation
}

// ElementRef names an element of a mesh.
type ElementRef struct {
	Dim, ID int
}

// InsertResult is returned by every insertion.
type InsertResult struct {
	ID    int
	IsNew bool
	// Orientation maps the inserted vertex order onto the stored one,
	// identity for a new element.
	Orientation types.Permutation
}

// LogEntry records an explicit element creation.
type LogEntry struct {
	Shape    types.Shape
	Vertices []int
}

/*
Mesh stores elements of dimension 0 through CellDimension. Ids in each dimension
start at 0, are assigned in insertion order and never reused.

Insertion is not safe for concurrent use. Queries may run concurrently once
insertion has finished; lazily built caches are guarded internally.
*/
type Mesh struct {
	opts   Options
	log    *utils.Logger
	engine *geometry.Engine

	points   []geometry.Point
	elements [][]Element
	keys     []map[types.CanonicalKey]int
	history  []LogEntry

	// eager[d][t] holds boundary lists of dimension t for LayoutFull dimension d
	eager [][][]utils.Index

	cacheMu     sync.RWMutex
	lazy        map[[2]int]map[int]utils.Index
	coboundary  map[[2]int][]utils.Index
	boundaryFct map[int]bool // facet id -> on mesh boundary, nil until computed
	generation  uint64

	regions    map[string]*Region
	nextRegion int
	attributes *Attributes
}

// NewMesh creates an empty mesh.
func NewMesh(opts Options) (m *Mesh, err error) {
	if opts.CellDimension < 1 || opts.CellDimension > 3 {
		return nil, fmt.Errorf("cell dimension must be 1, 2 or 3, have %d", opts.CellDimension)
	}
	if opts.GeometricDimension < opts.CellDimension {
		return nil, fmt.Errorf("geometric dimension %d is below cell dimension %d",
			opts.GeometricDimension, opts.CellDimension)
	}
	if opts.Layouts == nil {
		opts.Layouts = make(map[int]BoundaryLayout)
	}
	if opts.Engine == nil {
		opts.Engine = geometry.NewEngine(geometry.WithLogger(opts.Logger.OrDefault()))
	}
	D := opts.CellDimension
	m = &Mesh{
		opts:       opts,
		log:        opts.Logger.OrDefault().WithComponent("mesh"),
		engine:     opts.Engine,
		elements:   make([][]Element, D+1),
		keys:       make([]map[types.CanonicalKey]int, D+1),
		eager:      make([][][]utils.Index, D+1),
		lazy:       make(map[[2]int]map[int]utils.Index),
		coboundary: make(map[[2]int][]utils.Index),
		regions:    make(map[string]*Region),
	}
	for d := range m.keys {
		m.keys[d] = make(map[types.CanonicalKey]int)
		m.eager[d] = make([][]utils.Index, d)
	}
	m.attributes = newAttributes(m)
	return m, nil
}

func (m *Mesh) Options() Options { return m.opts }

func (m *Mesh) CellDimension() int { return m.opts.CellDimension }

func (m *Mesh) GeometricDimension() int { return m.opts.GeometricDimension }

func (m *Mesh) Layout(dim int) BoundaryLayout { return m.opts.Layouts[dim] }

func (m *Mesh) Engine() *geometry.Engine { return m.engine }

func (m *Mesh) Logger() *utils.Logger { return m.log }

func (m *Mesh) Attributes() *Attributes { return m.attributes }

// Count returns the number of elements of dimension dim.
func (m *Mesh) Count(dim int) int {
	if dim < 0 || dim >= len(m.elements) {
		return 0
	}
	return len(m.elements[dim])
}

// Element returns the stored element.
func (m *Mesh) Element(dim, id int) (Element, error) {
	if err := m.check(dim, id); err != nil {
		return Element{}, err
	}
	return m.elements[dim][id], nil
}

// Elements returns the ids of dimension dim in ascending order.
func (m *Mesh) Elements(dim int) utils.Index {
	return utils.NewRange(0, m.Count(dim)-1)
}

// Lookup finds the element of dimension dim with the given vertex set.
func (m *Mesh) Lookup(dim int, vertices []int) (id int, ok bool) {
	if dim < 1 || dim >= len(m.keys) {
		return 0, false
	}
	id, ok = m.keys[dim][types.NewCanonicalKey(vertices)]
	return
}

// History lists explicit element creations in insertion order.
func (m *Mesh) History() []LogEntry { return m.history }

func (m *Mesh) check(dim, id int) error {
	if dim < 0 || dim >= len(m.elements) || id < 0 || id >= len(m.elements[dim]) {
		return &types.IndexError{Dim: dim, ID: id, Count: m.Count(dim)}
	}
	return nil
}

// PrintStatistics prints mesh statistics to w
func (m *Mesh) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Cell dimension: %d, geometric dimension: %d\n", m.CellDimension(), m.GeometricDimension())
	for d := 0; d <= m.CellDimension(); d++ {
		fmt.Fprintf(w, "  Dimension %d: %d elements (%s layout)\n", d, m.Count(d), m.Layout(d))
	}

	// Count element shapes
	shapeCounts := make(map[types.Shape]int)
	for _, elems := range m.elements[1:] {
		for _, e := range elems {
			shapeCounts[e.Shape]++
		}
	}
	shapes := make([]types.Shape, 0, len(shapeCounts))
	for s := range shapeCounts {
		shapes = append(shapes, s)
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i] < shapes[j] })
	fmt.Fprintf(w, "  Element shapes:\n")
	for _, s := range shapes {
		fmt.Fprintf(w, "    %s: %d\n", s, shapeCounts[s])
	}
	if len(m.regions) > 0 {
		fmt.Fprintf(w, "  Regions:\n")
		for _, r := range m.Regions() {
			fmt.Fprintf(w, "    %s: %d cells\n", r.Name(), r.Count(m.CellDimension()))
		}
	}
}
