package mesh

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = utils.NoopLogger()
	return opts
}

func buildMesh(t *testing.T, cm CompleteMesh) *Mesh {
	t.Helper()
	m, err := cm.ConvertToMesh(quietOptions())
	require.NoError(t, err)
	return m
}

func TestSingleTetBoundary(t *testing.T) {
	tm := GetStandardTestMeshes()
	for _, layout := range []BoundaryLayout{LayoutSparse, LayoutFull} {
		opts := quietOptions()
		opts.Layouts = map[int]BoundaryLayout{3: layout}
		m, err := tm.SingleTet.ConvertToMesh(opts)
		require.NoError(t, err)

		faces, err := m.Boundary(3, 0, 2)
		require.NoError(t, err)
		assert.Len(t, faces, 4, layout.String())
		edges, err := m.Boundary(3, 0, 1)
		require.NoError(t, err)
		assert.Len(t, edges, 6, layout.String())
		assert.Equal(t, utils.NewRange(0, 5), edges.Sorted())
		verts, err := m.Boundary(3, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, utils.Index{0, 1, 2, 3}, verts)

		assert.Equal(t, 4, m.Count(0))
		assert.Equal(t, 6, m.Count(1))
		assert.Equal(t, 4, m.Count(2))
		assert.Equal(t, 1, m.Count(3))

		// Every face is bounded by three of the tet's edges
		for _, f := range faces {
			fe, err := m.Boundary(2, f, 1)
			require.NoError(t, err)
			for _, e := range fe {
				assert.True(t, edges.Contains(e))
			}
		}
	}
}

func TestSharedEdgeDeduplication(t *testing.T) {
	m, err := NewMesh(Options{CellDimension: 2, GeometricDimension: 2, Logger: utils.NoopLogger()})
	require.NoError(t, err)
	for _, p := range [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		_, err = m.CreateVertex(p)
		require.NoError(t, err)
	}
	a, err := m.CreateElement(2, []int{0, 1, 2})
	require.NoError(t, err)
	b, err := m.CreateElement(2, []int{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, a.IsNew)
	assert.True(t, b.IsNew)
	assert.Equal(t, 5, m.Count(1))

	ea, _ := m.Boundary(2, a.ID, 1)
	eb, _ := m.Boundary(2, b.ID, 1)
	shared, ok := m.Lookup(1, []int{2, 1})
	require.True(t, ok)
	assert.True(t, ea.Contains(shared))
	assert.True(t, eb.Contains(shared))

	// The second triangle met edge (1,2) in the stored order
	eB, _ := m.Element(2, b.ID)
	assert.Equal(t, shared, eB.Facets[0])
	assert.True(t, eB.FacetOrientation[0].IsIdentity())

	{ // Re-inserting a rotation returns the stored element
		res, err := m.CreateElement(2, []int{2, 0, 1})
		require.NoError(t, err)
		assert.False(t, res.IsNew)
		assert.Equal(t, a.ID, res.ID)
		assert.Equal(t, types.Permutation{2, 0, 1}, res.Orientation)
		assert.Equal(t, 1, res.Orientation.Sign(types.Triangle))
	}
	{ // A reflection reports the opposite orientation
		res, err := m.CreateElement(2, []int{1, 0, 2})
		require.NoError(t, err)
		assert.False(t, res.IsNew)
		assert.Equal(t, -1, res.Orientation.Sign(types.Triangle))
	}
	assert.Equal(t, 2, m.Count(2))
	assert.Len(t, m.History(), 2)
}

func TestInsertionErrors(t *testing.T) {
	m, err := NewMesh(Options{CellDimension: 2, GeometricDimension: 2, Logger: utils.NoopLogger()})
	require.NoError(t, err)
	for _, p := range [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		_, err = m.CreateVertex(p)
		require.NoError(t, err)
	}
	_, err = m.CreateElement(2, []int{0, 1, 1})
	assert.True(t, errors.Is(err, types.ErrMalformedElement))
	_, err = m.CreateElement(2, []int{0, 1, 9})
	assert.True(t, errors.Is(err, types.ErrIndexOutOfRange))
	_, err = m.CreateShape(types.Tetrahedron, []int{0, 1, 2, 3})
	assert.True(t, errors.Is(err, types.ErrMalformedElement))
	_, err = m.CreateElement(1, []int{0, 1, 2})
	assert.True(t, errors.Is(err, types.ErrMalformedElement))
	_, err = m.CreateVertex([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, types.ErrMalformedElement))
	_, err = m.CreateVertex([]float64{math.NaN(), 0})
	assert.True(t, errors.Is(err, types.ErrMalformedElement))
	// Nothing was stored by the failed calls
	assert.Equal(t, 0, m.Count(1))
	assert.Equal(t, 4, m.Count(0))

	// Same vertex set under a different shape
	_, err = m.CreateShape(types.Quadrilateral, []int{0, 1, 2, 3})
	require.NoError(t, err)
	_, err = m.CreateShape(types.Polygon, []int{0, 1, 2, 3})
	assert.True(t, errors.Is(err, types.ErrMalformedElement))

	_, err = m.Boundary(2, 5, 1)
	assert.True(t, errors.Is(err, types.ErrIndexOutOfRange))
	_, err = m.Coboundary(0, 17, 2)
	assert.True(t, errors.Is(err, types.ErrIndexOutOfRange))
	_, err = m.Boundary(1, 0, 1)
	assert.Error(t, err)
	_, err = m.Coboundary(2, 0, 2)
	assert.Error(t, err)

	_, err = NewMesh(Options{CellDimension: 4, GeometricDimension: 4})
	assert.Error(t, err)
	_, err = NewMesh(Options{CellDimension: 3, GeometricDimension: 2})
	assert.Error(t, err)
}

func TestVertexPassThrough(t *testing.T) {
	m := buildMesh(t, GetStandardTestMeshes().SingleTriangle)
	res, err := m.CreateElement(0, []int{2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ID)
	assert.False(t, res.IsNew)
	_, err = m.CreateElement(0, []int{3})
	assert.True(t, errors.Is(err, types.ErrIndexOutOfRange))
}

func TestMeshGeometry(t *testing.T) {
	tm := GetStandardTestMeshes()
	for name, cm := range map[string]CompleteMesh{
		"SingleTriangle": tm.SingleTriangle,
		"TwoTriangles":   tm.TwoTriangles,
		"MixedQuadTri":   tm.MixedQuadTri,
		"SingleTet":      tm.SingleTet,
		"TwoTets":        tm.TwoTets,
		"TwoHexes":       tm.TwoHexes,
		"LineChain":      tm.LineChain,
	} {
		m := buildMesh(t, cm)
		D := m.CellDimension()
		var total float64
		for _, id := range m.Elements(D) {
			v, err := m.Volume(D, id, nil)
			require.NoError(t, err)
			total += v
		}
		assert.InDelta(t, cm.Volume, total, 1.e-12, name)
		assert.NoError(t, ValidateNodeCoordinates(m.Points().Rows(), cm.Nodes.Nodes, 0), name)
	}
}

func TestDistanceThroughMesh(t *testing.T) {
	opts := quietOptions()
	opts.CellDimension = 1
	m, err := NewMesh(opts)
	require.NoError(t, err)
	for _, p := range [][]float64{{3, 0, 1}, {1, 4, 3}, {2, 1, 2}, {3, 2, 3}, {2, 0, 3}} {
		_, err = m.CreateVertex(p)
		require.NoError(t, err)
	}
	l0, err := m.CreateElement(1, []int{0, 1})
	require.NoError(t, err)
	l1, err := m.CreateElement(1, []int{2, 3})
	require.NoError(t, err)

	d, err := m.Distance(ElementRef{0, 4}, ElementRef{1, l1.ID}, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2), d, 1.e-12)
	d, err = m.Distance(ElementRef{0, 4}, ElementRef{1, l0.ID}, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3.5), d, 1.e-12)
	d, err = m.DistanceToPoint(geometry.Point{2, 0, 3}, ElementRef{1, l1.ID}, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2), d, 1.e-12)

	// Reflexive and symmetric
	d, err = m.Distance(ElementRef{1, l0.ID}, ElementRef{1, l0.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0., d)
	d1, _ := m.Distance(ElementRef{1, l0.ID}, ElementRef{1, l1.ID}, nil)
	d2, _ := m.Distance(ElementRef{1, l1.ID}, ElementRef{1, l0.ID}, nil)
	assert.InDelta(t, d1, d2, 1.e-12)

	// A caller supplied accessor replaces the stored coordinates
	doubled := geometry.PointFunc(func(id int) (geometry.Point, error) {
		p, err := m.Point(id)
		if err != nil {
			return nil, err
		}
		return p.Scale(2), nil
	})
	d, err = m.Distance(ElementRef{0, 4}, ElementRef{1, l1.ID}, doubled)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Sqrt(2), d, 1.e-12)

	c, err := m.Circumcenter(1, l1.ID, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 1.5, 2.5}, []float64(c), 1.e-12)
}

func TestAttributes(t *testing.T) {
	m := buildMesh(t, GetStandardTestMeshes().TwoTriangles)
	a := m.Attributes()
	require.NoError(t, a.SetScalar("potential", 0, 3, 1.25))
	require.NoError(t, a.SetScalar("potential", 0, 1, -2))
	require.NoError(t, a.SetScalar("material", 2, 1, 7))
	require.NoError(t, a.SetVector("velocity", 2, 0, []float64{1, 0}))
	err := a.SetScalar("potential", 0, 4, 1)
	assert.True(t, errors.Is(err, types.ErrIndexOutOfRange))

	v, ok := a.Scalar("potential", 0, 3)
	assert.True(t, ok)
	assert.Equal(t, 1.25, v)
	_, ok = a.Scalar("potential", 0, 0)
	assert.False(t, ok)
	vec, ok := a.Vector("velocity", 2, 0)
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 0}, vec)
	assert.Equal(t, []string{"material", "potential"}, a.ScalarNames())
	assert.Equal(t, []ElementRef{{0, 1}, {0, 3}}, SortedRefs(a.ScalarField("potential")))
	a.Delete("material")
	assert.Equal(t, []string{"potential"}, a.ScalarNames())
}

func TestPrintStatistics(t *testing.T) {
	m := buildMesh(t, GetStandardTestMeshes().TwoTets)
	r, err := m.CreateRegion("left")
	require.NoError(t, err)
	require.NoError(t, r.Add(3, 0))
	var buf bytes.Buffer
	m.PrintStatistics(&buf)
	out := buf.String()
	assert.Contains(t, out, "Cell dimension: 3, geometric dimension: 3")
	assert.Contains(t, out, "Dimension 2: 7 elements")
	assert.Contains(t, out, "Tetrahedron: 2")
	assert.Contains(t, out, "left: 1 cells")
}
