package voronoi

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

func quietOptions() mesh.Options {
	opts := mesh.DefaultOptions()
	opts.Logger = utils.NoopLogger()
	return opts
}

func build(t *testing.T, cm mesh.CompleteMesh) (*mesh.Mesh, *Result) {
	t.Helper()
	m, err := cm.ConvertToMesh(quietOptions())
	require.NoError(t, err)
	r, err := Build(m)
	require.NoError(t, err)
	return m, r
}

func TestCellConservation(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	{ // Acute triangle, circumcenter inside
		m, r := build(t, tm.SingleTriangle)
		var sum float64
		for _, c := range r.CellContributions(0) {
			sum += c.Volume
		}
		assert.InDelta(t, 1.5, sum, 1.e-12)
		assert.InDelta(t, 23./48, r.BoxVolume(0), 1.e-12)
		assert.InDelta(t, 23./48, r.BoxVolume(1), 1.e-12)
		assert.InDelta(t, 13./24, r.BoxVolume(2), 1.e-12)
		base, _ := m.Lookup(1, []int{0, 1})
		assert.InDelta(t, 5./12, r.InterfaceArea(base), 1.e-12)
		assert.InDelta(t, 2., r.EdgeLength(base), 1.e-12)
		assert.Empty(t, r.Warnings())
	}
	for name, cm := range map[string]mesh.CompleteMesh{
		"TwoTriangles": tm.TwoTriangles,
		"MixedQuadTri": tm.MixedQuadTri,
		"SingleTet":    tm.SingleTet,
		"TwoTets":      tm.TwoTets,
		"TwoHexes":     tm.TwoHexes,
		"LineChain":    tm.LineChain,
	} {
		m, r := build(t, cm)
		D := m.CellDimension()
		for _, c := range m.Elements(D) {
			var sum float64
			for _, f := range r.CellContributions(c) {
				sum += f.Volume
			}
			vol, _ := m.Volume(D, c, nil)
			assert.InDelta(t, vol, sum, 1.e-12, "%s cell %d", name, c)
		}
		assert.InDelta(t, cm.Volume, r.TotalVolume(), 1.e-12, name)
		var edgeSum float64
		for _, e := range m.Elements(1) {
			edgeSum += r.EdgeBoxVolume(e)
		}
		assert.InDelta(t, cm.Volume, edgeSum, 1.e-12, name)
	}
}

func TestKnownDuals(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	{
		_, r := build(t, tm.LineChain)
		for v, want := range []float64{0.5, 1.5, 1.25, 0.25} {
			assert.InDelta(t, want, r.BoxVolume(v), 1.e-12)
		}
		for e := 0; e < 3; e++ {
			assert.Equal(t, 1., r.InterfaceArea(e))
		}
		assert.Equal(t, 2., r.EdgeBoxVolume(1))
	}
	{ // Both triangles have their circumcenter at the square center
		m, r := build(t, tm.TwoTriangles)
		for v := 0; v < 4; v++ {
			assert.InDelta(t, 0.25, r.BoxVolume(v), 1.e-12)
		}
		bottom, _ := m.Lookup(1, []int{0, 1})
		diagonal, _ := m.Lookup(1, []int{1, 2})
		assert.InDelta(t, 0.5, r.InterfaceArea(bottom), 1.e-12)
		assert.InDelta(t, 0.25, r.EdgeBoxVolume(bottom), 1.e-12)
		assert.InDelta(t, 0, r.InterfaceArea(diagonal), 1.e-12)
		assert.Empty(t, r.Warnings())
	}
	{
		m, r := build(t, tm.TwoHexes)
		for _, v := range m.Elements(0) {
			p, _ := m.Point(v)
			want := 0.125
			if p[0] == 1 {
				want = 0.25
			}
			assert.InDelta(t, want, r.BoxVolume(v), 1.e-12)
		}
		for _, e := range m.Elements(1) {
			assert.InDelta(t, 1., r.EdgeLength(e), 1.e-12)
		}
	}
}

func TestStructuredGrids(t *testing.T) {
	{ // All Kuhn tetrahedra of a cube share its center as circumcenter
		m, err := mesh.GenerateStructured(mesh.StructuredSpec{Shape: types.Tetrahedron,
			Divisions: [3]int{1, 1, 1}, Max: [3]float64{1, 1, 1}}, quietOptions())
		require.NoError(t, err)
		r, err := Build(m)
		require.NoError(t, err)
		for _, v := range m.Elements(0) {
			assert.InDelta(t, 0.125, r.BoxVolume(v), 1.e-12)
		}
		axis, _ := m.Lookup(1, []int{0, 1})
		body, _ := m.Lookup(1, []int{0, 7})
		assert.InDelta(t, 0.25, r.InterfaceArea(axis), 1.e-12)
		assert.InDelta(t, 0, r.InterfaceArea(body), 1.e-12)
		assert.Empty(t, r.Warnings())
	}
	{
		m, err := mesh.GenerateStructured(mesh.StructuredSpec{Shape: types.Tetrahedron,
			Divisions: [3]int{2, 3, 2}, Min: [3]float64{-1, 0, 0}, Max: [3]float64{1, 3, 1}}, quietOptions())
		require.NoError(t, err)
		r, err := Build(m)
		require.NoError(t, err)
		assert.InDelta(t, 6, r.TotalVolume(), 1.e-10)
		for _, v := range m.Elements(0) {
			assert.Greater(t, r.BoxVolume(v), 0.)
		}
	}
	{
		m, err := mesh.GenerateStructured(mesh.StructuredSpec{Shape: types.Triangle,
			Divisions: [3]int{2, 2}, Max: [3]float64{1, 1}}, quietOptions())
		require.NoError(t, err)
		r, err := Build(m)
		require.NoError(t, err)
		assert.InDelta(t, 0.0625, r.BoxVolume(0), 1.e-12)
		assert.InDelta(t, 0.125, r.BoxVolume(1), 1.e-12)
		assert.InDelta(t, 0.25, r.BoxVolume(4), 1.e-12)
		assert.InDelta(t, 1, r.TotalVolume(), 1.e-12)
	}
}

func TestNonDelaunayWarnings(t *testing.T) {
	m, err := mesh.NewMesh(mesh.Options{CellDimension: 2, GeometricDimension: 2, Logger: utils.NoopLogger()})
	require.NoError(t, err)
	for _, p := range [][]float64{{0, 0}, {2, 0}, {1, 0.2}, {1, -0.2}} {
		_, err = m.CreateVertex(p)
		require.NoError(t, err)
	}
	_, err = m.CreateElement(2, []int{0, 3, 1})
	require.NoError(t, err)
	_, err = m.CreateElement(2, []int{0, 1, 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := NewBuilder(m, WithLogger(utils.NewTextLogger(&buf, slog.LevelWarn))).Build()
	require.NoError(t, err)
	shared, _ := m.Lookup(1, []int{0, 1})
	assert.InDelta(t, -4.8, r.InterfaceArea(shared), 1.e-12)
	assert.InDelta(t, -1.1, r.BoxVolume(0), 1.e-12)
	assert.InDelta(t, 1.3, r.BoxVolume(2), 1.e-12)
	// Still conservative
	assert.InDelta(t, 0.4, r.TotalVolume(), 1.e-12)

	ws := r.Warnings()
	require.Len(t, ws, 3)
	assert.Equal(t, Warning{Dim: 0, ID: 0, Quantity: QuantityBoxVolume, Value: r.BoxVolume(0)}, ws[0])
	assert.Equal(t, Warning{Dim: 0, ID: 1, Quantity: QuantityBoxVolume, Value: r.BoxVolume(1)}, ws[1])
	assert.Equal(t, 1, ws[2].Dim)
	assert.Equal(t, shared, ws[2].ID)
	assert.Equal(t, QuantityInterfaceArea, ws[2].Quantity)
	assert.Contains(t, buf.String(), "mesh is not Delaunay")
	assert.Contains(t, ws[2].String(), "negative interface area")
}

func TestDegenerateCircumcenter(t *testing.T) {
	m, err := mesh.NewMesh(mesh.Options{CellDimension: 2, GeometricDimension: 2, Logger: utils.NoopLogger()})
	require.NoError(t, err)
	for _, p := range [][]float64{{0, 0}, {1, 0}, {2, 1.e-9}} {
		_, _ = m.CreateVertex(p)
	}
	_, err = m.CreateElement(2, []int{0, 1, 2})
	require.NoError(t, err)
	r, err := Build(m)
	require.NoError(t, err)
	ws := r.Warnings()
	require.NotEmpty(t, ws)
	assert.Equal(t, QuantityCircumcenter, ws[0].Quantity)
	assert.Equal(t, 2, ws[0].Dim)
}

func TestAccessorAndAttach(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	m, err := tm.TwoTriangles.ConvertToMesh(quietOptions())
	require.NoError(t, err)
	doubled := geometry.PointFunc(func(id int) (geometry.Point, error) {
		p, err := m.Point(id)
		if err != nil {
			return nil, err
		}
		return p.Scale(2), nil
	})
	r, err := NewBuilder(m, WithAccessor(doubled)).Build()
	require.NoError(t, err)
	assert.InDelta(t, 4, r.TotalVolume(), 1.e-12)

	require.NoError(t, r.Attach(m.Attributes()))
	a := m.Attributes()
	assert.Equal(t, []string{AttrBoxVolume, AttrEdgeBoxVolume, AttrEdgeLength, AttrInterfaceArea}, a.ScalarNames())
	v, ok := a.Scalar(AttrBoxVolume, 0, 3)
	assert.True(t, ok)
	assert.InDelta(t, 1, v, 1.e-12)
	l, ok := a.Scalar(AttrEdgeLength, 1, 0)
	assert.True(t, ok)
	assert.InDelta(t, 2, l, 1.e-12)
	assert.Len(t, a.ScalarField(AttrInterfaceArea), m.Count(1))
	assert.Same(t, m, r.Mesh())
}
