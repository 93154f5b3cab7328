package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/types"
)

// stackedTriangles is a 2x4 triangle grid over [0,2]x[0,4]. Cells 0-7 fill the
// lower half, cells 8-15 the upper half.
func stackedTriangles(t *testing.T) (m *Mesh, lower, upper *Region) {
	t.Helper()
	m, err := GenerateStructured(StructuredSpec{
		Shape:     types.Triangle,
		Divisions: [3]int{2, 4},
		Max:       [3]float64{2, 4},
	}, quietOptions())
	require.NoError(t, err)
	require.Equal(t, 16, m.Count(2))
	lower, err = m.CreateRegion("lower")
	require.NoError(t, err)
	upper, err = m.CreateRegion("upper")
	require.NoError(t, err)
	for c := 0; c < 8; c++ {
		require.NoError(t, lower.Add(2, c))
		require.NoError(t, upper.AddRecursive(2, c+8))
	}
	return
}

func TestBoundaryDistance(t *testing.T) {
	m, lower, upper := stackedTriangles(t)
	cases := []struct {
		p            geometry.Point
		mesh, region float64
	}{
		{geometry.Point{1, 1}, 1, 1},
		{geometry.Point{1, 1.5}, 1, 0.5},
		{geometry.Point{0.2, 1}, 0.2, 0.2},
		{geometry.Point{1, 3}, 1, 1},
		{geometry.Point{0.5, 2}, 0.5, 0},
		{geometry.Point{3, 2}, 1, 1},
		{geometry.Point{1, -1}, 1, 1},
	}
	for _, c := range cases {
		d, err := m.BoundaryDistance(c.p, nil)
		require.NoError(t, err)
		assert.InDelta(t, c.mesh, d, 1e-12, "mesh %v", c.p)
		d, err = lower.BoundaryDistance(c.p, nil)
		require.NoError(t, err)
		assert.InDelta(t, c.region, d, 1e-12, "lower %v", c.p)
	}

	// Mirror image about y = 2 for the upper half.
	d, err := upper.BoundaryDistance(geometry.Point{1, 2.5}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12)

	// Scaled coordinates move the boundary too.
	scaled := geometry.PointFunc(func(id int) (geometry.Point, error) {
		p, err := m.Point(id)
		if err != nil {
			return nil, err
		}
		return p.Scale(2), nil
	})
	d, err = m.BoundaryDistance(geometry.Point{1, 1}, scaled)
	require.NoError(t, err)
	assert.InDelta(t, 1, d, 1e-12)
	d, err = m.BoundaryDistance(geometry.Point{2, 3}, scaled)
	require.NoError(t, err)
	assert.InDelta(t, 2, d, 1e-12)

	empty, err := m.CreateRegion("empty")
	require.NoError(t, err)
	_, err = empty.BoundaryDistance(geometry.Point{1, 1}, nil)
	assert.ErrorIs(t, err, ErrNoBoundary)
	m.DeleteRegion("empty")
	_, err = empty.BoundaryDistance(geometry.Point{1, 1}, nil)
	assert.Error(t, err)
}

func TestSurface(t *testing.T) {
	m, lower, upper := stackedTriangles(t)
	s, err := m.Surface(nil)
	require.NoError(t, err)
	assert.InDelta(t, 12, s, 1e-12)
	for _, r := range []*Region{lower, upper} {
		s, err = r.Surface(nil)
		require.NoError(t, err)
		assert.InDelta(t, 8, s, 1e-12, r.Name())
	}
	facets, err := lower.BoundaryFacets()
	require.NoError(t, err)
	assert.Len(t, facets, 8)

	cube, err := GenerateStructured(StructuredSpec{
		Shape:     types.Tetrahedron,
		Divisions: [3]int{2, 2, 2},
		Max:       [3]float64{1, 1, 1},
	}, quietOptions())
	require.NoError(t, err)
	s, err = cube.Surface(nil)
	require.NoError(t, err)
	assert.InDelta(t, 6, s, 1e-12)
	d, err := cube.BoundaryDistance(geometry.Point{0.5, 0.5, 0.5}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12)
	d, err = cube.BoundaryDistance(geometry.Point{0.5, 0.6, 0.9}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, d, 1e-12)

	line, err := GenerateStructured(StructuredSpec{
		Shape:     types.Line,
		Divisions: [3]int{4},
		Max:       [3]float64{1},
	}, quietOptions())
	require.NoError(t, err)
	s, err = line.Surface(nil)
	require.NoError(t, err)
	assert.Equal(t, 2., s)
	d, err = line.BoundaryDistance(geometry.Point{0.3}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, d, 1e-12)
}

func TestInsideCells(t *testing.T) {
	m, _, _ := stackedTriangles(t)
	containing := func(p geometry.Point) (ids []int) {
		for c := 0; c < m.Count(2); c++ {
			in, err := m.Inside(p, ElementRef{2, c}, nil)
			require.NoError(t, err)
			if in {
				ids = append(ids, c)
			}
		}
		return
	}
	assert.Len(t, containing(geometry.Point{1.3, 2.7}), 1)
	assert.Len(t, containing(geometry.Point{1, 2}), 6)
	assert.Len(t, containing(geometry.Point{0.5, 0}), 1)
	assert.Empty(t, containing(geometry.Point{2.1, 1}))

	in, err := m.Inside(geometry.Point{1, 2}, ElementRef{0, 7}, nil)
	require.NoError(t, err)
	assert.True(t, in)
	_, err = m.Inside(geometry.Point{1, 2}, ElementRef{2, 99}, nil)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
}
