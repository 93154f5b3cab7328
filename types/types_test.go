package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Canonical keys ignore vertex order
		k1 := NewCanonicalKey([]int{4, 0, 2})
		k2 := NewCanonicalKey([]int{2, 4, 0})
		assert.Equal(t, k1, k2)
		assert.Equal(t, []int{0, 2, 4}, k1.GetVertices())
		assert.NotEqual(t, k1, NewCanonicalKey([]int{0, 2, 5}))
		assert.NotEqual(t, NewCanonicalKey([]int{1, 2}), NewCanonicalKey([]int{1, 2, 3}))

		// Maximum index
		k := NewCanonicalKey([]int{1<<32 - 1, 0})
		assert.Equal(t, []int{0, 1<<32 - 1}, k.GetVertices())
		assert.Panics(t, func() { NewCanonicalKey([]int{-1, 3}) })
	}
	{
		tokens := []string{"Tet", "hex", "TRIANGLE", " quad ", "edge", "polygon"}
		shapes := []Shape{Tetrahedron, Hexahedron, Triangle, Quadrilateral, Line, Polygon}
		for i, token := range tokens {
			s, err := ParseShape(token)
			require.NoError(t, err)
			fmt.Printf("token = %s, shape = %s, dim = %d\n", token, s, s.Dimension())
			assert.Equal(t, shapes[i], s)
		}
		_, err := ParseShape("prism")
		assert.Error(t, err)
	}
}

func TestInferShape(t *testing.T) {
	cases := []struct {
		dim, n int
		shape  Shape
		ok     bool
	}{
		{0, 1, Vertex, true},
		{1, 2, Line, true},
		{1, 3, 0, false},
		{2, 3, Triangle, true},
		{2, 4, Quadrilateral, true},
		{2, 6, Polygon, true},
		{3, 4, Tetrahedron, true},
		{3, 8, Hexahedron, true},
		{3, 6, 0, false},
		{4, 5, 0, false},
	}
	for _, c := range cases {
		s, ok := InferShape(c.dim, c.n)
		assert.Equal(t, c.ok, ok, "dim %d n %d", c.dim, c.n)
		if ok {
			assert.Equal(t, c.shape, s)
			assert.True(t, s.AcceptsVertexCount(c.n))
		}
	}
}

func TestPermutation(t *testing.T) {
	stored := []int{7, 3, 9}
	{ // Rotation of a triangle keeps orientation
		p, ok := FindPermutation([]int{3, 9, 7}, stored)
		require.True(t, ok)
		assert.Equal(t, Permutation{1, 2, 0}, p)
		assert.Equal(t, []int{3, 9, 7}, p.Apply(stored))
		assert.Equal(t, 1, p.Parity())
		assert.Equal(t, 1, p.Sign(Triangle))
	}
	{ // Reflection flips it
		p, ok := FindPermutation([]int{9, 3, 7}, stored)
		require.True(t, ok)
		assert.Equal(t, -1, p.Parity())
		assert.Equal(t, -1, p.Sign(Triangle))
		assert.Equal(t, Identity(3), Permutation(p.Inverse().Apply(p)))
	}
	{
		_, ok := FindPermutation([]int{3, 9, 8}, stored)
		assert.False(t, ok)
		assert.True(t, Identity(4).IsIdentity())
	}
	{ // Quadrilateral rotations are odd permutations but preserve the traversal direction
		quad := []int{0, 1, 2, 3}
		p, _ := FindPermutation([]int{1, 2, 3, 0}, quad)
		assert.Equal(t, -1, p.Parity())
		assert.Equal(t, 1, p.Sign(Quadrilateral))
		p, _ = FindPermutation([]int{0, 3, 2, 1}, quad)
		assert.Equal(t, -1, p.Sign(Quadrilateral))
		p, _ = FindPermutation([]int{0, 2, 1, 3}, quad)
		assert.Equal(t, 0, p.CyclicSign())
	}
	{ // Lines
		p, _ := FindPermutation([]int{5, 4}, []int{4, 5})
		assert.Equal(t, -1, p.Sign(Line))
	}
}

func TestSlices(t *testing.T) {
	dup, found := HasDuplicate([]int{1, 5, 2, 5})
	assert.True(t, found)
	assert.Equal(t, 5, dup)
	_, found = HasDuplicate([]int{1, 2, 3})
	assert.False(t, found)
}

func TestErrors(t *testing.T) {
	var err error = &MalformedElementError{Shape: Triangle, IDs: []int{1, 1, 2}, Reason: "duplicate vertex 1"}
	assert.True(t, errors.Is(err, ErrMalformedElement))
	assert.False(t, errors.Is(err, ErrIndexOutOfRange))
	wrapped := fmt.Errorf("inserting cell: %w", &IndexError{Dim: 0, ID: 12, Count: 4})
	assert.True(t, errors.Is(wrapped, ErrIndexOutOfRange))
	var ie *IndexError
	require.True(t, errors.As(wrapped, &ie))
	assert.Equal(t, 12, ie.ID)
	assert.True(t, errors.Is(&DegenerateError{Shape: Tetrahedron, Op: "circumcenter"}, ErrDegenerateGeometry))
	assert.True(t, errors.Is(&UnsupportedError{Op: "distance", Shapes: []Shape{Line, Tetrahedron}}, ErrUnsupportedElementType))
}
