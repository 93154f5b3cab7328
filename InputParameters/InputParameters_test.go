package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Shape: tri
Divisions: [2, 2]
Min: [-1, 0]
Max: [1, 2]
Layouts:
  1: full
Compression: lz4
Voronoi: true
Regions:
  left: [0, 1]
  right: [6, 7]
`)
	var input MeshParameters
	require.NoError(t, input.Parse(fileInput))
	assert.Equal(t, "Test Case", input.Title)
	assert.Equal(t, []int{2, 2}, input.Divisions)
	assert.Equal(t, "full", input.Layouts[1])
	assert.Equal(t, []int{6, 7}, input.Regions["right"])
	assert.True(t, input.Voronoi)
	input.Print()

	spec, err := input.StructuredSpec()
	require.NoError(t, err)
	assert.Equal(t, types.Triangle, spec.Shape)
	assert.Equal(t, [3]int{2, 2, 0}, spec.Divisions)
	assert.Equal(t, [3]float64{-1, 0, 0}, spec.Min)
	assert.Equal(t, [3]float64{1, 2, 0}, spec.Max)

	opts, err := input.Options()
	require.NoError(t, err)
	assert.Equal(t, mesh.LayoutFull, opts.Layouts[1])
	opts.Logger = utils.NoopLogger()

	m, err := mesh.GenerateStructured(spec, opts)
	require.NoError(t, err)
	require.NoError(t, input.ApplyRegions(m))
	left := m.Region("left")
	require.NotNil(t, left)
	assert.Equal(t, 2, left.Count(2))
	assert.Equal(t, 4, left.Count(0))
	assert.NotNil(t, m.Region("right"))
}

func TestDefaultsAndErrors(t *testing.T) {
	input := MeshParameters{Shape: "hex", Divisions: []int{2, 3, 4}}
	spec, err := input.StructuredSpec()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, spec.Max)

	input.Divisions = []int{2}
	_, err = input.StructuredSpec()
	assert.Error(t, err)

	input.Shape = "prism"
	_, err = input.StructuredSpec()
	assert.Error(t, err)

	input.Layouts = map[int]string{2: "packed"}
	_, err = input.Options()
	assert.Error(t, err)

	line := MeshParameters{Shape: "line", Divisions: []int{3}, Regions: map[string][]int{"bad": {9}}}
	spec, err = line.StructuredSpec()
	require.NoError(t, err)
	opts, err := line.Options()
	require.NoError(t, err)
	opts.Logger = utils.NoopLogger()
	m, err := mesh.GenerateStructured(spec, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, line.ApplyRegions(m), types.ErrIndexOutOfRange)
}
