package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/meshtopo/types"
)

// TestMeshes provides a collection of small meshes shared by the tests of the
// mesh, dual-grid, locator and snapshot packages.
type TestMeshes struct {
	SingleTriangle CompleteMesh // Acute, circumcenter strictly inside
	TwoTriangles   CompleteMesh // Unit square split along v1-v2
	MixedQuadTri   CompleteMesh
	SingleTet      CompleteMesh
	TwoTets        CompleteMesh // Sharing face v1-v2-v3
	TwoHexes       CompleteMesh // 2x1x1 box
	LineChain      CompleteMesh // 1D, uneven spacing
}

// NodeSet represents a set of nodes with their coordinates
type NodeSet struct {
	Nodes   [][]float64    // Coordinates, index is the vertex id
	NodeMap map[string]int // Logical name -> vertex id
}

// ElementSet represents a set of elements of one shape
type ElementSet struct {
	Shape    types.Shape
	Elements [][]string // Connectivity using logical node names
}

// CompleteMesh represents a complete mesh with nodes and elements
type CompleteMesh struct {
	Nodes       NodeSet
	Elements    []ElementSet
	Dimension   int
	BoundingBox [2][3]float64 // Min and max coordinates
	Volume      float64       // Total cell measure
}

// GetStandardTestMeshes returns a set of standard test meshes
func GetStandardTestMeshes() *TestMeshes {
	return &TestMeshes{
		SingleTriangle: createSingleTriangle(),
		TwoTriangles:   createTwoTriangles(),
		MixedQuadTri:   createMixedQuadTri(),
		SingleTet:      createSingleTet(),
		TwoTets:        createTwoTets(),
		TwoHexes:       createTwoHexes(),
		LineChain:      createLineChain(),
	}
}

func newNodeSet(nodes [][]float64, names ...string) NodeSet {
	ns := NodeSet{Nodes: nodes, NodeMap: make(map[string]int)}
	for i, name := range names {
		ns.NodeMap[name] = i
	}
	return ns
}

func createSingleTriangle() CompleteMesh {
	return CompleteMesh{
		Nodes: newNodeSet([][]float64{
			{0, 0},
			{2, 0},
			{1, 1.5},
		}, "v0", "v1", "v2"),
		Elements: []ElementSet{
			{Shape: types.Triangle, Elements: [][]string{{"v0", "v1", "v2"}}},
		},
		Dimension:   2,
		BoundingBox: [2][3]float64{{0, 0, 0}, {2, 1.5, 0}},
		Volume:      1.5,
	}
}

func createTwoTriangles() CompleteMesh {
	return CompleteMesh{
		Nodes: newNodeSet([][]float64{
			{0, 0},
			{1, 0},
			{0, 1},
			{1, 1},
		}, "v0", "v1", "v2", "v3"),
		Elements: []ElementSet{
			{Shape: types.Triangle, Elements: [][]string{
				{"v0", "v1", "v2"},
				{"v1", "v3", "v2"},
			}},
		},
		Dimension:   2,
		BoundingBox: [2][3]float64{{0, 0, 0}, {1, 1, 0}},
		Volume:      1,
	}
}

func createMixedQuadTri() CompleteMesh {
	return CompleteMesh{
		Nodes: newNodeSet([][]float64{
			{0, 0},
			{1, 0},
			{1, 1},
			{0, 1},
			{2, 0.5},
		}, "sw", "se", "ne", "nw", "tip"),
		Elements: []ElementSet{
			{Shape: types.Quadrilateral, Elements: [][]string{{"sw", "se", "ne", "nw"}}},
			{Shape: types.Triangle, Elements: [][]string{{"se", "tip", "ne"}}},
		},
		Dimension:   2,
		BoundingBox: [2][3]float64{{0, 0, 0}, {2, 1, 0}},
		Volume:      1.5,
	}
}

func createSingleTet() CompleteMesh {
	// Standard tetrahedron with vertices at:
	// (0,0,0), (1,0,0), (0,1,0), (0,0,1)
	return CompleteMesh{
		Nodes: newNodeSet([][]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		}, "v0", "v1", "v2", "v3"),
		Elements: []ElementSet{
			{Shape: types.Tetrahedron, Elements: [][]string{{"v0", "v1", "v2", "v3"}}},
		},
		Dimension:   3,
		BoundingBox: [2][3]float64{{0, 0, 0}, {1, 1, 1}},
		Volume:      1. / 6,
	}
}

func createTwoTets() CompleteMesh {
	// Two tetrahedra sharing a face
	return CompleteMesh{
		Nodes: newNodeSet([][]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
			{1, 1, 1},
		}, "v0", "v1", "v2", "v3", "v4"),
		Elements: []ElementSet{
			{Shape: types.Tetrahedron, Elements: [][]string{
				{"v0", "v1", "v2", "v3"},
				{"v1", "v2", "v3", "v4"},
			}},
		},
		Dimension:   3,
		BoundingBox: [2][3]float64{{0, 0, 0}, {1, 1, 1}},
		Volume:      1./6 + 1./3,
	}
}

func createTwoHexes() CompleteMesh {
	nodes := make([][]float64, 0, 12)
	names := make([]string, 0, 12)
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 3; i++ {
				nodes = append(nodes, []float64{float64(i), float64(j), float64(k)})
				names = append(names, fmt.Sprintf("n%d%d%d", i, j, k))
			}
		}
	}
	hex := func(i int) []string {
		return []string{
			fmt.Sprintf("n%d00", i), fmt.Sprintf("n%d00", i+1), fmt.Sprintf("n%d10", i+1), fmt.Sprintf("n%d10", i),
			fmt.Sprintf("n%d01", i), fmt.Sprintf("n%d01", i+1), fmt.Sprintf("n%d11", i+1), fmt.Sprintf("n%d11", i),
		}
	}
	return CompleteMesh{
		Nodes: newNodeSet(nodes, names...),
		Elements: []ElementSet{
			{Shape: types.Hexahedron, Elements: [][]string{hex(0), hex(1)}},
		},
		Dimension:   3,
		BoundingBox: [2][3]float64{{0, 0, 0}, {2, 1, 1}},
		Volume:      2,
	}
}

func createLineChain() CompleteMesh {
	return CompleteMesh{
		Nodes: newNodeSet([][]float64{{0}, {1}, {3}, {3.5}}, "a", "b", "c", "d"),
		Elements: []ElementSet{
			{Shape: types.Line, Elements: [][]string{{"a", "b"}, {"b", "c"}, {"c", "d"}}},
		},
		Dimension:   1,
		BoundingBox: [2][3]float64{{0, 0, 0}, {3.5, 0, 0}},
		Volume:      3.5,
	}
}

// ConvertToMesh inserts the nodes in order, then the elements set by set.
func (cm *CompleteMesh) ConvertToMesh(opts Options) (*Mesh, error) {
	opts.CellDimension = cm.Dimension
	opts.GeometricDimension = len(cm.Nodes.Nodes[0])
	mesh, err := NewMesh(opts)
	if err != nil {
		return nil, err
	}

	// Add nodes
	for _, coords := range cm.Nodes.Nodes {
		if _, err = mesh.CreateVertex(coords); err != nil {
			return nil, err
		}
	}

	// Add elements
	for _, elemSet := range cm.Elements {
		for _, elemNodes := range elemSet.Elements {
			if _, err = mesh.CreateShape(elemSet.Shape, cm.IDs(elemNodes...)); err != nil {
				return nil, err
			}
		}
	}
	return mesh, nil
}

// IDs converts logical node names to vertex ids.
func (cm *CompleteMesh) IDs(names ...string) (ids []int) {
	ids = make([]int, len(names))
	for i, name := range names {
		ids[i] = cm.Nodes.NodeMap[name]
	}
	return
}

// Validation helpers

// ValidateNodeCoordinates checks if node coordinates match expected values
func ValidateNodeCoordinates(nodes [][]float64, expected [][]float64, tolerance float64) error {
	if len(nodes) != len(expected) {
		return fmt.Errorf("node count mismatch: got %d, expected %d", len(nodes), len(expected))
	}

	for i := range nodes {
		for j := range nodes[i] {
			diff := math.Abs(nodes[i][j] - expected[i][j])
			if diff > tolerance {
				return fmt.Errorf("node %d coord %d: got %f, expected %f (diff %f > tol %f)",
					i, j, nodes[i][j], expected[i][j], diff, tolerance)
			}
		}
	}

	return nil
}

// ValidateElementConnectivity checks if element connectivity matches expected
func ValidateElementConnectivity(elements [][]int, expected [][]int) error {
	if len(elements) != len(expected) {
		return fmt.Errorf("element count mismatch: got %d, expected %d", len(elements), len(expected))
	}

	for i := range elements {
		if len(elements[i]) != len(expected[i]) {
			return fmt.Errorf("element %d node count mismatch: got %d, expected %d",
				i, len(elements[i]), len(expected[i]))
		}

		for j := range elements[i] {
			if elements[i][j] != expected[i][j] {
				return fmt.Errorf("element %d node %d: got %d, expected %d",
					i, j, elements[i][j], expected[i][j])
			}
		}
	}

	return nil
}
