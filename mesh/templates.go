package mesh

import (
	"github.com/notargets/meshtopo/types"
)

// Local vertex templates. Cells list their faces so that each face, read in
// template order, winds counterclockwise seen from outside the cell.
var (
	triangleEdges = [][]int{{0, 1}, {1, 2}, {2, 0}}
	quadEdges     = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	tetFaces      = [][]int{
		{0, 2, 1}, // Face 0
		{0, 1, 3}, // Face 1
		{1, 2, 3}, // Face 2
		{0, 3, 2}, // Face 3
	}
	tetEdges = [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	hexFaces = [][]int{
		{0, 3, 2, 1}, // Face 0 (bottom)
		{4, 5, 6, 7}, // Face 1 (top)
		{0, 1, 5, 4}, // Face 2
		{1, 2, 6, 5}, // Face 3
		{2, 3, 7, 6}, // Face 4
		{3, 0, 4, 7}, // Face 5
	}
	hexEdges = [][]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
)

// facetShape is the shape of the dimension-1 boundary pieces of shape.
func facetShape(shape types.Shape) types.Shape {
	switch shape {
	case types.Line:
		return types.Vertex
	case types.Triangle, types.Quadrilateral, types.Polygon:
		return types.Line
	case types.Tetrahedron:
		return types.Triangle
	case types.Hexahedron:
		return types.Quadrilateral
	}
	return types.Vertex
}

func cyclicEdges(n int) (edges [][]int) {
	edges = make([][]int, n)
	for i := range edges {
		edges[i] = []int{i, (i + 1) % n}
	}
	return
}

func vertexSubsets(n int) (subsets [][]int) {
	subsets = make([][]int, n)
	for i := range subsets {
		subsets[i] = []int{i}
	}
	return
}

// subElementTemplate lists the local vertex subsets forming the boundary
// elements of dimension target for a shape with n vertices.
func subElementTemplate(shape types.Shape, n, target int) [][]int {
	if target == 0 {
		return vertexSubsets(n)
	}
	switch shape {
	case types.Triangle:
		return triangleEdges
	case types.Quadrilateral:
		return quadEdges
	case types.Polygon:
		return cyclicEdges(n)
	case types.Tetrahedron:
		if target == 2 {
			return tetFaces
		}
		return tetEdges
	case types.Hexahedron:
		if target == 2 {
			return hexFaces
		}
		return hexEdges
	}
	return nil
}

// subElementShape is the shape of the dimension target pieces of shape.
func subElementShape(shape types.Shape, target int) types.Shape {
	switch target {
	case 0:
		return types.Vertex
	case 1:
		return types.Line
	}
	return facetShape(shape)
}

// facetSign is the orientation the template gives facet i relative to the cell.
// A line is the chain v1 - v0; every other template lists facets with matching winding.
func facetSign(shape types.Shape, i int) int {
	if shape == types.Line && i == 0 {
		return -1
	}
	return 1
}

func gather(vertices []int, local []int) (ids []int) {
	ids = make([]int, len(local))
	for i, j := range local {
		ids[i] = vertices[j]
	}
	return
}
