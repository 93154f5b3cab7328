package types

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

/*
CanonicalKey identifies an element by its vertex set, independent of the order the vertices were listed in.
The sorted vertex ids are packed as 32 bit unsigned integers, so an element with vertices [4,0,2] and one with
[2,4,0] produce the same key.
*/
type CanonicalKey string

func NewCanonicalKey(verts []int) (key CanonicalKey) {
	var (
		limit  = math.MaxUint32
		sorted = SortedCopy(verts)
		buf    = make([]byte, 4*len(sorted))
	)
	for i, vert := range sorted {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack vertex id %d into a canonical key", vert))
		}
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(vert))
	}
	return CanonicalKey(buf)
}

func (k CanonicalKey) GetVertices() (verts []int) {
	verts = make([]int, len(k)/4)
	for i := range verts {
		verts[i] = int(binary.LittleEndian.Uint32([]byte(k[4*i:])))
	}
	return
}

func (k CanonicalKey) String() string {
	return fmt.Sprintf("%v", k.GetVertices())
}

/*
Permutation relates two vertex listings of the same element. Entry i holds the position, within the stored
(reference) listing, of the i-th vertex of the other listing:

	local[i] == stored[p[i]]
*/
type Permutation []int

func Identity(n int) (p Permutation) {
	p = make(Permutation, n)
	for i := range p {
		p[i] = i
	}
	return
}

// FindPermutation returns p with local[i] == stored[p[i]], false if the vertex sets differ.
func FindPermutation(local, stored []int) (p Permutation, ok bool) {
	if len(local) != len(stored) {
		return nil, false
	}
	pos := make(map[int]int, len(stored))
	for i, v := range stored {
		pos[v] = i
	}
	p = make(Permutation, len(local))
	for i, v := range local {
		var j int
		if j, ok = pos[v]; !ok {
			return nil, false
		}
		p[i] = j
	}
	return p, true
}

func (p Permutation) IsIdentity() bool {
	for i, j := range p {
		if i != j {
			return false
		}
	}
	return true
}

func (p Permutation) Inverse() (inv Permutation) {
	inv = make(Permutation, len(p))
	for i, j := range p {
		inv[j] = i
	}
	return
}

// Apply reorders the stored listing into the local one.
func (p Permutation) Apply(stored []int) (local []int) {
	local = make([]int, len(p))
	for i, j := range p {
		local[i] = stored[j]
	}
	return
}

// Parity is +1 for an even permutation, -1 for an odd one.
func (p Permutation) Parity() (sign int) {
	var (
		seen = make([]bool, len(p))
	)
	sign = 1
	for i := range p {
		if seen[i] {
			continue
		}
		var length int
		for j := i; !seen[j]; j = p[j] {
			seen[j] = true
			length++
		}
		if length%2 == 0 {
			sign = -sign
		}
	}
	return
}

// CyclicSign compares the traversal direction of two perimeter listings of a
// polygon: +1 when both run the same way around, -1 when reversed, 0 when the
// listings are not rotations or reflections of one another.
func (p Permutation) CyclicSign() int {
	n := len(p)
	if n < 3 {
		return p.Parity()
	}
	var dir int
	switch (p[1] - p[0] + n) % n {
	case 1:
		dir = 1
	case n - 1:
		dir = -1
	default:
		return 0
	}
	for i := 1; i < n; i++ {
		if (p[(i+1)%n]-p[i]+n)%n != (dir+n)%n {
			return 0
		}
	}
	return dir
}

// Sign is the relative orientation of the two listings for an element of the given shape.
func (p Permutation) Sign(shape Shape) int {
	if shape.IsCyclic() {
		return p.CyclicSign()
	}
	return p.Parity()
}

func SortedCopy(ids []int) (sorted []int) {
	sorted = make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	return
}
