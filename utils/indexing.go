package utils

import (
	"sort"
)

// Index is an ordered list of element ids.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	if size < 0 {
		size = 0
	}
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Contains(val int) bool {
	for _, v := range I {
		if v == val {
			return true
		}
	}
	return false
}

// Sorted returns an ascending copy.
func (I Index) Sorted() (r Index) {
	r = I.Copy()
	sort.Ints(r)
	return
}

// Equal compares element by element.
func (I Index) Equal(J Index) bool {
	if len(I) != len(J) {
		return false
	}
	for i := range I {
		if I[i] != J[i] {
			return false
		}
	}
	return true
}
