package mesh

import (
	"fmt"
	"sort"
)

// Attributes holds named per-element quantities, keyed by (dimension, id).
// Codecs attach file fields here and the dual-grid builder stores its volumes here.
type Attributes struct {
	mesh    *Mesh
	scalars map[string]map[ElementRef]float64
	vectors map[string]map[ElementRef][]float64
}

func newAttributes(m *Mesh) *Attributes {
	return &Attributes{
		mesh:    m,
		scalars: make(map[string]map[ElementRef]float64),
		vectors: make(map[string]map[ElementRef][]float64),
	}
}

func (a *Attributes) SetScalar(name string, dim, id int, val float64) error {
	if err := a.mesh.check(dim, id); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	field, ok := a.scalars[name]
	if !ok {
		field = make(map[ElementRef]float64)
		a.scalars[name] = field
	}
	field[ElementRef{dim, id}] = val
	return nil
}

func (a *Attributes) Scalar(name string, dim, id int) (val float64, ok bool) {
	val, ok = a.scalars[name][ElementRef{dim, id}]
	return
}

func (a *Attributes) SetVector(name string, dim, id int, val []float64) error {
	if err := a.mesh.check(dim, id); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	field, ok := a.vectors[name]
	if !ok {
		field = make(map[ElementRef][]float64)
		a.vectors[name] = field
	}
	field[ElementRef{dim, id}] = append([]float64(nil), val...)
	return nil
}

func (a *Attributes) Vector(name string, dim, id int) (val []float64, ok bool) {
	val, ok = a.vectors[name][ElementRef{dim, id}]
	return
}

// ScalarField returns the entries of one scalar attribute, nil if absent.
func (a *Attributes) ScalarField(name string) map[ElementRef]float64 { return a.scalars[name] }

// VectorField returns the entries of one vector attribute, nil if absent.
func (a *Attributes) VectorField(name string) map[ElementRef][]float64 { return a.vectors[name] }

func (a *Attributes) ScalarNames() []string { return sortedKeys(a.scalars) }

func (a *Attributes) VectorNames() []string { return sortedKeys(a.vectors) }

func (a *Attributes) Delete(name string) {
	delete(a.scalars, name)
	delete(a.vectors, name)
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// SortedRefs orders attribute keys by dimension, then id.
func SortedRefs[V any](field map[ElementRef]V) (refs []ElementRef) {
	refs = make([]ElementRef, 0, len(field))
	for r := range field {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Dim != refs[j].Dim {
			return refs[i].Dim < refs[j].Dim
		}
		return refs[i].ID < refs[j].ID
	})
	return
}
