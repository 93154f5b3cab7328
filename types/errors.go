package types

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedElement is returned when an element definition repeats a vertex,
	// has the wrong number of vertices for its shape, or does not fit the mesh.
	ErrMalformedElement = errors.New("malformed element")
	// ErrIndexOutOfRange is returned for references to ids the mesh or region does not own.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDegenerateGeometry marks near-singular geometric configurations.
	// Whole-mesh computations log it and continue with a best-effort result.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrUnsupportedElementType is returned when no geometric routine is registered for a shape (pair).
	ErrUnsupportedElementType = errors.New("unsupported element type")
)

// MalformedElementError describes a rejected element definition.
type MalformedElementError struct {
	Shape  Shape
	IDs    []int
	Reason string
}

func (e *MalformedElementError) Error() string {
	return fmt.Sprintf("malformed %s %v: %s", e.Shape, e.IDs, e.Reason)
}

func (e *MalformedElementError) Is(target error) bool { return target == ErrMalformedElement }

// IndexError is a reference to an element id that does not exist.
type IndexError struct {
	Dim   int
	ID    int
	Count int
	Owner string
}

func (e *IndexError) Error() string {
	owner := e.Owner
	if owner == "" {
		owner = "mesh"
	}
	return fmt.Sprintf("%s has no element of dimension %d with id %d (count %d)", owner, e.Dim, e.ID, e.Count)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// DegenerateError reports a near-singular configuration together with the
// measure that fell under the tolerance.
type DegenerateError struct {
	Shape   Shape
	Op      string
	Measure float64
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate %s in %s (measure %g)", e.Shape, e.Op, e.Measure)
}

func (e *DegenerateError) Is(target error) bool { return target == ErrDegenerateGeometry }

// UnsupportedError names the operation and the shapes it was asked to handle.
type UnsupportedError struct {
	Op     string
	Shapes []Shape
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s not supported for %v", e.Op, e.Shapes)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupportedElementType }
