package geometry

import (
	"errors"

	"github.com/notargets/meshtopo/types"
	"github.com/notargets/meshtopo/utils"
)

// Pair holds the closest point on each argument, in argument order.
type Pair struct {
	A, B Point
}

func (p Pair) Distance() float64 { return p.A.Distance(p.B) }

// ClosestFunc computes the closest pair of two primitives whose shapes match
// the table entry it is registered under.
type ClosestFunc func(e *Engine, a, b Primitive) (Pair, error)

type shapePair struct {
	a, b types.Shape
}

// Engine dispatches geometric routines on element shapes.
// It is safe for concurrent use once configured.
type Engine struct {
	log     *utils.Logger
	closest map[shapePair]ClosestFunc
}

type Option func(*Engine)

func WithLogger(l *utils.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log: utils.DefaultLogger(),
		closest: map[shapePair]ClosestFunc{
			{types.Vertex, types.Vertex}:      closestPointPoint,
			{types.Vertex, types.Line}:        closestPointLine,
			{types.Line, types.Line}:          closestLineLine,
			{types.Vertex, types.Triangle}:    closestPointTriangle,
			{types.Vertex, types.Tetrahedron}: closestPointTetrahedron,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.OrDefault().WithComponent("geometry")
	return e
}

// Register adds or replaces the routine for the shape pair. a must not rank above b.
func (e *Engine) Register(a, b types.Shape, fn ClosestFunc) {
	e.closest[shapePair{a, b}] = fn
}

// ClosestPoints returns the closest point on a and on b.
// Shapes without a routine of their own are split into simplices first.
func (e *Engine) ClosestPoints(a, b Primitive) (pr Pair, err error) {
	if err = a.Validate(); err != nil {
		return
	}
	if err = b.Validate(); err != nil {
		return
	}
	if a.Dim() != b.Dim() {
		return pr, &types.MalformedElementError{Shape: b.Shape, Reason: "coordinate dimension differs from other argument"}
	}
	if pr, err = e.closestPoints(a, b); err != nil {
		if errors.Is(err, types.ErrUnsupportedElementType) {
			err = &types.UnsupportedError{Op: "closest points", Shapes: []types.Shape{a.Shape, b.Shape}}
		}
	}
	return
}

func (e *Engine) closestPoints(a, b Primitive) (pr Pair, err error) {
	swap := a.Shape > b.Shape
	if swap {
		a, b = b, a
	}
	defer func() {
		if swap {
			pr.A, pr.B = pr.B, pr.A
		}
	}()
	if fn, ok := e.closest[shapePair{a.Shape, b.Shape}]; ok {
		return fn(e, a, b)
	}
	if parts := b.Decompose(); parts != nil {
		return e.closestOverParts(a, parts, false)
	}
	if parts := a.Decompose(); parts != nil {
		return e.closestOverParts(b, parts, true)
	}
	return pr, &types.UnsupportedError{Op: "closest points", Shapes: []types.Shape{a.Shape, b.Shape}}
}

// closestOverParts keeps the shortest pair between fixed and any of parts.
// When partsFirst is set the returned pair is ordered (part, fixed).
func (e *Engine) closestOverParts(fixed Primitive, parts []Primitive, partsFirst bool) (best Pair, err error) {
	bestDist := -1.
	for _, part := range parts {
		var pr Pair
		if partsFirst {
			pr, err = e.closestPoints(part, fixed)
		} else {
			pr, err = e.closestPoints(fixed, part)
		}
		if err != nil {
			return
		}
		if d := pr.Distance(); bestDist < 0 || d < bestDist {
			best, bestDist = pr, d
		}
	}
	return
}

func (e *Engine) Distance(a, b Primitive) (float64, error) {
	pr, err := e.ClosestPoints(a, b)
	if err != nil {
		return 0, err
	}
	return pr.Distance(), nil
}

var defaultEngine = NewEngine()

// ClosestPoints uses the default engine.
func ClosestPoints(a, b Primitive) (Pair, error) { return defaultEngine.ClosestPoints(a, b) }

// Distance uses the default engine.
func Distance(a, b Primitive) (float64, error) { return defaultEngine.Distance(a, b) }

// Circumcenter uses the default engine.
func Circumcenter(p Primitive) (Point, error) { return defaultEngine.Circumcenter(p) }
