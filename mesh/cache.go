package mesh

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PrecomputeCoboundaries builds the coboundary tables for the (dim, target)
// pairs given, or for every pair when none are given, along with the sparse
// boundary lists and mesh boundary flags. After it returns, read queries no
// longer contend on cache writes.
func (m *Mesh) PrecomputeCoboundaries(ctx context.Context, pairs ...[2]int) error {
	D := m.CellDimension()
	if len(pairs) == 0 {
		for d := 0; d < D; d++ {
			for t := d + 1; t <= D; t++ {
				pairs = append(pairs, [2]int{d, t})
			}
		}
	}
	for _, p := range pairs {
		if err := m.checkTarget(p[0], p[1], false); err != nil {
			return err
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.coboundaryTable(p[0], p[1])
			return nil
		})
	}
	for d := 3; d <= D; d++ {
		if m.Layout(d) == LayoutFull {
			continue
		}
		for t := 1; t < d-1; t++ {
			g.Go(func() error {
				for id := 0; id < m.Count(d); id++ {
					if err := ctx.Err(); err != nil {
						return err
					}
					if _, err := m.Boundary(d, id, t); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	m.boundaryFacets()
	return nil
}
