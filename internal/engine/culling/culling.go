// Package culling classifies large batches of bounds against a frustum,
// split across goroutines.
package culling

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/lidshade/pkg/frustum"
	"github.com/Faultbox/lidshade/pkg/geom"
)

// minChunk keeps small batches on one goroutine.
const minChunk = 256

// Result is the outcome of a box batch, with indices in input order.
type Result struct {
	// Visible lists every box that is not outside, intersecting ones included.
	Visible []int
	// Intersecting lists the visible boxes that cross at least one plane.
	Intersecting []int
	Rejected     int
}

// Workers returns the worker count to use for n items when asked for
// workers. Zero or negative means GOMAXPROCS.
func Workers(n, workers int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, (n+minChunk-1)/minChunk)
	return max(workers, 1)
}

// forChunks runs fn over [0, n) split into contiguous ranges. The frustum
// is only read, so ranges share it.
func forChunks(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	workers = Workers(n, workers)
	size := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// Cull classifies boxes against f.
func Cull(ctx context.Context, f *frustum.Frustum, boxes []geom.BoundingBox, workers int) (Result, error) {
	classes := make([]frustum.Result, len(boxes))
	err := forChunks(ctx, len(boxes), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			classes[i] = f.ClassifyBox(boxes[i].Min, boxes[i].Max)
		}
	})
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, c := range classes {
		switch c {
		case frustum.Outside:
			res.Rejected++
		case frustum.Intersecting:
			res.Intersecting = append(res.Intersecting, i)
			res.Visible = append(res.Visible, i)
		default:
			res.Visible = append(res.Visible, i)
		}
	}
	return res, nil
}

// CullSpheres returns the indices of spheres that may be visible.
func CullSpheres(ctx context.Context, f *frustum.Frustum, spheres []geom.BoundingSphere, workers int) ([]int, error) {
	keep := make([]bool, len(spheres))
	err := forChunks(ctx, len(spheres), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			keep[i] = f.SphereInFrustum(spheres[i].Center, spheres[i].Radius)
		}
	})
	if err != nil {
		return nil, err
	}

	var visible []int
	for i, k := range keep {
		if k {
			visible = append(visible, i)
		}
	}
	return visible, nil
}
