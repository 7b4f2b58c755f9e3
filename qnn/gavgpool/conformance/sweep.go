package conformance

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// Sweep runs testers concurrently on the shared kernel configuration, at
// most limit at a time (limit <= 0 means unbounded). It returns the first
// failure; remaining testers are skipped once ctx is cancelled or a tester
// fails.
func Sweep(ctx context.Context, testers []*Tester, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, t := range testers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return t.Run()
		})
	}

	return g.Wait()
}

// ScaleSweep returns scales from 0.01 growing geometrically by pi while
// below 100.
func ScaleSweep() []float32 {
	var scales []float32
	for s := 0.01; s < 100; s *= math.Pi {
		scales = append(scales, float32(s))
	}
	return scales
}

// ZeroPointSweep returns zero points from 0 to 255 in steps of 51.
func ZeroPointSweep() []uint8 {
	zps := make([]uint8, 0, 6)
	for zp := 0; zp <= 255; zp += 51 {
		zps = append(zps, uint8(zp))
	}
	return zps
}
