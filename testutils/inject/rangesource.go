package inject

import (
	"context"

	"github.com/ArthurAllshire/pyinfiniterecharge/shooter"
)

// RangeSource is an injected range source.
type RangeSource struct {
	shooter.RangeSource
	DistanceFunc func(ctx context.Context) (float64, error)
}

func (r *RangeSource) Distance(ctx context.Context) (float64, error) {
	if r.DistanceFunc == nil {
		return r.RangeSource.Distance(ctx)
	}
	return r.DistanceFunc(ctx)
}
