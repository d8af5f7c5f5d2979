// ABOUTME: Pair correlator: aligns one (driver, outcome, lag) pair and computes the statistics.
// ABOUTME: Statistical and data-availability conditions are soft results, never errors.
package engine

import (
	"context"
	"fmt"

	"github.com/lifelog/lifelog/internal/stats"
)

// MetricSource is the read-only slice of storage the correlator needs.
type MetricSource interface {
	AlignedPairs(ctx context.Context, userID, driverID, outcomeID string, lagDays int) ([]float64, []float64, error)
	DistinctMetricIDs(ctx context.Context, userID string) ([]string, error)
}

// PairResult is the statistical outcome for one (driver, outcome, lag)
// triple. Coefficient and PValue are always finite and inside their
// documented ranges.
type PairResult struct {
	Coefficient float64
	PValue      float64
	SampleSize  int
}

// Correlator computes Pearson statistics for metric pairs.
type Correlator struct {
	source MetricSource
}

// NewCorrelator constructs a Correlator reading from source.
func NewCorrelator(source MetricSource) *Correlator {
	return &Correlator{source: source}
}

// Correlate fetches the aligned series for the pair and computes the
// coefficient and approximate p-value. When fewer than minSamples aligned
// days exist it returns (nil, nil): insufficient data is a soft skip, not
// an error. Only infrastructure failures surface as errors.
func (c *Correlator) Correlate(ctx context.Context, userID, driverID, outcomeID string, lagDays, minSamples int) (*PairResult, error) {
	xs, ys, err := c.source.AlignedPairs(ctx, userID, driverID, outcomeID, lagDays)
	if err != nil {
		return nil, fmt.Errorf("fetch aligned pairs %s->%s lag %d: %w", driverID, outcomeID, lagDays, err)
	}

	n := len(xs)
	if n < minSamples {
		return nil, nil
	}

	r := stats.Pearson(xs, ys)
	return &PairResult{
		Coefficient: r,
		PValue:      stats.ApproxPValue(r, n),
		SampleSize:  n,
	}, nil
}
