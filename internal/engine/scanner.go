// ABOUTME: Pairwise scan orchestrator: every ordered metric pair at every lag offset.
// ABOUTME: Bounded worker pool; per-pair failures are logged and skipped, never fatal.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/lifelog/lifelog/internal/models"
)

// Store is the storage surface the scanner needs: the correlator's reads
// plus the idempotent upsert.
type Store interface {
	MetricSource
	UpsertCorrelation(ctx context.Context, c *models.Correlation) (*models.Correlation, error)
}

// Scanner enumerates all ordered (driver, outcome) metric pairs and lag
// offsets for a user and persists the qualifying correlations.
//
// The scan is O(M^2 x L) correlator invocations for M metrics and L lags.
// That cost is spread over a bounded pool of workers; correctness under
// concurrent scans for the same user comes from the storage unique
// constraint, not from locking here, so an interrupted or duplicated scan
// converges to the same rows.
type Scanner struct {
	store      Store
	correlator *Correlator
	logger     *slog.Logger
}

// NewScanner constructs a Scanner with injected collaborators.
func NewScanner(store Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		store:      store,
		correlator: NewCorrelator(store),
		logger:     logger,
	}
}

type pairJob struct {
	driver  string
	outcome string
	lag     int
}

// Scan runs the full pairwise scan for a user. It returns the records that
// were created or refreshed and counters describing the run. A single
// pair's failure is counted and logged without aborting the rest; only the
// initial metric enumeration can fail the scan outright. Cancelling the
// context stops the scan between pair computations, which is safe because
// every persisted pair is an idempotent upsert.
func (s *Scanner) Scan(ctx context.Context, userID string, opts models.ScanOptions) (*models.ScanResult, error) {
	opts = opts.Normalize()

	metricIDs, err := s.store.DistinctMetricIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("enumerate user metrics: %w", err)
	}

	result := &models.ScanResult{Records: []*models.Correlation{}}
	if len(metricIDs) < 2 {
		s.logger.Debug("scan skipped: fewer than two metrics with data",
			slog.String("user_id", userID), slog.Int("metrics", len(metricIDs)))
		return result, nil
	}

	jobs := make(chan pairJob)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				record, err := s.scanPair(ctx, userID, job, opts)

				mu.Lock()
				result.PairsExamined++
				switch {
				case err != nil:
					result.PairErrors++
				case record == nil:
					result.PairsSkipped++
				default:
					result.Records = append(result.Records, record)
					result.CalculatedCount++
				}
				mu.Unlock()

				if err != nil {
					s.logger.Warn("pair computation failed",
						slog.String("user_id", userID),
						slog.String("driver", job.driver),
						slog.String("outcome", job.outcome),
						slog.Int("lag_days", job.lag),
						slog.Any("error", err))
				}
			}
		}()
	}

	// Ordered pairs: (A->B) and (B->A) are distinct directional results.
feed:
	for _, driver := range metricIDs {
		for _, outcome := range metricIDs {
			if driver == outcome {
				continue
			}
			for lag := 0; lag <= *opts.MaxLagDays; lag++ {
				select {
				case jobs <- pairJob{driver: driver, outcome: outcome, lag: lag}:
				case <-ctx.Done():
					break feed
				}
			}
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Info("scan interrupted",
			slog.String("user_id", userID),
			slog.Int("calculated", result.CalculatedCount))
		return result, err
	}

	s.logger.Info("scan complete",
		slog.String("user_id", userID),
		slog.Int("metrics", len(metricIDs)),
		slog.Int("pairs_examined", result.PairsExamined),
		slog.Int("calculated", result.CalculatedCount),
		slog.Int("skipped", result.PairsSkipped),
		slog.Int("errors", result.PairErrors))

	return result, nil
}

// scanPair computes one triple and upserts it when it qualifies. A nil
// record with nil error means the pair was dropped (insufficient data or
// not significant enough to show the user).
func (s *Scanner) scanPair(ctx context.Context, userID string, job pairJob, opts models.ScanOptions) (*models.Correlation, error) {
	pair, err := s.correlator.Correlate(ctx, userID, job.driver, job.outcome, job.lag, opts.MinSampleSize)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	if pair.PValue > opts.SignificanceLevel || math.Abs(pair.Coefficient) < opts.MinStrength {
		return nil, nil
	}

	candidate := models.NewCorrelation(userID, job.driver, job.outcome, job.lag)
	candidate.Coefficient = pair.Coefficient
	candidate.PValue = pair.PValue
	candidate.SampleSize = pair.SampleSize
	candidate.DataPointsCount = pair.SampleSize

	if err := candidate.Validate(*opts.MaxLagDays); err != nil {
		return nil, fmt.Errorf("candidate invalid: %w", err)
	}

	stored, err := s.store.UpsertCorrelation(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("persist pair: %w", err)
	}
	return stored, nil
}
