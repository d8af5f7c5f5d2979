// ABOUTME: Correlation record model, status machine, filters and scan options.
// ABOUTME: One record per (user, driver, outcome, lag) tuple; status survives recomputation.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the user-curated lifecycle state of a correlation.
// Recomputation never changes it; only an explicit status update does.
type Status string

const (
	StatusActive    Status = "active"
	StatusPinned    Status = "pinned"
	StatusDismissed Status = "dismissed"
)

// AllStatuses returns every valid status value.
var AllStatuses = []Status{StatusActive, StatusPinned, StatusDismissed}

// IsValidStatus reports whether s is an allowed status value.
func IsValidStatus(s string) bool {
	for _, st := range AllStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Strength bucket thresholds used for stats and presentation.
const (
	StrongThreshold   = 0.7
	ModerateThreshold = 0.4
)

// Correlation is a detected relationship between a driver metric on day D
// and an outcome metric on day D+LagDays.
type Correlation struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	DriverMetricID  string    `json:"driver_metric_id"`
	OutcomeMetricID string    `json:"outcome_metric_id"`
	LagDays         int       `json:"lag_days"`
	Coefficient     float64   `json:"coefficient"`
	PValue          float64   `json:"p_value"`
	SampleSize      int       `json:"sample_size"`
	DataPointsCount int       `json:"data_points_count"`
	Status          Status    `json:"status"`
	DetectedAt      time.Time `json:"detected_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewCorrelation creates an active correlation with a fresh ID and timestamps.
func NewCorrelation(userID, driver, outcome string, lagDays int) *Correlation {
	now := time.Now().UTC()
	return &Correlation{
		ID:              uuid.New(),
		UserID:          userID,
		DriverMetricID:  driver,
		OutcomeMetricID: outcome,
		LagDays:         lagDays,
		Status:          StatusActive,
		DetectedAt:      now,
		UpdatedAt:       now,
	}
}

// Validate checks the record's invariants before persistence.
func (c *Correlation) Validate(maxLagDays int) error {
	if c.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if c.DriverMetricID == c.OutcomeMetricID {
		return fmt.Errorf("driver and outcome metric must differ")
	}
	if c.LagDays < 0 || c.LagDays > maxLagDays {
		return fmt.Errorf("lag days %d out of range [0, %d]", c.LagDays, maxLagDays)
	}
	if c.Coefficient < -1 || c.Coefficient > 1 {
		return fmt.Errorf("coefficient %v out of range [-1, 1]", c.Coefficient)
	}
	if c.PValue < 0.001 || c.PValue > 0.999 {
		return fmt.Errorf("p-value %v out of range [0.001, 0.999]", c.PValue)
	}
	if !IsValidStatus(string(c.Status)) {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	return nil
}

// AbsCoefficient returns |coefficient|, the presentation sort key.
func (c *Correlation) AbsCoefficient() float64 {
	if c.Coefficient < 0 {
		return -c.Coefficient
	}
	return c.Coefficient
}

// StrengthBucket labels the correlation by |coefficient|.
func (c *Correlation) StrengthBucket() string {
	abs := c.AbsCoefficient()
	switch {
	case abs > StrongThreshold:
		return "strong"
	case abs >= ModerateThreshold:
		return "moderate"
	default:
		return "weak"
	}
}

// CorrelationFilter narrows correlation list queries.
// Zero values mean "no constraint"; LagDays uses a pointer because lag 0 is
// a meaningful filter value.
type CorrelationFilter struct {
	Status         Status
	MinCoefficient float64
	LagDays        *int
	Limit          int
}

// ScanOptions controls a pairwise correlation scan. MaxLagDays uses a
// pointer because a zero lag window (same-day pairs only) is a meaningful
// request, like CorrelationFilter.LagDays.
type ScanOptions struct {
	MaxLagDays        *int
	MinSampleSize     int
	SignificanceLevel float64
	MinStrength       float64
	Workers           int
}

// Scan defaults. The 0.3/0.05 thresholds are tuned against the approximate
// normal-CDF significance test; do not retune one without the other.
const (
	DefaultMaxLagDays    = 3
	DefaultMinSampleSize = 14
	DefaultSignificance  = 0.05
	DefaultMinStrength   = 0.3
	DefaultScanWorkers   = 4
)

// DefaultScanOptions returns the product defaults for a scan.
func DefaultScanOptions() ScanOptions {
	maxLag := DefaultMaxLagDays
	return ScanOptions{
		MaxLagDays:        &maxLag,
		MinSampleSize:     DefaultMinSampleSize,
		SignificanceLevel: DefaultSignificance,
		MinStrength:       DefaultMinStrength,
		Workers:           DefaultScanWorkers,
	}
}

// Normalize fills unset options with defaults. A non-nil MaxLagDays of 0
// is preserved: it requests a same-day-only scan.
func (o ScanOptions) Normalize() ScanOptions {
	def := DefaultScanOptions()
	if o.MaxLagDays == nil || *o.MaxLagDays < 0 {
		o.MaxLagDays = def.MaxLagDays
	}
	if o.MinSampleSize <= 0 {
		o.MinSampleSize = def.MinSampleSize
	}
	if o.SignificanceLevel <= 0 || o.SignificanceLevel >= 1 {
		o.SignificanceLevel = def.SignificanceLevel
	}
	if o.MinStrength <= 0 {
		o.MinStrength = def.MinStrength
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	return o
}

// CorrelationStats aggregates a user's correlations for the dashboard.
// MeanAbsCoefficient is nil when no records exist.
type CorrelationStats struct {
	Total              int            `json:"total"`
	ByStatus           map[Status]int `json:"by_status"`
	Strong             int            `json:"strong"`
	Moderate           int            `json:"moderate"`
	MeanAbsCoefficient *float64       `json:"mean_abs_coefficient"`
}

// ScanResult is what a full pairwise scan returns to the caller.
type ScanResult struct {
	CalculatedCount int            `json:"calculated_count"`
	Records         []*Correlation `json:"records"`
	PairsExamined   int            `json:"pairs_examined"`
	PairsSkipped    int            `json:"pairs_skipped"`
	PairErrors      int            `json:"pair_errors"`
}
