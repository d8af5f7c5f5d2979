// ABOUTME: Metric catalog types and the built-in metric definitions.
// ABOUTME: Daily metric points are written by the extraction pipeline, read by the engine.
package models

import "time"

// DataType describes how a metric's daily value is produced.
type DataType string

const (
	DataTypeNumeric  DataType = "numeric"  // raw measured value
	DataTypeDuration DataType = "duration" // minutes or hours per day
	DataTypeCount    DataType = "count"    // occurrences per day
	DataTypeScale    DataType = "scale"    // subjective 1-10 rating
)

// MetricCategory groups related metrics for catalog filtering.
type MetricCategory string

const (
	CategoryFitness     MetricCategory = "fitness"
	CategoryHealth      MetricCategory = "health"
	CategoryMindfulness MetricCategory = "mindfulness"
	CategoryNutrition   MetricCategory = "nutrition"
	CategoryFinance     MetricCategory = "finance"
	CategoryRoutine     MetricCategory = "routine"
)

// MetricDefinition is a static catalog entry. The correlation engine treats
// the catalog as read-only input.
type MetricDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Category    MetricCategory `json:"category"`
	Unit        string         `json:"unit"`
	DataType    DataType       `json:"data_type"`
}

// DailyMetricPoint is one value per user, metric and day. It is written by
// the external extraction pipeline; the engine only reads it.
type DailyMetricPoint struct {
	UserID   string    `json:"user_id"`
	MetricID string    `json:"metric_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}

// DateLayout is the canonical day key used for alignment. Values on either
// side of a pair are matched on this key only, never interpolated.
const DateLayout = "2006-01-02"

// DayKey returns the point's date formatted as the canonical day key.
func (p DailyMetricPoint) DayKey() string {
	return p.Date.Format(DateLayout)
}

// BuiltinMetrics is the product's default catalog, seeded on first open.
var BuiltinMetrics = []MetricDefinition{
	{ID: "sleep_hours", Name: "sleep_hours", DisplayName: "Sleep Duration", Category: CategoryHealth, Unit: "hours", DataType: DataTypeDuration},
	{ID: "sleep_quality", Name: "sleep_quality", DisplayName: "Sleep Quality", Category: CategoryHealth, Unit: "scale", DataType: DataTypeScale},
	{ID: "mood", Name: "mood", DisplayName: "Mood", Category: CategoryMindfulness, Unit: "scale", DataType: DataTypeScale},
	{ID: "energy", Name: "energy", DisplayName: "Energy Level", Category: CategoryMindfulness, Unit: "scale", DataType: DataTypeScale},
	{ID: "stress", Name: "stress", DisplayName: "Stress Level", Category: CategoryMindfulness, Unit: "scale", DataType: DataTypeScale},
	{ID: "meditation_minutes", Name: "meditation_minutes", DisplayName: "Meditation", Category: CategoryMindfulness, Unit: "min", DataType: DataTypeDuration},
	{ID: "steps", Name: "steps", DisplayName: "Steps", Category: CategoryFitness, Unit: "steps", DataType: DataTypeCount},
	{ID: "exercise_minutes", Name: "exercise_minutes", DisplayName: "Exercise", Category: CategoryFitness, Unit: "min", DataType: DataTypeDuration},
	{ID: "active_calories", Name: "active_calories", DisplayName: "Active Calories", Category: CategoryFitness, Unit: "kcal", DataType: DataTypeNumeric},
	{ID: "resting_heart_rate", Name: "resting_heart_rate", DisplayName: "Resting Heart Rate", Category: CategoryHealth, Unit: "bpm", DataType: DataTypeNumeric},
	{ID: "weight", Name: "weight", DisplayName: "Weight", Category: CategoryHealth, Unit: "kg", DataType: DataTypeNumeric},
	{ID: "water_ml", Name: "water_ml", DisplayName: "Water Intake", Category: CategoryNutrition, Unit: "ml", DataType: DataTypeNumeric},
	{ID: "calories", Name: "calories", DisplayName: "Calories", Category: CategoryNutrition, Unit: "kcal", DataType: DataTypeNumeric},
	{ID: "caffeine_mg", Name: "caffeine_mg", DisplayName: "Caffeine", Category: CategoryNutrition, Unit: "mg", DataType: DataTypeNumeric},
	{ID: "alcohol_units", Name: "alcohol_units", DisplayName: "Alcohol", Category: CategoryNutrition, Unit: "units", DataType: DataTypeCount},
	{ID: "spending", Name: "spending", DisplayName: "Daily Spending", Category: CategoryFinance, Unit: "USD", DataType: DataTypeNumeric},
	{ID: "screen_minutes", Name: "screen_minutes", DisplayName: "Screen Time", Category: CategoryRoutine, Unit: "min", DataType: DataTypeDuration},
	{ID: "work_hours", Name: "work_hours", DisplayName: "Work Hours", Category: CategoryRoutine, Unit: "hours", DataType: DataTypeDuration},
}

// IsValidMetricID checks whether id is part of the built-in catalog.
func IsValidMetricID(id string) bool {
	for _, m := range BuiltinMetrics {
		if m.ID == id {
			return true
		}
	}
	return false
}
