// Package risk scores driving routes by predicted accident risk and
// selects the safest alternative.
package risk

import (
	"context"
	"errors"

	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/polyline"
)

// Accident-probability weights applied when collapsing model output
// into a single score.
const (
	weightSevere   = 1.0
	weightModerate = 0.5
	weightMinor    = 0.2
)

// Risk thresholds. Segments at or below the reporting threshold are
// not surfaced at all; the response threshold is applied again to the
// selected route's segments.
const (
	highRiskThreshold     = 0.6
	moderateRiskThreshold = 0.4
	responseRiskThreshold = 0.3
	checkpointsPerSegment = 3
)

// Risk level descriptions attached to reported segments.
const (
	DescriptionModerate = "moderate"
	DescriptionHigh     = "high"
)

// Service errors.
var (
	// ErrNoPredictions indicates the model returned no rows for a
	// segment that was queried.
	ErrNoPredictions = errors.New("no predictions returned for segment")

	// ErrPredictionMismatch indicates the model returned a different
	// number of rows than was requested.
	ErrPredictionMismatch = errors.New("prediction count does not match instance count")
)

// Predictor produces accident probabilities for a batch of feature rows.
// Implementations must return exactly one Probabilities value per row,
// in input order.
type Predictor interface {
	Predict(ctx context.Context, rows []FeatureRow) ([]Probabilities, error)
	Name() string
}

// WeatherSource supplies the current weather condition at a point.
type WeatherSource interface {
	CurrentCondition(ctx context.Context, lat, lon float64) (weather.Condition, error)
}

// FeatureRow is a single model input: a checkpoint with its temporal
// and weather context.
type FeatureRow struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Hour      int     `json:"hour"`
	DayOfWeek int     `json:"day_of_week"`
	Weather   string  `json:"weather"`
}

// Probabilities is the model's accident likelihood output for one row.
type Probabilities struct {
	Severe   float64 `json:"severe"`
	Moderate float64 `json:"moderate"`
	Minor    float64 `json:"minor"`
}

// Checkpoint is a sampled point along a step's polyline.
type Checkpoint struct {
	Point     polyline.Coordinate
	Hour      int
	DayOfWeek int
	Condition weather.Condition
}

// SegmentRisk is a reported risky stretch of road: the step it came
// from, its collapsed score, and a coarse description.
type SegmentRisk struct {
	Start       polyline.Coordinate
	End         polyline.Coordinate
	Score       float64
	Description string
}

// ScoredRoute pairs a route alternative with its risk assessment.
type ScoredRoute struct {
	Route        routing.Route
	SegmentRisks []SegmentRisk
	AverageRisk  float64
}

// Assessment is the outcome of scoring all alternatives: the safest
// route and its reportable segment risks.
type Assessment struct {
	Route        routing.Route
	SegmentRisks []SegmentRisk
	AverageRisk  float64
}

// describeScore maps a segment score to its risk description. The empty
// string means the segment is below the reporting threshold.
func describeScore(score float64) string {
	switch {
	case score > highRiskThreshold:
		return DescriptionHigh
	case score > moderateRiskThreshold:
		return DescriptionModerate
	default:
		return ""
	}
}
