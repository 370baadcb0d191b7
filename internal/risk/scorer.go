package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/routing"
)

// scorer scores a single route alternative against the accident model.
type scorer struct {
	predictor Predictor
	enricher  *enricher
	logger    zerolog.Logger
}

// scoreRoute samples the route, runs one batched prediction for all of
// its checkpoints, and collapses the per-checkpoint probabilities into
// per-step segment risks.
func (s *scorer) scoreRoute(ctx context.Context, route routing.Route, queryTime time.Time) (*ScoredRoute, error) {
	samples, err := s.enricher.sampleRoute(ctx, route, queryTime)
	if err != nil {
		return nil, err
	}

	if len(samples) == 0 {
		// Every step was too short to sample. Nothing to report.
		return &ScoredRoute{Route: route}, nil
	}

	rows := make([]FeatureRow, 0, len(samples)*checkpointsPerSegment)
	for _, sample := range samples {
		for _, cp := range sample.checkpoints {
			rows = append(rows, FeatureRow{
				Lat:       cp.Point.Lat,
				Lng:       cp.Point.Lon,
				Hour:      cp.Hour,
				DayOfWeek: cp.DayOfWeek,
				Weather:   string(cp.Condition),
			})
		}
	}

	predictions, err := s.predictor.Predict(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("predicting segment risk: %w", err)
	}
	if len(predictions) != len(rows) {
		return nil, fmt.Errorf("%w: got %d rows for %d instances", ErrPredictionMismatch, len(predictions), len(rows))
	}

	scored := &ScoredRoute{Route: route}

	offset := 0
	for _, sample := range samples {
		n := len(sample.checkpoints)
		if n == 0 {
			return nil, ErrNoPredictions
		}

		var total float64
		for _, p := range predictions[offset : offset+n] {
			total += p.Severe*weightSevere + p.Moderate*weightModerate + p.Minor*weightMinor
		}
		offset += n

		score := total / float64(n)
		description := describeScore(score)
		if description == "" {
			continue
		}

		scored.SegmentRisks = append(scored.SegmentRisks, SegmentRisk{
			Start:       sample.start,
			End:         sample.end,
			Score:       score,
			Description: description,
		})
	}

	scored.AverageRisk = meanRisk(scored.SegmentRisks)

	s.logger.Debug().
		Int("segments_sampled", len(samples)).
		Int("segments_risky", len(scored.SegmentRisks)).
		Float64("average_risk", scored.AverageRisk).
		Msg("scored route")

	return scored, nil
}

// meanRisk averages the scores of the reported segments. A route with
// no reportable segments scores zero.
func meanRisk(risks []SegmentRisk) float64 {
	if len(risks) == 0 {
		return 0
	}
	var total float64
	for _, r := range risks {
		total += r.Score
	}
	return total / float64(len(risks))
}
