package risk

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/saferoute/saferoute/internal/routing"
)

// DefaultRouteConcurrency bounds how many route alternatives are
// scored in parallel.
const DefaultRouteConcurrency = 4

// ServiceConfig holds configuration for the risk service.
type ServiceConfig struct {
	// Directions supplies route alternatives (required).
	Directions routing.Provider

	// Predictor supplies accident probabilities (required).
	Predictor Predictor

	// Weather supplies current conditions for checkpoints (required).
	Weather WeatherSource

	// RouteConcurrency limits parallel route scoring (optional).
	RouteConcurrency int

	// Now overrides the clock, mainly for tests (optional).
	Now func() time.Time

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service computes the safest driving route between two points.
type Service struct {
	directions  routing.Provider
	scorer      *scorer
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService creates a new risk service.
func NewService(cfg ServiceConfig) *Service {
	concurrency := cfg.RouteConcurrency
	if concurrency <= 0 {
		concurrency = DefaultRouteConcurrency
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		directions: cfg.Directions,
		scorer: &scorer{
			predictor: cfg.Predictor,
			enricher: &enricher{
				weather: cfg.Weather,
				logger:  cfg.Logger,
			},
			logger: cfg.Logger,
		},
		concurrency: concurrency,
		now:         now,
		logger:      cfg.Logger,
	}
}

// SafestRoute fetches route alternatives, scores each against the
// accident model, and returns the one with the lowest average risk.
// Returns routing.ErrNoAlternatives when the provider has no routes
// between the given points.
func (s *Service) SafestRoute(ctx context.Context, req routing.DirectionsRequest) (*Assessment, error) {
	dirs, err := s.directions.GetDirections(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(dirs.Routes) == 0 {
		return nil, routing.ErrNoAlternatives
	}

	queryTime := s.now()

	scored := make([]*ScoredRoute, len(dirs.Routes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, route := range dirs.Routes {
		g.Go(func() error {
			result, err := s.scorer.scoreRoute(gctx, route, queryTime)
			if err != nil {
				return err
			}
			scored[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	safest := selectSafest(scored)

	s.logger.Info().
		Int("alternatives", len(scored)).
		Float64("average_risk", safest.AverageRisk).
		Int("segment_risks", len(safest.SegmentRisks)).
		Msg("selected safest route")

	return safest, nil
}

// selectSafest picks the route with the strictly lowest average risk.
// Ties keep the earliest alternative, preserving the provider's
// preference order. The winner's segments are filtered once more
// against the response threshold.
func selectSafest(scored []*ScoredRoute) *Assessment {
	best := scored[0]
	for _, candidate := range scored[1:] {
		if candidate.AverageRisk < best.AverageRisk {
			best = candidate
		}
	}

	reported := make([]SegmentRisk, 0, len(best.SegmentRisks))
	for _, r := range best.SegmentRisks {
		if r.Score > responseRiskThreshold {
			reported = append(reported, r)
		}
	}

	return &Assessment{
		Route:        best.Route,
		SegmentRisks: reported,
		AverageRisk:  best.AverageRisk,
	}
}
