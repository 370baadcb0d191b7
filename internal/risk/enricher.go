package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/polyline"
)

// maxWeatherLookups bounds concurrent weather requests per route.
const maxWeatherLookups = 8

// stepSample is one route step reduced to its sampled checkpoints.
type stepSample struct {
	start       polyline.Coordinate
	end         polyline.Coordinate
	checkpoints []Checkpoint
}

// enricher turns route steps into enriched feature checkpoints.
type enricher struct {
	weather WeatherSource
	logger  zerolog.Logger
}

// sampleRoute decodes every step of the route and samples checkpoints
// along each. Steps whose geometry has fewer points than the checkpoint
// count are skipped. The hour and weekday are taken from queryTime so
// all checkpoints of one scoring pass share the same temporal context.
func (e *enricher) sampleRoute(ctx context.Context, route routing.Route, queryTime time.Time) ([]stepSample, error) {
	hour := queryTime.Hour()
	dayOfWeek := int(queryTime.Weekday())
	if dayOfWeek == 0 {
		dayOfWeek = 7 // ISO weekday: Monday=1 .. Sunday=7
	}

	var samples []stepSample
	for legIdx, leg := range route.Legs {
		for stepIdx, step := range leg.Steps {
			coords, err := polyline.Decode(step.EncodedPolyline)
			if err != nil {
				return nil, fmt.Errorf("decoding step polyline (leg %d, step %d): %w", legIdx, stepIdx, err)
			}

			points := polyline.Checkpoints(coords, checkpointsPerSegment)
			if points == nil {
				e.logger.Debug().
					Int("leg", legIdx).
					Int("step", stepIdx).
					Int("points", len(coords)).
					Msg("step too short to sample, skipping")
				continue
			}

			sample := stepSample{
				start:       points[0],
				end:         points[len(points)-1],
				checkpoints: make([]Checkpoint, 0, len(points)),
			}
			for _, p := range points {
				sample.checkpoints = append(sample.checkpoints, Checkpoint{
					Point:     p,
					Hour:      hour,
					DayOfWeek: dayOfWeek,
				})
			}
			samples = append(samples, sample)
		}
	}

	if err := e.attachWeather(ctx, samples); err != nil {
		return nil, err
	}

	return samples, nil
}

// attachWeather resolves the current weather condition for every
// checkpoint. Lookups run concurrently; a failed lookup degrades that
// checkpoint to the unknown condition rather than failing the route.
func (e *enricher) attachWeather(ctx context.Context, samples []stepSample) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWeatherLookups)

	for i := range samples {
		for j := range samples[i].checkpoints {
			cp := &samples[i].checkpoints[j]
			g.Go(func() error {
				cond, err := e.weather.CurrentCondition(ctx, cp.Point.Lat, cp.Point.Lon)
				if err != nil {
					e.logger.Warn().
						Err(err).
						Float64("lat", cp.Point.Lat).
						Float64("lon", cp.Point.Lon).
						Msg("weather lookup failed, using unknown condition")
					cp.Condition = weather.ConditionUnknown
					return nil
				}
				cp.Condition = cond
				return nil
			})
		}
	}

	return g.Wait()
}
