package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Condition is the canonical weather category used as a risk-model feature.
// The closed set mirrors the categories the model was trained on.
type Condition string

const (
	ConditionSunny   Condition = "sunny"
	ConditionCloudy  Condition = "cloudy"
	ConditionRainy   Condition = "rainy"
	ConditionUnknown Condition = "unknown"
)

// conditionByDescription maps OpenWeatherMap free-text condition descriptions
// to the canonical categories. The table is fixed; descriptions not listed
// here map to ConditionUnknown, never to an error.
var conditionByDescription = map[string]Condition{
	"clear sky":        ConditionSunny,
	"few clouds":       ConditionSunny,
	"scattered clouds": ConditionCloudy,
	"broken clouds":    ConditionCloudy,
	"shower rain":      ConditionRainy,
	"rain":             ConditionRainy,
	"thunderstorm":     ConditionRainy,
	"snow":             ConditionRainy,
	"mist":             ConditionRainy,
}

// MapDescription maps a provider condition description to its canonical category.
func MapDescription(description string) Condition {
	if c, ok := conditionByDescription[description]; ok {
		return c
	}
	return ConditionUnknown
}

// Observation represents current weather at a specific point.
type Observation struct {
	// Location coordinates
	Lat float64
	Lon float64

	// Free-text condition description as reported by the provider
	Description string

	// Canonical category derived from Description
	Condition Condition

	// Timestamps
	ObservedAt time.Time
	FetchedAt  time.Time
}
