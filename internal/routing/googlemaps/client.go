// Package googlemaps provides a client for the Google Maps Directions API.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/routing"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "googlemaps"

	// DefaultBaseURL is the Google Maps API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Maps client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google Maps API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Maps Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Maps client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetDirections retrieves driving directions with alternatives between two points.
func (c *Client) GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	if err := routing.ValidateCoordinate(req.Origin); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if err := routing.ValidateCoordinate(req.Destination); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	query := url.Values{}
	query.Set("origin", fmt.Sprintf("%f,%f", req.Origin.Lat, req.Origin.Lon))
	query.Set("destination", fmt.Sprintf("%f,%f", req.Destination.Lat, req.Destination.Lon))
	query.Set("mode", "driving")
	query.Set("alternatives", "true")
	query.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/directions/json?%s", c.baseURL, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Msg("requesting directions from Google Maps")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("directions provider returned status %d", resp.StatusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	var gmResp directionsResponse
	if err := json.Unmarshal(respBody, &gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status != statusOK {
		return nil, c.handleStatus(&gmResp)
	}

	result, err := c.toDirectionsResponse(&gmResp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Msg("received directions from Google Maps")

	return result, nil
}

// handleStatus maps Google Maps API status codes to domain errors.
func (c *Client) handleStatus(resp *directionsResponse) error {
	switch resp.Status {
	case statusZeroResults:
		return &routing.Error{
			Provider: ProviderName,
			Code:     statusZeroResults,
			Message:  "no route found between the given points",
			Err:      routing.ErrNoAlternatives,
		}
	case statusOverQueryLimit:
		return &routing.Error{
			Provider: ProviderName,
			Code:     statusOverQueryLimit,
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case statusRequestDenied:
		return &routing.Error{
			Provider: ProviderName,
			Code:     statusRequestDenied,
			Message:  "API access denied - check API key configuration",
			Err:      routing.ErrProviderUnavailable,
		}
	case statusInvalidRequest:
		return &routing.Error{
			Provider: ProviderName,
			Code:     statusInvalidRequest,
			Message:  resp.ErrorMessage,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  "directions provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toDirectionsResponse converts a Google Maps response to the domain model.
// Each route keeps its raw JSON so API responses can pass it through unchanged.
func (c *Client) toDirectionsResponse(resp *directionsResponse) (*routing.DirectionsResponse, error) {
	routes := make([]routing.Route, 0, len(resp.Routes))

	for i, raw := range resp.Routes {
		var gmRoute gmRoute
		if err := json.Unmarshal(raw, &gmRoute); err != nil {
			return nil, fmt.Errorf("decoding route %d: %w", i, err)
		}

		route := routing.Route{
			Raw:     raw,
			Summary: gmRoute.Summary,
			Legs:    make([]routing.Leg, 0, len(gmRoute.Legs)),
		}

		for _, gmLeg := range gmRoute.Legs {
			leg := routing.Leg{Steps: make([]routing.Step, 0, len(gmLeg.Steps))}
			for _, gmStep := range gmLeg.Steps {
				leg.Steps = append(leg.Steps, routing.Step{
					EncodedPolyline: gmStep.Polyline.Points,
					DistanceMeters:  gmStep.Distance.Value,
					DurationSeconds: gmStep.Duration.Value,
				})
			}
			route.Legs = append(route.Legs, leg)
		}

		routes = append(routes, route)
	}

	return &routing.DirectionsResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}, nil
}
