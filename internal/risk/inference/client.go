// Package inference provides a client for the accident risk model server.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/risk"
)

const (
	// ProviderName identifies the inference backend.
	ProviderName = "risk-model"

	// DefaultTimeout is the default prediction request timeout. Batch
	// predictions are slower than point lookups, so this is generous.
	DefaultTimeout = 15 * time.Second
)

// ClientConfig holds configuration for the inference client.
type ClientConfig struct {
	// BaseURL is the model server base URL (required).
	BaseURL string

	// ModelName selects the deployed model version (optional).
	ModelName string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls a model server that scores accident likelihood for
// batches of road checkpoints.
type Client struct {
	baseURL    string
	modelName  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new inference client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = DefaultTimeout
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		modelName:  cfg.ModelName,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Predict scores a batch of feature rows. The model server returns one
// prediction per instance, in request order.
func (c *Client) Predict(ctx context.Context, rows []risk.FeatureRow) ([]risk.Probabilities, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(predictRequest{
		Model:     c.modelName,
		Instances: rows,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/v1/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Int("instances", len(rows)).
		Msg("requesting risk predictions")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var predResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if predResp.Error != "" {
		return nil, fmt.Errorf("model server error: %s", predResp.Error)
	}

	return predResp.Predictions, nil
}

// Model server request/response structure.

type predictRequest struct {
	Model     string            `json:"model,omitempty"`
	Instances []risk.FeatureRow `json:"instances"`
}

type predictResponse struct {
	Predictions []risk.Probabilities `json:"predictions"`
	Error       string               `json:"error,omitempty"`
}
