// Package graphhopper provides a client for the GraphHopper isochrone API.
package graphhopper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/rs/zerolog"

	"github.com/catchmap/catchmap/internal/resilience"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "graphhopper"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher is the single network-facing capability the catchment pipeline
// consumes. Implementations must classify failures so the caller can tell
// skippable bad requests from fatal errors.
type Fetcher interface {
	// FetchIsochrones requests the isochrone polygons for the parameter set
	// of one point. Returns one Isochrone per bucket.
	FetchIsochrones(ctx context.Context, params url.Values) ([]Isochrone, error)
}

// ClientConfig holds configuration for the GraphHopper client.
type ClientConfig struct {
	// BaseURL is the GraphHopper instance URL (required). A missing scheme
	// defaults to http, matching self-hosted instances without TLS.
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 30s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a GraphHopper isochrone API client.
type Client struct {
	endpoint   string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new GraphHopper client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		endpoint:   EndpointURL(cfg.BaseURL),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// EndpointURL normalizes a configured GraphHopper base URL into the full
// isochrone endpoint: scheme defaulted to http, trailing slash ensured,
// "isochrone" path appended.
func EndpointURL(base string) string {
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "isochrone"
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchIsochrones performs one isochrone request against the service.
func (c *Client) FetchIsochrones(ctx context.Context, params url.Values) ([]Isochrone, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("point", params.Get("point")).
		Str("profile", params.Get("profile")).
		Msg("requesting isochrones from GraphHopper")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Code:    "REQUEST_FAILED",
			Message: "failed to reach routing service",
			Err:     ErrUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var isoResp isochroneResponse
	if err := json.Unmarshal(body, &isoResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	isochrones := make([]Isochrone, 0, len(isoResp.Polygons))
	for _, p := range isoResp.Polygons {
		if len(p.Geometry.Coordinates) == 0 {
			continue
		}
		ring := make([]geom.Point, 0, len(p.Geometry.Coordinates[0]))
		for _, pt := range p.Geometry.Coordinates[0] {
			if len(pt) < 2 {
				continue
			}
			ring = append(ring, geom.Point{X: pt[0], Y: pt[1]})
		}
		isochrones = append(isochrones, Isochrone{
			Bucket:  p.Properties.Bucket,
			Polygon: geom.Polygon{ring},
		})
	}

	c.logger.Debug().
		Int("bucket_count", len(isochrones)).
		Msg("received isochrones from GraphHopper")

	return isochrones, nil
}

// handleErrorResponse maps GraphHopper error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	// GraphHopper returns a JSON error message. If parsing fails, fall back
	// to the raw body text.
	message := strings.TrimSpace(string(body))
	var ghErr errorResponse
	if err := json.Unmarshal(body, &ghErr); err == nil && ghErr.Message != "" {
		message = ghErr.Message
	}

	switch {
	case statusCode == http.StatusBadRequest:
		// Usually "no road network near the point". The orchestrator skips
		// the point and continues.
		return &Error{
			Code:    "BAD_REQUEST",
			Message: message,
			Err:     ErrBadRequest,
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &Error{
			Code:    "FORBIDDEN",
			Message: "API access denied - check API key configuration",
			Err:     ErrUnauthorized,
		}
	case statusCode >= 500:
		return &Error{
			Code:    fmt.Sprintf("SERVER_%d", statusCode),
			Message: "routing service is temporarily unavailable",
			Err:     ErrUnavailable,
		}
	default:
		return &Error{
			Code:    fmt.Sprintf("HTTP_%d", statusCode),
			Message: message,
			Err:     ErrUnavailable,
		}
	}
}
