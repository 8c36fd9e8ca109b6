package lodestone

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodestone_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lodestone_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodestone_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// HTTPConfig holds the HTTP client configuration.
type HTTPConfig struct {
	// BaseURL of the parser service exposing Lodestone data as JSON.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per request.
	Timeout time.Duration

	// Retry configuration for server/network errors.
	Retry RetryConfig
}

// DefaultHTTPConfig returns a safe default configuration.
func DefaultHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		BaseURL:   baseURL,
		UserAgent: "lodestone-aggregator/1.0",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// HTTPClient implements Client over a parser service speaking JSON.
type HTTPClient struct {
	httpClient *http.Client
	config     HTTPConfig
	logger     zerolog.Logger
}

// NewHTTPClient creates a new upstream client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log.With().Str("component", "lodestone-client").Logger(),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *HTTPClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// getJSON performs a GET with retry and decodes the response into dest.
func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, query url.Values, dest any) error {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	reqURL := c.config.BaseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body []byte
	err := retryWithBackoff(ctx, c.config.Retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &ResponseError{Class: ErrorClassNetwork, Message: "request failed", Err: err}
		}
		defer resp.Body.Close()

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			errorsTotal.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status_code", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Upstream request error")
			return statusError(resp.StatusCode, resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &ResponseError{Class: ErrorClassNetwork, Message: "read body", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Dur("duration", time.Since(start)).
		Msg("Upstream request complete")

	return nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

// Character implements Client.
func (c *HTTPClient) Character(ctx context.Context, id uint32) (*Character, error) {
	var out Character
	if err := c.getJSON(ctx, fmt.Sprintf("/character/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClassJobs implements Client.
func (c *HTTPClient) ClassJobs(ctx context.Context, id uint32) (*ClassJobSet, error) {
	var out ClassJobSet
	if err := c.getJSON(ctx, fmt.Sprintf("/character/%d/classjobs", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Achievements implements Client.
func (c *HTTPClient) Achievements(ctx context.Context, id uint32, kind int) (*AchievementList, error) {
	var out AchievementList
	if err := c.getJSON(ctx, fmt.Sprintf("/character/%d/achievements/%d", id, kind), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Friends implements Client.
func (c *HTTPClient) Friends(ctx context.Context, id uint32, page int) (*Page[CharacterRef], error) {
	var out Page[CharacterRef]
	if err := c.getJSON(ctx, fmt.Sprintf("/character/%d/friends", id), pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FreeCompany implements Client.
func (c *HTTPClient) FreeCompany(ctx context.Context, id string) (*FreeCompany, error) {
	var out FreeCompany
	if err := c.getJSON(ctx, "/freecompany/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FreeCompanyMembers implements Client.
func (c *HTTPClient) FreeCompanyMembers(ctx context.Context, id string, page int) (*Page[CharacterRef], error) {
	var out Page[CharacterRef]
	if err := c.getJSON(ctx, "/freecompany/"+url.PathEscape(id)+"/members", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PvPTeam implements Client.
func (c *HTTPClient) PvPTeam(ctx context.Context, id string) (*PvPTeam, error) {
	var out PvPTeam
	if err := c.getJSON(ctx, "/pvpteam/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Minions implements Client.
func (c *HTTPClient) Minions(ctx context.Context, id uint32) ([]Collectable, error) {
	var out []Collectable
	if err := c.getJSON(ctx, fmt.Sprintf("/character/%d/minions", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mounts implements Client.
func (c *HTTPClient) Mounts(ctx context.Context, id uint32) ([]Collectable, error) {
	var out []Collectable
	if err := c.getJSON(ctx, fmt.Sprintf("/character/%d/mounts", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search implements Client.
func (c *HTTPClient) Search(ctx context.Context, name, server string, page int) (*Page[CharacterRef], error) {
	q := pageQuery(page)
	q.Set("name", name)
	if server != "" {
		q.Set("server", server)
	}

	var out Page[CharacterRef]
	if err := c.getJSON(ctx, "/character/search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
