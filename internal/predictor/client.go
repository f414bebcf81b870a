package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/denisok6893-rgb/property-recommender/internal/metrics"
)

// ClientConfig configures the remote satisfaction model client.
type ClientConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"`

	BreakerName         string        `koanf:"breaker_name"`
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gte=0,lte=1"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             2 * time.Second,
		BreakerName:         "satisfaction-model",
		BreakerMaxRequests:  3,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      30 * time.Second,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.6,
	}
}

// Client calls a remote model over HTTP behind a circuit breaker. While the
// circuit is open calls fail fast with ErrUnavailable.
type Client struct {
	endpoint string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker[Prediction]
	name     string
	logger   zerolog.Logger
}

type predictRequest struct {
	SchemaVersion string    `json:"schema_version"`
	Names         []string  `json:"names"`
	Features      []float64 `json:"features"`
}

func NewClient(cfg ClientConfig, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("predictor url is required")
	}
	d := DefaultClientConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = d.BreakerName
	}
	if cfg.BreakerMaxRequests == 0 {
		cfg.BreakerMaxRequests = d.BreakerMaxRequests
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = d.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio <= 0 {
		cfg.BreakerFailureRatio = d.BreakerFailureRatio
	}

	c := &Client{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/predict",
		http:     &http.Client{Timeout: cfg.Timeout},
		name:     cfg.BreakerName,
		logger:   logger.With().Str("component", "predictor").Str("breaker", cfg.BreakerName).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(c.name).Set(0)

	c.cb = gobreaker.NewCircuitBreaker[Prediction](gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})
	return c, nil
}

// Predict posts the feature vector to the model service.
func (c *Client) Predict(ctx context.Context, fv FeatureVector) (Prediction, error) {
	p, err := c.cb.Execute(func() (Prediction, error) {
		return c.do(ctx, fv)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		}
		if errors.Is(err, ErrInvalidPrediction) {
			return Prediction{}, err
		}
		return Prediction{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	return p, nil
}

// State reports the breaker state as "closed", "half-open" or "open".
func (c *Client) State() string {
	return stateToString(c.cb.State())
}

func (c *Client) do(ctx context.Context, fv FeatureVector) (Prediction, error) {
	body, err := json.Marshal(predictRequest{
		SchemaVersion: fv.Version,
		Names:         fv.Names,
		Features:      fv.Values,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Prediction{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Prediction{}, fmt.Errorf("model service status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Prediction{}, fmt.Errorf("%w: value=%v confidence=%v", err, p.Value, p.Confidence)
	}
	return p, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
