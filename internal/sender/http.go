package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"usagestats/pkg/types"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultRatePerSec  = 5.0
	defaultBurst       = 10
)

// HTTPConfig configures an HTTP sender.
type HTTPConfig struct {
	Endpoint string
	Timeout  time.Duration
	// RatePerSec caps outbound requests; <=0 uses the package default.
	RatePerSec float64
	Burst      int
	Client     *http.Client
	Logger     zerolog.Logger
}

// HTTP posts envelopes as JSON to a usage statistics collector. Failed sends
// are reported to the caller and never retried.
type HTTP struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// NewHTTP builds an HTTP sender, applying defaults for unset fields.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("sender: empty endpoint")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTP{
		endpoint: cfg.Endpoint,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		log:      cfg.Logger,
	}, nil
}

func (s *HTTP) Send(ctx context.Context, env types.TelemetryEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	rid := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", rid)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post envelope: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	s.log.Debug().
		Str("event", "telemetry.http_send").
		Str("request_id", rid).
		Int("status", resp.StatusCode).
		Dur("dur", time.Since(start)).
		Msg("envelope posted")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, RequestID: rid}
	}
	return nil
}
