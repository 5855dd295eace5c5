package msf

import (
	"compress/gzip"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/sjms/livescores/internal/platform/logging"
	"github.com/sjms/livescores/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api.mysportsfeeds.com/v2.0/pull/nhl"

	// The provider authenticates with HTTP Basic using the API key as the
	// username and this fixed password.
	basicAuthPassword = "MYSPORTSFEEDS"

	maxResponseBytes = 6 << 20
)

var (
	ErrUnavailable = crerr.New("stat provider unavailable")

	errTransient = crerr.New("msf transient failure")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches NHL boxscores from the commercial stats API. Concurrent
// requests for the same game collapse onto one upstream call, and a
// circuit breaker sheds load while the provider is down.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	authHeader     string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 12 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	credential := strings.TrimSpace(cfg.APIKey) + ":" + basicAuthPassword

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte(credential)),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchBoxscore pulls the live boxscore for one game. season is the
// provider season slug ("2025-2026"), date is yyyymmdd, and the matchup
// abbreviations address the game within that date. Any transport,
// status, or decode failure is an error; callers treat all of them as
// "no data for this game right now".
func (c *Client) FetchBoxscore(ctx context.Context, season, date, awayAbbr, homeAbbr string) (*Boxscore, error) {
	season = strings.TrimSpace(season)
	date = strings.TrimSpace(date)
	awayAbbr = strings.ToUpper(strings.TrimSpace(awayAbbr))
	homeAbbr = strings.ToUpper(strings.TrimSpace(homeAbbr))
	if season == "" || date == "" || awayAbbr == "" || homeAbbr == "" {
		return nil, fmt.Errorf("season, date and both abbreviations are required")
	}

	path := fmt.Sprintf("/%s-regular/games/%s-%s-%s/boxscore.json", season, date, awayAbbr, homeAbbr)

	var box Boxscore
	if err := c.doJSON(ctx, path, &box); err != nil {
		return nil, fmt.Errorf("fetch boxscore %s-%s-%s: %w", date, awayAbbr, homeAbbr, err)
	}

	return &box, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "msf circuit breaker rejected request", "state", c.breaker.State())
			return ErrUnavailable
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "msf request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(errTransient, "send request: %v", err)
	}
	defer resp.Body.Close()

	body := io.Reader(io.LimitReader(resp.Body, maxResponseBytes))
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, gzErr := gzip.NewReader(body)
		if gzErr != nil {
			return nil, crerr.Wrapf(errTransient, "open gzip body: %v", gzErr)
		}
		defer gz.Close()
		body = gz
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, crerr.Wrapf(errTransient, "read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, crerr.Wrapf(errTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
		}
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	return raw, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 200
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
