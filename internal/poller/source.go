package poller

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

// Score is one game's state as served by the score gateway. The raw
// status/period/clock fields are only populated on NCAA records.
type Score struct {
	Away           *int   `json:"away"`
	Home           *int   `json:"home"`
	Label          string `json:"label"`
	IsLive         bool   `json:"is_live"`
	IsIntermission bool   `json:"is_intermission"`
	IsFinal        bool   `json:"is_final"`

	Status  string `json:"status,omitempty"`
	Period  string `json:"period,omitempty"`
	Minutes *int   `json:"minutes,omitempty"`
	Seconds *int   `json:"seconds,omitempty"`
}

// ScoreSource serves batched game state, one call per league.
type ScoreSource interface {
	NHLScores(ctx context.Context, gameIDs []int64) (map[string]Score, error)
	NCAAScores(ctx context.Context, gameIDs []string) (map[string]Score, error)
}

const (
	defaultSourceTimeout = 5 * time.Second

	maxEnvelopeBytes = 1 << 20
)

type HTTPSourceConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

// HTTPSource fetches score batches from the gateway HTTP API.
type HTTPSource struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
}

func NewHTTPSource(cfg HTTPSourceConfig) *HTTPSource {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = timeout
	}

	return &HTTPSource{
		httpClient: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return fasthttp.DialTimeout(addr, connectTimeout)
			},
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxEnvelopeBytes,
		},
		baseURL: baseURL,
		timeout: timeout,
	}
}

func (s *HTTPSource) NHLScores(ctx context.Context, gameIDs []int64) (map[string]Score, error) {
	joined := make([]string, 0, len(gameIDs))
	for _, id := range gameIDs {
		joined = append(joined, strconv.FormatInt(id, 10))
	}
	return s.fetch(ctx, "/scores", joined)
}

func (s *HTTPSource) NCAAScores(ctx context.Context, gameIDs []string) (map[string]Score, error) {
	return s.fetch(ctx, "/scores/ncaa", gameIDs)
}

type scoresEnvelopeWire struct {
	OK    bool             `json:"ok"`
	Games map[string]Score `json:"games"`
	Error string           `json:"error"`
}

func (s *HTTPSource) fetch(ctx context.Context, path string, gameIDs []string) (map[string]Score, error) {
	if len(gameIDs) == 0 {
		return map[string]Score{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.baseURL + path + "?game_ids=" + url.QueryEscape(strings.Join(gameIDs, ",")))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	deadline := time.Now().Add(s.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := s.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Wrapf(err, "fetch scores")
	}

	code := resp.StatusCode()
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("score gateway status=%d", code)
	}

	var envelope scoresEnvelopeWire
	if err := sonic.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode score envelope: %w", err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("score gateway rejected batch: %s", envelope.Error)
	}

	return envelope.Games, nil
}
