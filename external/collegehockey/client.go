package collegehockey

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"
	"github.com/valyala/fasthttp"

	"github.com/sjms/livescores/internal/platform/logging"
)

const (
	defaultBaseURL        = "http://127.0.0.1:3000"
	defaultRequestTimeout = 2 * time.Second
	defaultConnectTimeout = 1 * time.Second
	defaultBatchWorkers   = 16

	maxResponseBytes = 2 << 20
)

type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	BatchWorkers   int
	Logger         *logging.Logger
}

// Client talks to the co-located NCAA scraping service. The service is
// on loopback and polled aggressively, so the client fails fast: short
// connect timeout, short per-request deadline, no retries.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
	workers    int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	workers := cfg.BatchWorkers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	return &Client{
		httpClient: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return fasthttp.DialTimeout(addr, connectTimeout)
			},
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxConnsPerHost:     256,
			MaxResponseBodySize: maxResponseBytes,
		},
		baseURL: baseURL,
		timeout: timeout,
		workers: workers,
		logger:  logger,
	}
}

// FetchBoxscore pulls the live boxscore for one contest.
func (c *Client) FetchBoxscore(ctx context.Context, gameID string) (*Boxscore, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}

	var box Boxscore
	if err := c.getJSON(ctx, "game/"+gameID+"/boxscore", &box); err != nil {
		return nil, fmt.Errorf("fetch boxscore game_id=%s: %w", gameID, err)
	}

	return &box, nil
}

// FetchBoxscores pulls boxscores for a batch of contests concurrently on
// a bounded worker pool. The result always carries one entry per
// requested id; a failed fetch yields a nil entry rather than failing
// the batch, since a partially missing batch is the normal live case.
func (c *Client) FetchBoxscores(ctx context.Context, gameIDs []string) map[string]*Boxscore {
	out := make(map[string]*Boxscore, len(gameIDs))
	if len(gameIDs) == 0 {
		return out
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	pool, err := ants.NewPool(c.workers)
	if err != nil {
		pool = nil
	} else {
		defer pool.Release()
	}

	for _, gameID := range gameIDs {
		gameID := gameID
		mu.Lock()
		if _, dup := out[gameID]; dup {
			mu.Unlock()
			continue
		}
		out[gameID] = nil
		mu.Unlock()

		wg.Add(1)
		task := func() {
			defer wg.Done()
			box, fetchErr := c.FetchBoxscore(ctx, gameID)
			if fetchErr != nil {
				c.logger.DebugContext(ctx, "ncaa boxscore fetch failed", "game_id", gameID, "error", fetchErr)
				return
			}
			mu.Lock()
			out[gameID] = box
			mu.Unlock()
		}

		if pool == nil || pool.Submit(task) != nil {
			task()
		}
	}

	wg.Wait()
	return out
}

// FetchScoreboard pulls the DI men's hockey schedule for a date
// (2006-01-02).
func (c *Client) FetchScoreboard(ctx context.Context, date string) (*Scoreboard, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("parse scoreboard date %q: %w", date, err)
	}

	path := fmt.Sprintf("scoreboard/icehockey-men/d1/%s/%s/%s/all-conf",
		parsed.Format("2006"), parsed.Format("01"), parsed.Format("02"))

	var board Scoreboard
	if err := c.getJSON(ctx, path, &board); err != nil {
		return nil, fmt.Errorf("fetch scoreboard date=%s: %w", date, err)
	}

	return &board, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return crerr.Wrapf(err, "send request")
	}

	code := resp.StatusCode()
	if code < 200 || code >= 300 {
		return fmt.Errorf("provider status=%d", code)
	}

	body := resp.Body()
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}
