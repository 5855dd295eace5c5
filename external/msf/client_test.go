package msf

import (
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sjms/livescores/internal/platform/resilience"
)

const sampleBoxscore = `{
	"game": {
		"id": 67421,
		"playedStatus": "LIVE",
		"awayTeam": {"id": 14, "abbreviation": "BOS"},
		"homeTeam": {"id": 21, "abbreviation": "TOR"}
	},
	"scoring": {
		"currentPeriod": 2,
		"currentPeriodSecondsRemaining": 605,
		"currentIntermission": null,
		"awayScoreTotal": 1,
		"homeScoreTotal": 3
	}
}`

func TestClient_FetchBoxscore_RequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(sampleBoxscore))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})

	box, err := client.FetchBoxscore(context.Background(), "2025-2026", "20260115", "bos", "tor")
	if err != nil {
		t.Fatalf("FetchBoxscore: %v", err)
	}

	wantPath := "/2025-2026-regular/games/20260115-BOS-TOR/boxscore.json"
	if gotPath != wantPath {
		t.Fatalf("path = %q, want %q", gotPath, wantPath)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:MYSPORTSFEEDS"))
	if gotAuth != wantAuth {
		t.Fatalf("auth = %q, want %q", gotAuth, wantAuth)
	}

	if box.Game.PlayedStatus != "LIVE" {
		t.Fatalf("playedStatus = %q", box.Game.PlayedStatus)
	}
	if box.Scoring.HomeScoreTotal == nil || *box.Scoring.HomeScoreTotal != 3 {
		t.Fatalf("homeScoreTotal = %v", box.Scoring.HomeScoreTotal)
	}
	if box.Scoring.CurrentIntermission != nil {
		t.Fatalf("currentIntermission = %v, want nil", box.Scoring.CurrentIntermission)
	}
}

func TestClient_FetchBoxscore_GzipResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(sampleBoxscore))
		_ = gz.Close()
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k"})

	box, err := client.FetchBoxscore(context.Background(), "2025-2026", "20260115", "BOS", "TOR")
	if err != nil {
		t.Fatalf("FetchBoxscore: %v", err)
	}
	if box.Game.ID != 67421 {
		t.Fatalf("game id = %d", box.Game.ID)
	}
}

func TestClient_FetchBoxscore_NotFoundIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such game", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k"})

	if _, err := client.FetchBoxscore(context.Background(), "2025-2026", "20260115", "BOS", "TOR"); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestClient_FetchBoxscore_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleBoxscore))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k", MaxRetries: 1})

	if _, err := client.FetchBoxscore(context.Background(), "2025-2026", "20260115", "BOS", "TOR"); err != nil {
		t.Fatalf("FetchBoxscore after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("upstream calls = %d, want 2", got)
	}
}

func TestClient_FetchBoxscore_CircuitBreakerShedsLoad(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "k",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      resilience.DefaultCircuitBreakerConfig().OpenTimeout,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchBoxscore(context.Background(), "2025-2026", "20260115", "BOS", "TOR"); err == nil {
		t.Fatal("expected first call to fail")
	}

	_, err := client.FetchBoxscore(context.Background(), "2025-2026", "20260115", "BOS", "TOR")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from open breaker, got %v", err)
	}
}

func TestClient_FetchBoxscore_ValidatesInput(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0", APIKey: "k"})
	if _, err := client.FetchBoxscore(context.Background(), "", "20260115", "BOS", "TOR"); err == nil {
		t.Fatal("expected error on empty season")
	}
}
