package collegehockey

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync/atomic"
	"testing"
)

func boxscoreJSON(status, period string, awayGoals, homeGoals int) string {
	return fmt.Sprintf(`{
		"status": %q,
		"period": %q,
		"minutes": 12,
		"seconds": 34,
		"teams": [
			{"teamId": 101, "isHome": false},
			{"teamId": 202, "isHome": true}
		],
		"teamBoxscore": [
			{"teamId": 101, "teamStats": {"goals": %d}},
			{"teamId": 202, "teamStats": {"goals": %d}}
		]
	}`, status, period, awayGoals, homeGoals)
}

func TestClient_FetchBoxscore(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(boxscoreJSON("I", "2nd", 1, 3)))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	box, err := client.FetchBoxscore(context.Background(), "6498537")
	if err != nil {
		t.Fatalf("FetchBoxscore: %v", err)
	}
	if gotPath != "/game/6498537/boxscore" {
		t.Fatalf("path = %q", gotPath)
	}
	if box.Status != "I" || box.Period != "2nd" {
		t.Fatalf("status/period = %q/%q", box.Status, box.Period)
	}
	if box.Minutes == nil || *box.Minutes != 12 || box.Seconds == nil || *box.Seconds != 34 {
		t.Fatalf("clock = %v:%v", box.Minutes, box.Seconds)
	}

	away, home := box.Scores()
	if away == nil || *away != 1 || home == nil || *home != 3 {
		t.Fatalf("scores = %v-%v", away, home)
	}
}

func TestClient_FetchBoxscore_Errors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	if _, err := client.FetchBoxscore(context.Background(), "1"); err == nil {
		t.Fatal("expected error on 404")
	}
	if _, err := client.FetchBoxscore(context.Background(), " "); err == nil {
		t.Fatal("expected error on blank id")
	}
}

func TestClient_FetchBoxscores_PartialFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/game/1/boxscore":
			_, _ = w.Write([]byte(boxscoreJSON("F", "FINAL", 4, 2)))
		case "/game/2/boxscore":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(boxscoreJSON("I", "1st", 0, 0)))
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, BatchWorkers: 4})

	out := client.FetchBoxscores(context.Background(), []string{"1", "2", "3", "1"})
	if len(out) != 3 {
		t.Fatalf("entries = %d, want 3 (deduplicated)", len(out))
	}
	if out["1"] == nil || out["1"].Status != "F" {
		t.Fatalf("game 1 = %+v", out["1"])
	}
	if box, ok := out["2"]; !ok || box != nil {
		t.Fatalf("game 2 = %v present=%v, want nil entry", box, ok)
	}
	if out["3"] == nil || out["3"].Status != "I" {
		t.Fatalf("game 3 = %+v", out["3"])
	}
}

func TestClient_FetchBoxscores_RunsConcurrently(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		<-block
		inFlight.Add(-1)
		_, _ = w.Write([]byte(boxscoreJSON("I", "1st", 0, 0)))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, BatchWorkers: 8})

	done := make(chan map[string]*Boxscore, 1)
	go func() {
		done <- client.FetchBoxscores(context.Background(), []string{"1", "2", "3", "4"})
	}()

	// All four requests should be in flight together before any completes.
	for peak.Load() < 4 {
		runtime.Gosched()
	}
	close(block)

	out := <-done
	if len(out) != 4 {
		t.Fatalf("entries = %d, want 4", len(out))
	}
}

func TestClient_FetchScoreboard(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{
			"games": [
				{"game": {"gameID": "6498537", "startDate": "01-15-2026", "startTime": "07:00PM ET",
					"home": {"names": {"short": "Denver"}}, "away": {"names": {"short": "Minnesota"}}}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	board, err := client.FetchScoreboard(context.Background(), "2026-01-15")
	if err != nil {
		t.Fatalf("FetchScoreboard: %v", err)
	}
	if gotPath != "/scoreboard/icehockey-men/d1/2026/01/15/all-conf" {
		t.Fatalf("path = %q", gotPath)
	}
	if len(board.Games) != 1 || board.Games[0].Game.GameID != "6498537" {
		t.Fatalf("games = %+v", board.Games)
	}

	if _, err := client.FetchScoreboard(context.Background(), "not-a-date"); err == nil {
		t.Fatal("expected error on bad date")
	}
}
