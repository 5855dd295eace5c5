package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/sjms/livescores/internal/usecase"
)

func TestWriteGames_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeGames(context.Background(), rec, map[string]string{"100": "stub"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if _, exists := body["games"]; !exists {
		t.Fatalf("expected games key in response")
	}
	if _, exists := body["error"]; exists {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteHTML_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeHTML(context.Background(), rec, "<section>Final</section>")

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if got, _ := body["html"].(string); got != "<section>Final</section>" {
		t.Fatalf("unexpected html: %q", got)
	}
}

func TestWriteError_MapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: game 1", usecase.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: token", usecase.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: upstream", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(context.Background(), rec, tc.err)

		if rec.Code != tc.status {
			t.Fatalf("writeError(%v) status = %d, want %d", tc.err, rec.Code, tc.status)
		}

		var body map[string]any
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
		if ok, _ := body["ok"].(bool); ok {
			t.Fatalf("expected ok=false for %v", tc.err)
		}
		if got, _ := body["error"].(string); got != tc.err.Error() {
			t.Fatalf("error message = %q, want %q", got, tc.err.Error())
		}
	}
}
