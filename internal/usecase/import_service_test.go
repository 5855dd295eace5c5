package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sjms/livescores/external/collegehockey"
	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/platform/logging"
)

type recordingMetaRepo struct {
	stubMetaRepo
	upserts   [][]game.NCAAMeta
	upsertErr error
}

func (r *recordingMetaRepo) UpsertNCAAGames(_ context.Context, metas []game.NCAAMeta) (int, error) {
	if r.upsertErr != nil {
		return 0, r.upsertErr
	}
	r.upserts = append(r.upserts, metas)
	return len(metas), nil
}

type stubScheduleProvider struct {
	boards map[string]*collegehockey.Scoreboard
	calls  []string
}

func (s *stubScheduleProvider) FetchScoreboard(_ context.Context, date string) (*collegehockey.Scoreboard, error) {
	s.calls = append(s.calls, date)
	board, ok := s.boards[date]
	if !ok {
		return nil, errors.New("scoreboard unavailable")
	}
	return board, nil
}

func scoreboardEntry(gameID, short string) collegehockey.ScoreboardEntry {
	return collegehockey.ScoreboardEntry{Game: collegehockey.ScoreboardGame{
		GameID:    gameID,
		StartDate: "01-15-2026",
		StartTime: "07:00PM ET",
		Away:      collegehockey.ScoreboardTeam{Names: collegehockey.TeamNames{Short: short}},
		Home:      collegehockey.ScoreboardTeam{Names: collegehockey.TeamNames{Short: "Boston Univ."}},
	}}
}

func newImportService(sched NCAAScheduleProvider, meta game.MetadataRepository) *ImportService {
	return &ImportService{
		cfg:    ImportConfig{Timezone: time.UTC}.withDefaults(),
		sched:  sched,
		meta:   meta,
		logger: logging.NewNop(),
		now: func() time.Time {
			return time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)
		},
	}
}

func TestImportService_DefaultsToToday(t *testing.T) {
	t.Parallel()

	provider := &stubScheduleProvider{boards: map[string]*collegehockey.Scoreboard{
		"2026-01-15": {Games: []collegehockey.ScoreboardEntry{
			scoreboardEntry("6308569", "Michigan"),
			scoreboardEntry("", "Ghost"), // no id, skipped
		}},
	}}
	repo := &recordingMetaRepo{}
	svc := newImportService(provider, repo)

	result, err := svc.ImportNCAASchedule(context.Background(), "", "")
	if err != nil {
		t.Fatalf("ImportNCAASchedule error: %v", err)
	}
	if result.Dates != 1 || result.Games != 1 || result.Upserted != 1 {
		t.Fatalf("result = %+v, want 1/1/1", result)
	}
	if len(provider.calls) != 1 || provider.calls[0] != "2026-01-15" {
		t.Fatalf("fetched dates = %v, want [2026-01-15]", provider.calls)
	}
	if len(repo.upserts) != 1 || len(repo.upserts[0]) != 1 {
		t.Fatalf("upserts = %v", repo.upserts)
	}

	meta := repo.upserts[0][0]
	if meta.GameID != "6308569" || meta.Date != "2026-01-15" || meta.AwayName != "Michigan" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestImportService_RangeSkipsFailedDates(t *testing.T) {
	t.Parallel()

	provider := &stubScheduleProvider{boards: map[string]*collegehockey.Scoreboard{
		"2026-01-15": {Games: []collegehockey.ScoreboardEntry{scoreboardEntry("1", "Michigan")}},
		// 2026-01-16 missing: fetch error, skipped
		"2026-01-17": {Games: []collegehockey.ScoreboardEntry{
			scoreboardEntry("2", "Denver"),
			scoreboardEntry("3", "Minnesota"),
		}},
	}}
	repo := &recordingMetaRepo{}
	svc := newImportService(provider, repo)

	result, err := svc.ImportNCAASchedule(context.Background(), "2026-01-15", "2026-01-17")
	if err != nil {
		t.Fatalf("ImportNCAASchedule error: %v", err)
	}
	if result.Dates != 3 || result.Games != 3 || result.Upserted != 3 {
		t.Fatalf("result = %+v, want dates=3 games=3 upserted=3", result)
	}
	if len(provider.calls) != 3 {
		t.Fatalf("fetched dates = %v, want 3 entries", provider.calls)
	}
	if len(repo.upserts) != 2 {
		t.Fatalf("upsert batches = %d, want 2", len(repo.upserts))
	}
}

func TestImportService_InvalidRange(t *testing.T) {
	t.Parallel()

	svc := newImportService(&stubScheduleProvider{}, &recordingMetaRepo{})

	cases := []struct {
		name       string
		start, end string
	}{
		{"bad start", "jan 15", ""},
		{"bad end", "2026-01-15", "soon"},
		{"end before start", "2026-01-15", "2026-01-10"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.ImportNCAASchedule(context.Background(), tc.start, tc.end); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ImportNCAASchedule(%q, %q) error = %v, want ErrInvalidInput", tc.start, tc.end, err)
			}
		})
	}
}

func TestImportService_UpsertFailureAborts(t *testing.T) {
	t.Parallel()

	provider := &stubScheduleProvider{boards: map[string]*collegehockey.Scoreboard{
		"2026-01-15": {Games: []collegehockey.ScoreboardEntry{scoreboardEntry("1", "Michigan")}},
	}}
	repo := &recordingMetaRepo{upsertErr: errors.New("db down")}
	svc := newImportService(provider, repo)

	if _, err := svc.ImportNCAASchedule(context.Background(), "2026-01-15", ""); err == nil {
		t.Fatal("expected upsert failure to surface")
	}
}
