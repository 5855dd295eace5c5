package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/sjms/livescores/internal/platform/logging"
)

const (
	defaultLiveInterval   = 30 * time.Second
	defaultIdleInterval   = 90 * time.Second
	defaultInitialDelay   = 2500 * time.Millisecond
	defaultMaxPollGames   = 40
	defaultBackfillBatch  = 40
	defaultBackfillRounds = 6
	defaultBackfillPause  = 150 * time.Millisecond
)

type Config struct {
	// LiveInterval is the poll period while at least one tracked game
	// was live on the last fetch; IdleInterval applies otherwise. The
	// choice is re-evaluated after every fetch from the fetched batch.
	LiveInterval time.Duration
	IdleInterval time.Duration
	// InitialDelay defers the first cycle so the page can paint.
	InitialDelay time.Duration

	MaxPollGames   int
	BackfillBatch  int
	BackfillRounds int
	BackfillPause  time.Duration

	Timezone *time.Location

	// NearTop reports whether the viewport is close enough to the top
	// for a card reorder to be non-disruptive. Defaults to always true.
	NearTop func() bool
}

func (c Config) withDefaults() Config {
	if c.LiveInterval <= 0 {
		c.LiveInterval = defaultLiveInterval
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = defaultIdleInterval
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = defaultInitialDelay
	}
	if c.MaxPollGames <= 0 {
		c.MaxPollGames = defaultMaxPollGames
	}
	if c.BackfillBatch <= 0 {
		c.BackfillBatch = defaultBackfillBatch
	}
	if c.BackfillRounds <= 0 {
		c.BackfillRounds = defaultBackfillRounds
	}
	if c.BackfillPause <= 0 {
		c.BackfillPause = defaultBackfillPause
	}
	if c.Timezone == nil {
		c.Timezone = time.Local
	}
	if c.NearTop == nil {
		c.NearTop = func() bool { return true }
	}
	return c
}

// Loop owns the polling lifecycle for one page of cards. One instance
// per page, started by the bootstrap; there is no process-global guard.
type Loop struct {
	cfg    Config
	source ScoreSource
	index  *TargetIndex
	logger *logging.Logger
	now    func() time.Time

	visible          atomic.Bool
	backfillInFlight atomic.Bool

	resync       chan struct{}
	cardsChanged chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	startMu      sync.Mutex
	started      bool
}

func NewLoop(cfg Config, source ScoreSource, index *TargetIndex, logger *logging.Logger) *Loop {
	if logger == nil {
		logger = logging.Default()
	}
	l := &Loop{
		cfg:          cfg.withDefaults(),
		source:       source,
		index:        index,
		logger:       logger,
		now:          time.Now,
		resync:       make(chan struct{}, 1),
		cardsChanged: make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	l.visible.Store(true)
	return l
}

// Start launches the loop: one backfill sweep for older unresolved
// cards, then the normal adaptive poll cycle. Repeated calls are no-ops.
func (l *Loop) Start(ctx context.Context) {
	l.startMu.Lock()
	if l.started {
		l.startMu.Unlock()
		return
	}
	l.started = true
	l.startMu.Unlock()

	go l.run(ctx)
}

// Stop halts the loop. In-flight fetches are not aborted; their results
// are simply never applied to a next cycle.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// SetVisible records page visibility. While hidden, ticks reschedule
// without a network call. Becoming visible triggers an immediate
// resync at the live interval.
func (l *Loop) SetVisible(visible bool) {
	was := l.visible.Swap(visible)
	if visible && !was {
		l.Resync()
	}
}

// Resync requests an immediate cycle (backfill plus poll) instead of
// waiting for the running interval.
func (l *Loop) Resync() {
	select {
	case l.resync <- struct{}{}:
	default:
	}
}

// CardsChanged rebuilds the target index from the full current card
// set and queues a backfill so newly added older cards settle.
func (l *Loop) CardsChanged(cards []*Card) {
	l.index.CardsChanged(cards)
	select {
	case l.cardsChanged <- struct{}{}:
	default:
	}
}

func (l *Loop) run(ctx context.Context) {
	select {
	case <-time.After(l.cfg.InitialDelay):
	case <-ctx.Done():
		return
	case <-l.done:
		return
	}

	l.Backfill(ctx)
	interval := l.tick(ctx)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("score poller stopped")
			return
		case <-l.done:
			l.logger.Info("score poller stopped")
			return
		case <-l.resync:
			go l.Backfill(ctx)
			interval = l.tick(ctx)
			resetTimer(timer, interval)
		case <-l.cardsChanged:
			go l.Backfill(ctx)
		case <-timer.C:
			interval = l.tick(ctx)
			timer.Reset(interval)
		}
	}
}

// tick runs one poll cycle and returns the delay before the next one.
func (l *Loop) tick(ctx context.Context) time.Duration {
	if !l.visible.Load() {
		return l.cfg.LiveInterval
	}

	today, yesterday := l.dates()
	nhl, ncaa := l.index.Collect(today, yesterday, l.cfg.MaxPollGames)
	if len(nhl) == 0 && len(ncaa) == 0 {
		return l.cfg.IdleInterval
	}

	anyLive := l.fetchAndApply(ctx, nhl, ncaa, today)
	if l.index.Reorder(l.cfg.NearTop()) {
		l.logger.DebugContext(ctx, "card order changed")
	}

	if anyLive {
		return l.cfg.LiveInterval
	}
	return l.cfg.IdleInterval
}

// Backfill sweeps unresolved games strictly older than today in
// bounded batches, reconciling each batch the same way as the main
// cycle. An in-flight flag keeps concurrent sweeps from overlapping.
func (l *Loop) Backfill(ctx context.Context) {
	if !l.backfillInFlight.CompareAndSwap(false, true) {
		return
	}
	defer l.backfillInFlight.Store(false)

	today, _ := l.dates()

	for round := 0; round < l.cfg.BackfillRounds; round++ {
		nhl, ncaa := l.index.CollectBackfill(today, l.cfg.BackfillBatch)
		if len(nhl) == 0 && len(ncaa) == 0 {
			break
		}

		l.fetchAndApply(ctx, nhl, ncaa, today)

		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case <-time.After(l.cfg.BackfillPause):
		}
	}

	l.index.Reorder(l.cfg.NearTop())
}

// fetchAndApply issues one batched request per league in parallel and
// reconciles whatever came back. A failed league is logged and skipped;
// the other league's records still apply.
func (l *Loop) fetchAndApply(ctx context.Context, nhl []int64, ncaa []string, today string) bool {
	var nhlScores, ncaaScores map[string]Score

	p := pool.New().WithContext(ctx)
	if len(nhl) > 0 {
		p.Go(func(ctx context.Context) error {
			scores, err := l.source.NHLScores(ctx, nhl)
			if err != nil {
				l.logger.WarnContext(ctx, "nhl score fetch failed", "count", len(nhl), "error", err)
				return nil
			}
			nhlScores = scores
			return nil
		})
	}
	if len(ncaa) > 0 {
		p.Go(func(ctx context.Context) error {
			scores, err := l.source.NCAAScores(ctx, ncaa)
			if err != nil {
				l.logger.WarnContext(ctx, "ncaa score fetch failed", "count", len(ncaa), "error", err)
				return nil
			}
			ncaaScores = scores
			return nil
		})
	}
	_ = p.Wait()

	anyLive := false
	if len(nhlScores) > 0 {
		anyLive = l.index.Apply(nhlScores, today) || anyLive
	}
	if len(ncaaScores) > 0 {
		anyLive = l.index.Apply(ncaaScores, today) || anyLive
	}
	return anyLive
}

func (l *Loop) dates() (today, yesterday string) {
	now := l.now().In(l.cfg.Timezone)
	return now.Format("2006-01-02"), now.AddDate(0, 0, -1).Format("2006-01-02")
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}
