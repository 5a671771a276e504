// Package progress tracks bulk download progress and emits periodic
// structured log lines, with a courtesy pause between batches so the
// upstream image host is not hammered.
package progress

import (
	"time"

	"go.uber.org/zap"
)

// Tracker tallies successes and failures across a bulk download and logs a
// progress line every Interval records plus one final line.
type Tracker struct {
	logger     *zap.Logger
	label      string
	total      int
	interval   int
	pauseEvery int
	pause      time.Duration

	done int
	ok   int
	fail int

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// Config sizes the tracker.
type Config struct {
	Label      string
	Total      int
	Interval   int
	PauseEvery int
	Pause      time.Duration
}

// NewTracker builds a Tracker for one chamber's download run.
func NewTracker(cfg Config, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 25
	}
	return &Tracker{
		logger:     logger,
		label:      cfg.Label,
		total:      cfg.Total,
		interval:   cfg.Interval,
		pauseEvery: cfg.PauseEvery,
		pause:      cfg.Pause,
		sleep:      time.Sleep,
	}
}

// Record registers one finished download and handles the periodic log line
// and courtesy pause.
func (t *Tracker) Record(success bool) {
	t.done++
	if success {
		t.ok++
	} else {
		t.fail++
	}

	if t.done%t.interval == 0 || t.done == t.total {
		pct := 0
		if t.total > 0 {
			pct = t.done * 100 / t.total
		}
		t.logger.Info("download progress",
			zap.String("chamber", t.label),
			zap.Int("done", t.done),
			zap.Int("total", t.total),
			zap.Int("percent", pct),
			zap.Int("ok", t.ok),
			zap.Int("failed", t.fail),
		)
	}

	if t.pauseEvery > 0 && t.pause > 0 && t.done%t.pauseEvery == 0 && t.done < t.total {
		t.sleep(t.pause)
	}
}

// OK returns the success count.
func (t *Tracker) OK() int { return t.ok }

// Failed returns the failure count.
func (t *Tracker) Failed() int { return t.fail }
