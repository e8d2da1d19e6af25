// Package engine wires the word supply and result pool together and keeps
// the pool warm: it primes the supply at startup and re-triggers background
// fills on a schedule so draws stay instant between requests.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rexlibris/rexlibris/internal/pool"
	"github.com/rexlibris/rexlibris/internal/primo"
	"github.com/rexlibris/rexlibris/internal/words"
)

// MaxDraw caps one draw request; larger values are clamped at the consumer
// boundary rather than rejected.
const MaxDraw = 20

// Engine owns the supply/pool pair for one active library session.
type Engine struct {
	supply *words.Supply
	pool   *pool.Pool
	cron   *cron.Cron
	log    *slog.Logger

	refillInterval time.Duration
	ready          atomic.Bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithRefillInterval sets how often the scheduled top-up runs.
func WithRefillInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.refillInterval = d
	}
}

// New creates an Engine over an already-constructed supply and pool.
func New(supply *words.Supply, p *pool.Pool, opts ...Option) *Engine {
	e := &Engine{
		supply:         supply,
		pool:           p,
		log:            slog.Default(),
		refillInterval: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start primes the word supply, kicks off the first pool fill, and begins
// the periodic top-up schedule.
func (e *Engine) Start(ctx context.Context) error {
	e.supply.Prime(ctx)
	e.log.Info("word supply primed", "words", e.supply.Size())

	e.pool.FillAsync()

	c := cron.New()
	if _, err := c.AddFunc(
		"@every "+e.refillInterval.String(),
		e.runTopUp,
	); err != nil {
		return fmt.Errorf("scheduling pool top-up: %w", err)
	}
	c.Start()
	e.cron = c

	e.ready.Store(true)
	e.log.Info("engine started", "refill_interval", e.refillInterval)
	return nil
}

// Stop halts the top-up schedule, waiting for a running job to finish.
func (e *Engine) Stop() {
	e.ready.Store(false)
	if e.cron != nil {
		<-e.cron.Stop().Done()
	}
	e.log.Info("engine stopped")
}

// Ready reports whether Start has completed.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

func (e *Engine) runTopUp() {
	e.log.Debug("scheduled top-up", "pool_size", e.pool.Size())
	e.pool.FillAsync()
}

// Draw returns up to n random records, blocking for one synchronous fill
// when the pool cannot satisfy n immediately. It always kicks a background
// top-up afterwards. n is clamped to MaxDraw.
func (e *Engine) Draw(ctx context.Context, n int) []primo.Summary {
	if n < 1 {
		n = 1
	}
	if n > MaxDraw {
		n = MaxDraw
	}

	if e.pool.Size() < n {
		e.pool.EnsureAvailable(ctx, n)
	}

	docs := e.pool.Take(n)
	e.pool.FillAsync()

	return primo.SummarizeAll(docs, e.pool.Library())
}

// SetMaterialType changes the pool's material filter and pre-fetches for
// the new filter. An unknown type is rejected; "" clears the filter.
func (e *Engine) SetMaterialType(t string) error {
	if t != "" {
		if _, ok := primo.MaterialTypes[t]; !ok {
			return fmt.Errorf("unknown material type %q", t)
		}
	}
	e.pool.SetMaterialType(t)
	e.pool.FillAsync()
	return nil
}

// Refill triggers a background fill; idempotent while one is in flight.
func (e *Engine) Refill() {
	e.pool.FillAsync()
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	Library       string `json:"library"`
	BaseURL       string `json:"base_url"`
	MaterialType  string `json:"material_type,omitempty"`
	PoolSize      int    `json:"pool_size"`
	WordsBuffered int    `json:"words_buffered"`
}

// Status reports the current session state.
func (e *Engine) Status() Status {
	lib := e.pool.Library()
	return Status{
		Library:       lib.Name,
		BaseURL:       lib.BaseURL,
		MaterialType:  e.pool.MaterialType(),
		PoolSize:      e.pool.Size(),
		WordsBuffered: e.supply.Size(),
	}
}
