// Package pool implements the warm, deduplicated buffer of catalogue
// records that makes random draws feel instant. The pool refills itself
// through bounded concurrent fan-out searches using randomized query words.
package pool

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rexlibris/rexlibris/internal/metrics"
	"github.com/rexlibris/rexlibris/internal/primo"
)

const (
	defaultTarget   = 150
	defaultLowWater = 30
	defaultWorkers  = 4

	// Each fetch task covers roughly one page of results, so the fill
	// deficit is divided by a per-batch yield estimate.
	batchYield = 20
	minBatches = 3

	pageLimit = 50
	maxOffset = 500
)

// WordGetter supplies one random query word per fetch task.
type WordGetter interface {
	Get() string
}

// Pool holds pre-fetched records for one (library, material type) pair.
// Records and their ID set stay in 1:1 correspondence; changing the library
// or the filter invalidates everything buffered.
type Pool struct {
	client primo.SearchClient
	words  WordGetter
	log    *slog.Logger

	target   int
	lowWater int
	workers  int

	mu       sync.Mutex
	cond     *sync.Cond
	items    []primo.Doc
	seen     map[string]struct{}
	filling  bool
	library  primo.LibraryConfig
	material string
}

// Option configures the Pool.
type Option func(*Pool)

// WithTarget overrides the soft fill target.
func WithTarget(n int) Option {
	return func(p *Pool) {
		p.target = n
	}
}

// WithLowWater overrides the background top-up threshold.
func WithLowWater(n int) Option {
	return func(p *Pool) {
		p.lowWater = n
	}
}

// WithWorkers overrides the fetch concurrency bound.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		p.workers = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		p.log = l
	}
}

// New creates a pool for the given library.
func New(
	client primo.SearchClient,
	wordSupply WordGetter,
	library primo.LibraryConfig,
	opts ...Option,
) *Pool {
	p := &Pool{
		client:   client,
		words:    wordSupply,
		log:      slog.Default(),
		target:   defaultTarget,
		lowWater: defaultLowWater,
		workers:  defaultWorkers,
		seen:     make(map[string]struct{}),
		library:  library,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Library returns the active library configuration.
func (p *Pool) Library() primo.LibraryConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.library
}

// SetLibrary switches the pool to another library. Everything buffered was
// fetched from the old catalogue, so the pool is cleared synchronously.
// No-op when the configuration is unchanged.
func (p *Pool) SetLibrary(cfg primo.LibraryConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cfg == p.library {
		return
	}
	p.library = cfg
	p.clearLocked()
}

// MaterialType returns the active material type filter, "" for none.
func (p *Pool) MaterialType() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.material
}

// SetMaterialType changes the material type filter, clearing the pool
// synchronously. No-op when the filter is unchanged.
func (p *Pool) SetMaterialType(t string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t == p.material {
		return
	}
	p.material = t
	p.clearLocked()
}

// Size returns the number of buffered records.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Clear empties the record buffer and the ID set.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

func (p *Pool) clearLocked() {
	p.items = p.items[:0]
	p.seen = make(map[string]struct{})
	metrics.PoolSize.Set(0)
}

// Take removes and returns up to n records chosen uniformly at random.
// It never blocks and returns fewer than n when the pool is under-filled.
// Taking a record releases its ID, so the same record can be re-admitted
// by a later fetch. Panics if n is not positive.
func (p *Pool) Take(n int) []primo.Doc {
	if n <= 0 {
		panic(fmt.Sprintf("pool: Take called with n=%d", n))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.items) {
		n = len(p.items)
	}

	picked := make([]primo.Doc, 0, n)
	for range n {
		last := len(p.items) - 1
		idx := rand.IntN(last + 1)
		p.items[idx], p.items[last] = p.items[last], p.items[idx]
		doc := p.items[last]
		p.items = p.items[:last]

		if id := primo.RecordID(doc); id != "" {
			delete(p.seen, id)
		}
		picked = append(picked, doc)
	}

	metrics.PoolSize.Set(float64(len(p.items)))
	metrics.PoolDrawsTotal.Add(float64(len(picked)))
	return picked
}

// FillAsync starts one background fill unless a fill is already in flight
// or the pool is at target. Repeated calls while a fill runs are no-ops.
func (p *Pool) FillAsync() {
	p.mu.Lock()
	if p.filling || len(p.items) >= p.target {
		p.mu.Unlock()
		return
	}
	p.filling = true
	p.mu.Unlock()

	go func() {
		metrics.PoolFillsTotal.WithLabelValues("async").Inc()
		p.fill(context.Background())
		p.finishFill()
	}()
}

// EnsureAvailable blocks until a fill attempt has completed whenever fewer
// than n records are buffered. Fills are strictly serialized: if a
// background fill is already running, EnsureAvailable waits for it instead
// of starting a second fan-out against the same upstream. A fill attempt
// does not guarantee n records; afterwards a background top-up is kicked
// off if the pool is still below the low-water mark. Panics if n is not
// positive.
func (p *Pool) EnsureAvailable(ctx context.Context, n int) {
	if n <= 0 {
		panic(fmt.Sprintf("pool: EnsureAvailable called with n=%d", n))
	}

	p.mu.Lock()
	for p.filling {
		p.cond.Wait()
	}
	if len(p.items) < n {
		p.filling = true
		p.mu.Unlock()

		metrics.PoolFillsTotal.WithLabelValues("sync").Inc()
		p.fill(ctx)
		p.finishFill()
	} else {
		p.mu.Unlock()
	}

	if p.Size() < p.lowWater {
		p.FillAsync()
	}
}

func (p *Pool) finishFill() {
	p.mu.Lock()
	p.filling = false
	p.cond.Broadcast()
	p.mu.Unlock()
}

// fill dispatches fetch tasks sized to the current deficit and merges their
// results. It acts as a barrier: every dispatched task completes or fails
// before fill returns. The target is a soft threshold; since the batch
// count is computed from the deficit but each task may return a full page,
// a fill can overshoot it.
func (p *Pool) fill(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.PoolFillDuration.Observe(time.Since(start).Seconds())
	}()

	deficit := p.target - p.Size()
	batches := deficit / batchYield
	if batches < minBatches {
		batches = minBatches
	}

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for range batches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			p.merge(p.fetchBatch(ctx))
		}()
	}

	wg.Wait()

	p.log.Debug("pool fill complete",
		"batches", batches,
		"size", p.Size(),
		"target", p.target,
	)
}

// fetchBatch runs one randomized search. Errors collapse to an empty
// result; the pool treats "query failed" and "query had no matches"
// identically.
func (p *Pool) fetchBatch(ctx context.Context) []primo.Doc {
	p.mu.Lock()
	cfg := p.library
	material := p.material
	p.mu.Unlock()

	req := primo.SearchRequest{
		Query:        p.words.Get(),
		Field:        primo.SearchFields[rand.IntN(len(primo.SearchFields))],
		MaterialType: material,
		Offset:       rand.IntN(maxOffset + 1),
		Limit:        pageLimit,
	}

	docs, err := p.client.Search(ctx, cfg, req)
	if err != nil {
		metrics.SearchFailuresTotal.Inc()
		p.log.Debug("fetch batch failed",
			"query", req.Query,
			"field", req.Field,
			"offset", req.Offset,
			"error", err,
		)
		return nil
	}
	return docs
}

// merge admits fetched records, deduplicating on record ID across the
// whole pool. Records without an extractable ID are dropped.
func (p *Pool) merge(docs []primo.Doc) {
	if len(docs) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var added int
	for _, d := range docs {
		id := primo.RecordID(d)
		if id == "" {
			continue
		}
		if _, dup := p.seen[id]; dup {
			metrics.PoolDuplicatesTotal.Inc()
			continue
		}
		p.seen[id] = struct{}{}
		p.items = append(p.items, d)
		added++
	}

	metrics.PoolSize.Set(float64(len(p.items)))
	metrics.PoolRecordsAddedTotal.Add(float64(added))
}
