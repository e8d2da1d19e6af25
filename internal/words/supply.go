package words

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rexlibris/rexlibris/internal/metrics"
)

const (
	defaultBatchSize = 80
	defaultLowWater  = 20

	refillTimeout = 30 * time.Second
)

// fallbackWords serve draws when the buffer is exhausted and the source has
// not refilled yet. Common catalogue words that match in any library;
// recent repeats are skipped so consecutive fallback draws stay varied.
var fallbackWords = []string{
	"history", "science", "music", "water", "light",
	"garden", "city", "language", "island", "winter",
	"memory", "bridge", "paper", "stone", "journey",
}

// Supply maintains the word buffer. It refills itself in the background
// once the buffer drops below the low-water mark; at most one refill is in
// flight at a time. Get never blocks and never returns an empty word.
type Supply struct {
	source    Source
	batchSize int
	lowWater  int
	log       *slog.Logger

	mu        sync.Mutex
	buf       []string
	refilling bool

	// recent fallback indices, newest last; guarded by mu.
	recent []int
}

// SupplyOption configures the Supply.
type SupplyOption func(*Supply)

// WithBatchSize overrides the number of words requested per fetch.
func WithBatchSize(n int) SupplyOption {
	return func(s *Supply) {
		s.batchSize = n
	}
}

// WithLowWater overrides the refill threshold.
func WithLowWater(n int) SupplyOption {
	return func(s *Supply) {
		s.lowWater = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) SupplyOption {
	return func(s *Supply) {
		s.log = l
	}
}

// NewSupply creates a word supply backed by the given source.
func NewSupply(source Source, opts ...SupplyOption) *Supply {
	s := &Supply{
		source:    source,
		batchSize: defaultBatchSize,
		lowWater:  defaultLowWater,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prime fetches one batch synchronously so the first search is not starved,
// then tops up in the background if the batch came up short. Fetch failures
// leave the buffer empty; Get still works via the fallback list.
func (s *Supply) Prime(ctx context.Context) {
	batch, err := s.source.Fetch(ctx, s.batchSize)
	if err != nil {
		s.log.Warn("priming word supply failed", "error", err)
	}

	s.mu.Lock()
	s.buf = append(s.buf, batch...)
	metrics.WordsBuffered.Set(float64(len(s.buf)))
	s.mu.Unlock()

	s.maybeRefill()
}

// Get removes and returns one word chosen uniformly at random. An empty
// buffer falls back to the curated word list; the call never blocks.
func (s *Supply) Get() string {
	s.mu.Lock()
	var word string
	if n := len(s.buf); n > 0 {
		idx := rand.IntN(n)
		s.buf[idx], s.buf[n-1] = s.buf[n-1], s.buf[idx]
		word = s.buf[n-1]
		s.buf = s.buf[:n-1]
		metrics.WordsBuffered.Set(float64(len(s.buf)))
	} else {
		word = s.fallbackLocked()
	}
	s.mu.Unlock()

	s.maybeRefill()
	return word
}

// Size returns the current buffer length.
func (s *Supply) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// fallbackLocked picks a curated word, avoiding the most recently returned
// half of the list. Caller holds mu.
func (s *Supply) fallbackLocked() string {
	metrics.WordFallbacksTotal.Inc()

	avoid := make(map[int]struct{}, len(s.recent))
	for _, i := range s.recent {
		avoid[i] = struct{}{}
	}

	idx := rand.IntN(len(fallbackWords))
	for range len(fallbackWords) {
		if _, seen := avoid[idx]; !seen {
			break
		}
		idx = (idx + 1) % len(fallbackWords)
	}

	s.recent = append(s.recent, idx)
	if limit := len(fallbackWords) / 2; len(s.recent) > limit {
		s.recent = s.recent[len(s.recent)-limit:]
	}

	return fallbackWords[idx]
}

// maybeRefill starts one background fetch when the buffer is below the
// low-water mark and no refill is already in flight.
func (s *Supply) maybeRefill() {
	s.mu.Lock()
	if s.refilling || len(s.buf) >= s.lowWater {
		s.mu.Unlock()
		return
	}
	s.refilling = true
	s.mu.Unlock()

	go s.refill()
}

func (s *Supply) refill() {
	metrics.WordRefillsTotal.Inc()

	ctx, cancel := context.WithTimeout(context.Background(), refillTimeout)
	defer cancel()

	batch, err := s.source.Fetch(ctx, s.batchSize)
	if err != nil {
		// An empty batch is a valid, harmless outcome.
		s.log.Debug("word refill failed", "error", err)
	}

	s.mu.Lock()
	s.buf = append(s.buf, batch...)
	metrics.WordsBuffered.Set(float64(len(s.buf)))
	s.refilling = false
	s.mu.Unlock()
}
