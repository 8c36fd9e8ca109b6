// Package ratelimit provides upstream request pacing for batch operations.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pacing.
var (
	pacerTokens = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lodestone_pacer_tokens",
		Help: "Tokens currently available in the upstream pacer",
	})

	pacerWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodestone_pacer_waits_total",
		Help: "Total number of times a request had to wait for a pacer token",
	})
)

// Pacer is a token bucket gating upstream calls. The batch driver takes
// one token per character, so a drained bucket spaces requests by the
// refill interval instead of sleeping a fixed delay inside the loop.
type Pacer struct {
	mu       sync.Mutex
	capacity float64
	tokens   float64
	interval time.Duration // time to refill one token
	last     time.Time
	logger   zerolog.Logger
}

// NewPacer creates a pacer with the given bucket capacity and per-token
// refill interval.
func NewPacer(capacity int, refillInterval time.Duration) *Pacer {
	if capacity < 1 {
		capacity = 1
	}
	if refillInterval <= 0 {
		refillInterval = 500 * time.Millisecond
	}
	return &Pacer{
		capacity: float64(capacity),
		tokens:   float64(capacity),
		interval: refillInterval,
		last:     time.Now(),
		logger:   log.With().Str("component", "pacer").Logger(),
	}
}

// refill credits tokens for the time elapsed since the last refill.
// Caller must hold mu.
func (p *Pacer) refill(now time.Time) {
	elapsed := now.Sub(p.last)
	if elapsed <= 0 {
		return
	}
	p.tokens += float64(elapsed) / float64(p.interval)
	if p.tokens > p.capacity {
		p.tokens = p.capacity
	}
	p.last = now
}

// Wait blocks until a token is available or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	waited := false
	for {
		p.mu.Lock()
		now := time.Now()
		p.refill(now)

		if p.tokens >= 1 {
			p.tokens--
			pacerTokens.Set(p.tokens)
			p.mu.Unlock()
			return nil
		}

		need := time.Duration((1 - p.tokens) * float64(p.interval))
		p.mu.Unlock()

		if !waited {
			pacerWaitsTotal.Inc()
			p.logger.Debug().Dur("wait", need).Msg("Pacing upstream request")
			waited = true
		}

		timer := time.NewTimer(need)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
