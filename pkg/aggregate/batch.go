package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
var ErrBatchTooLarge = errors.New("too many characters requested")

// BatchEntry is one position of a batch result. Exactly one of Response
// and Error is set.
type BatchEntry struct {
	ID       uint32
	Response *Response `json:",omitempty"`
	Error    string    `json:",omitempty"`
}

// Multi aggregates a batch of characters sequentially, pacing upstream
// load through the configured token bucket. A single character's terminal
// failure is captured as an error entry in its position; siblings are
// still processed. Only batch-level problems (size cap, cancelled
// context) abort the whole call.
func (a *Aggregator) Multi(ctx context.Context, ids []uint32, opts Options) ([]BatchEntry, error) {
	if a.cfg.MaxBatchSize > 0 && len(ids) > a.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(ids), a.cfg.MaxBatchSize)
	}

	start := time.Now()
	entries := make([]BatchEntry, len(ids))

	for i, id := range ids {
		if a.pacer != nil {
			if err := a.pacer.Wait(ctx); err != nil {
				return entries[:i], err
			}
		}

		resp, err := a.Character(ctx, id, opts)
		if err != nil {
			if ctx.Err() != nil {
				return entries[:i], ctx.Err()
			}
			batchCharactersTotal.WithLabelValues("error").Inc()
			entries[i] = BatchEntry{ID: id, Error: err.Error()}
			a.logger.Warn().Err(err).Uint32("character_id", id).
				Msg("Batch item failed, continuing with siblings")
			continue
		}

		batchCharactersTotal.WithLabelValues("ok").Inc()
		entries[i] = BatchEntry{ID: id, Response: resp}
	}

	a.logger.Info().
		Int("characters", len(ids)).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return entries, nil
}
