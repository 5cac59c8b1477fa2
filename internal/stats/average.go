// Package stats computes and caches the average number of attempts remaining
// across active games.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MessagePrefix is prepended to the cached average
const MessagePrefix = "The average moves remaining is "

// ComputeAverageRemaining returns the mean of remaining formatted with two
// decimals. ok is false for an empty population, in which case nothing should
// be cached.
func ComputeAverageRemaining(remaining []int) (avg string, ok bool) {
	_, avg, ok = summarize(remaining)
	return avg, ok
}

// summarize returns the mean of remaining and its two-decimal rendering
func summarize(remaining []int) (value float64, text string, ok bool) {
	value, ok = mean(remaining)
	if !ok {
		return 0, "", false
	}
	return value, formatAverage(value), true
}

func mean(values []int) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values)), true
}

func formatAverage(avg float64) string {
	return fmt.Sprintf("%.2f", avg)
}

// ActiveGames lists attempts remaining for every game that is not over
type ActiveGames interface {
	ActiveAttemptsRemaining(ctx context.Context) ([]int, error)
}

// Cache holds the last computed statistic. Get returns "" when nothing has
// been stored yet.
type Cache interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, value string) error
}

// Observer is notified with each new average
type Observer func(avg float64)

// refreshTimeout bounds a background refresh
const refreshTimeout = 10 * time.Second

// Aggregator owns the cached statistic. Only Refresh writes it.
type Aggregator struct {
	games    ActiveGames
	cache    Cache
	observer Observer

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewAggregator creates an aggregator reading games and writing cache
func NewAggregator(games ActiveGames, cache Cache, observer Observer) *Aggregator {
	return &Aggregator{games: games, cache: cache, observer: observer}
}

// Refresh recomputes the statistic from a snapshot of active games. With no
// active games the previous value is kept.
func (a *Aggregator) Refresh(ctx context.Context) error {
	remaining, err := a.games.ActiveAttemptsRemaining(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active games: %w", err)
	}

	avg, text, ok := summarize(remaining)
	if !ok {
		log.Debug().Msg("no active games, keeping cached average")
		return nil
	}

	if err := a.cache.Set(ctx, MessagePrefix+text); err != nil {
		return fmt.Errorf("failed to cache average: %w", err)
	}
	if a.observer != nil {
		a.observer(avg)
	}
	log.Debug().Float64("average", avg).Int("games", len(remaining)).Msg("average attempts refreshed")
	return nil
}

// RefreshAsync runs Refresh in the background with a bounded context.
// Failures are logged. After Close it does nothing.
func (a *Aggregator) RefreshAsync() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := a.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("background average refresh failed")
		}
	}()
}

// Close stops new background refreshes and waits for running ones
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.pending.Wait()
}

// Current returns the cached statistic, or "" if it was never computed
func (a *Aggregator) Current(ctx context.Context) (string, error) {
	return a.cache.Get(ctx)
}
