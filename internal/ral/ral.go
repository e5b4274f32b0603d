// Package ral computes the Read-At-Level: a summary statistic of a
// recipient's recent per-read earnings, returned to callers after a
// successful settlement. spec.md §4.4/§11 treats the exact formula as
// a replaceable strategy; this implementation is the median of the
// last WindowSize MESSAGE_READ credits.
package ral

import (
	"context"
	"sort"

	"github.com/umpyre-code/beancounter/internal/logging"
	"github.com/umpyre-code/beancounter/internal/monitoring"
	"github.com/umpyre-code/beancounter/internal/store"
)

// Undefined is returned whenever RAL cannot be computed: below the
// minimum sample count, or on any query failure. Settlement never
// fails because of this; the caller just sees Undefined.
const Undefined int64 = -1

const (
	DefaultWindowSize = 100
	DefaultMinSamples = 3
)

// Computer produces a client's RAL at settlement time.
type Computer struct {
	store      store.Store
	windowSize int
	minSamples int
	logger     logging.Logger
	metrics    *monitoring.LedgerMetrics
}

// New constructs a Computer. windowSize/minSamples of 0 fall back to
// their spec.md defaults.
func New(s store.Store, windowSize, minSamples int, logger logging.Logger, metrics *monitoring.LedgerMetrics) *Computer {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	return &Computer{store: s, windowSize: windowSize, minSamples: minSamples, logger: logger, metrics: metrics}
}

// Compute returns the median of the client's last WindowSize
// MESSAGE_READ credits, or Undefined if there are fewer than
// MinSamples, or if the underlying query fails.
func (c *Computer) Compute(ctx context.Context, clientID string) int64 {
	amounts, err := c.store.ListReadCredits(ctx, clientID, c.windowSize)
	if err != nil {
		c.logger.WithError(err).WithField("client_id", clientID).Warn("RAL query failed; reporting undefined")
		c.recordOutcome("query_error")
		return Undefined
	}
	if len(amounts) < c.minSamples {
		c.recordOutcome("too_few_samples")
		return Undefined
	}
	c.recordOutcome("ok")
	return median(amounts)
}

func (c *Computer) recordOutcome(reason string) {
	if c.metrics == nil {
		return
	}
	c.metrics.RALOutcomes.WithLabelValues(reason).Inc()
}

// median returns the rounded-to-nearest-cent median of amounts. amounts
// is not mutated; Compute's caller owns the slice it gets back from the
// store and we don't want sorting here to surprise it.
func median(amounts []int64) int64 {
	sorted := make([]int64, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	lo, hi := sorted[n/2-1], sorted[n/2]
	sum := lo + hi
	if sum%2 == 0 {
		return sum / 2
	}
	// round-half-up to the nearest integer cent
	if sum > 0 {
		return sum/2 + 1
	}
	return sum / 2
}
