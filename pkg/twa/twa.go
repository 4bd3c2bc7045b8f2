// Package twa computes time weighted averages over balance snapshot series.
// Snapshots are step functions: a value holds from its timestamp until the
// next snapshot, and the last observation carries through to the window end.
package twa

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Mode int

const (
	// ModeAverage returns the plain time weighted average over the window.
	ModeAverage Mode = iota
	// ModeDurationWeighted returns the average scaled by the minutes the
	// series was observed, rewarding both size and duration.
	ModeDurationWeighted
)

// Sample is one observation of a value at a point in time.
type Sample struct {
	Timestamp time.Time
	Value     decimal.Decimal
}

type Engine struct {
}

func NewEngine() *Engine {
	return &Engine{}
}

// Calculate computes the time weighted value of a sample series inside the
// [windowStart, windowEnd) window. Samples before the window start set the
// opening value; samples outside the window otherwise contribute nothing. A
// series with no observed duration yields zero.
func (e *Engine) Calculate(samples []Sample, windowStart time.Time, windowEnd time.Time, mode Mode) decimal.Decimal {
	if !windowStart.Before(windowEnd) || len(samples) == 0 {
		return decimal.Zero
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	// opening value: the latest sample at or before the window start
	current := decimal.Zero
	hasOpening := false
	idx := 0
	for idx < len(sorted) && !sorted[idx].Timestamp.After(windowStart) {
		current = sorted[idx].Value
		hasOpening = true
		idx++
	}

	cursor := windowStart
	weightedSum := decimal.Zero
	observed := decimal.Zero

	accumulate := func(until time.Time) {
		seconds := decimal.NewFromFloat(until.Sub(cursor).Seconds())
		if seconds.IsPositive() {
			weightedSum = weightedSum.Add(current.Mul(seconds))
			observed = observed.Add(seconds)
		}
		cursor = until
	}

	for ; idx < len(sorted); idx++ {
		sample := sorted[idx]
		if !sample.Timestamp.Before(windowEnd) {
			break
		}
		if hasOpening {
			accumulate(sample.Timestamp)
		} else {
			// nothing was held before the first in-window sample
			cursor = sample.Timestamp
			hasOpening = true
		}
		current = sample.Value
	}
	if hasOpening {
		accumulate(windowEnd)
	}

	if observed.IsZero() {
		return decimal.Zero
	}

	average := weightedSum.Div(observed)
	if mode == ModeDurationWeighted {
		minutes := observed.Div(decimal.NewFromInt(60))
		return average.Mul(minutes)
	}
	return average
}
