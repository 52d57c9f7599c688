package slotmatch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordMatch is called after each match run. users and events are the
	// input sizes (zero when loading failed), err is nil if successful.
	RecordMatch(strategy Strategy, users, events int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMatch(Strategy, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MatchCount      atomic.Int64
	MatchErrors     atomic.Int64
	MatchTotalNanos atomic.Int64
	UsersScanned    atomic.Int64
	EventsMatched   atomic.Int64
	PairsTested     atomic.Int64
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(_ Strategy, users, events int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
		return
	}
	b.UsersScanned.Add(int64(users))
	b.EventsMatched.Add(int64(events))
	b.PairsTested.Add(int64(users) * int64(events))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	count := b.MatchCount.Load()
	var avg int64
	if count > 0 {
		avg = b.MatchTotalNanos.Load() / count
	}
	return BasicMetricsStats{
		MatchCount:    count,
		MatchErrors:   b.MatchErrors.Load(),
		MatchAvgNanos: avg,
		UsersScanned:  b.UsersScanned.Load(),
		EventsMatched: b.EventsMatched.Load(),
		PairsTested:   b.PairsTested.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	MatchCount    int64
	MatchErrors   int64
	MatchAvgNanos int64
	UsersScanned  int64
	EventsMatched int64
	PairsTested   int64
}
