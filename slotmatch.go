package slotmatch

import (
	"context"
	"time"

	"github.com/hupe1980/slotmatch/internal/device"
	"github.com/hupe1980/slotmatch/internal/engine"
	"github.com/hupe1980/slotmatch/source"
)

// Matcher runs one strategy. It is safe for concurrent use; a GPU
// matcher shares one device between runs.
type Matcher struct {
	strategy Strategy
	engine   engine.Matcher
	logger   *Logger
	metrics  MetricsCollector
}

// NewMatcher validates the strategy and options. Nothing is read until
// Match is called.
func NewMatcher(strategy Strategy, optFns ...Option) (*Matcher, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if !strategy.Valid() {
		return nil, &ConfigurationError{Option: "strategy", Value: strategy.String()}
	}

	cfg := engine.Config{
		Pages:       o.pages,
		Workers:     o.workers,
		BlockSize:   o.blockSize,
		BatchEvents: o.batchEvents,
		Logger:      o.logger.Logger,
	}
	if strategy.Resolve() == GPU {
		cfg.Device = device.New(device.Config{
			MemoryLimitBytes:    o.device.MemoryLimitBytes,
			TransferBytesPerSec: o.device.TransferBytesPerSec,
			MaxThreadsPerBlock:  o.device.MaxThreadsPerBlock,
			Workers:             o.device.Workers,
			Logger:              o.logger.Logger,
		})
	}

	em, err := engine.New(strategy, cfg)
	if err != nil {
		return nil, translateError(err)
	}

	return &Matcher{
		strategy: em.Strategy(),
		engine:   em,
		logger:   o.logger.WithStrategy(em.Strategy()),
		metrics:  o.metricsCollector,
	}, nil
}

// Strategy returns the concrete strategy; Auto is already resolved.
func (m *Matcher) Strategy() Strategy {
	return m.strategy
}

// Match counts, for every event of src, the users whose capability mask
// covers the event's requirement mask.
func (m *Matcher) Match(ctx context.Context, src source.Source) (*Result, error) {
	start := time.Now()

	er, err := m.engine.Match(ctx, src)
	d := time.Since(start)
	if err != nil {
		err = translateError(err)
		m.logger.LogMatch(ctx, nil, d, err)
		m.metrics.RecordMatch(m.strategy, 0, 0, d, err)
		return nil, err
	}

	res := Result(*er)
	m.logger.LogLoad(ctx, res.Users, res.Events, res.Timings.Load)
	m.logger.LogMatch(ctx, &res, d, nil)
	m.metrics.RecordMatch(m.strategy, res.Users, res.Events, d, nil)
	return &res, nil
}

// Match is NewMatcher followed by a single Matcher.Match.
func Match(ctx context.Context, strategy Strategy, src source.Source, optFns ...Option) (*Result, error) {
	m, err := NewMatcher(strategy, optFns...)
	if err != nil {
		return nil, err
	}
	return m.Match(ctx, src)
}
