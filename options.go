package slotmatch

import "log/slog"

// DeviceConfig describes the emulated device used by the GPU strategy.
// Zero fields take the device defaults.
type DeviceConfig struct {
	// MemoryLimitBytes caps device memory. 0 means unlimited.
	MemoryLimitBytes int64
	// TransferBytesPerSec caps host/device copy bandwidth. 0 means unlimited.
	TransferBytesPerSec int64
	// MaxThreadsPerBlock defaults to 1024.
	MaxThreadsPerBlock int
	// Workers is the number of blocks run concurrently. Defaults to GOMAXPROCS.
	Workers int
}

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	pages            int
	workers          int
	blockSize        int
	batchEvents      int
	device           DeviceConfig
}

// Option configures a Matcher.
type Option func(*options)

// WithPages sets the number of equal event pages of the Multicore
// strategy. The event count must be divisible by it. Defaults to 10.
func WithPages(n int) Option {
	return func(o *options) {
		o.pages = n
	}
}

// WithWorkers bounds how many Multicore pages run at once.
// Defaults to the page count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBlockSize sets the GPU threads per block, a power of two.
// Defaults to 256.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithBatchEvents caps how many events one GPU kernel pair covers.
// By default a batch is as large as the device grid and memory allow.
func WithBatchEvents(n int) Option {
	return func(o *options) {
		o.batchEvents = n
	}
}

// WithDeviceConfig replaces the whole device configuration.
func WithDeviceConfig(cfg DeviceConfig) Option {
	return func(o *options) {
		o.device = cfg
	}
}

// WithDeviceMemoryLimit caps device memory in bytes.
func WithDeviceMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.device.MemoryLimitBytes = bytes
	}
}

// WithTransferRate caps host/device copy bandwidth in bytes per second.
func WithTransferRate(bytesPerSec int64) Option {
	return func(o *options) {
		o.device.TransferBytesPerSec = bytesPerSec
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &slotmatch.BasicMetricsCollector{}
//	m, _ := slotmatch.NewMatcher(slotmatch.SIMD256, slotmatch.WithMetricsCollector(metrics))
//	// ... run matches ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.MatchCount, stats.MatchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for match runs.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	switch {
	case o.device.MemoryLimitBytes < 0:
		return &ConfigurationError{Option: "device memory limit", Value: o.device.MemoryLimitBytes}
	case o.device.TransferBytesPerSec < 0:
		return &ConfigurationError{Option: "transfer rate", Value: o.device.TransferBytesPerSec}
	case o.device.MaxThreadsPerBlock < 0:
		return &ConfigurationError{Option: "max threads per block", Value: o.device.MaxThreadsPerBlock}
	case o.device.Workers < 0:
		return &ConfigurationError{Option: "device workers", Value: o.device.Workers}
	}
	return nil
}
