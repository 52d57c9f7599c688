package device

import (
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/hupe1980/slotmatch/internal/resource"
)

// Default launch limits, matching common discrete GPUs.
const (
	DefaultMaxThreadsPerBlock = 1024
	DefaultSharedMemoryBytes  = 64 << 10
	DefaultMaxGridY           = 65535
)

// Config describes the emulated device.
type Config struct {
	// MemoryLimitBytes caps device memory. 0 means unlimited.
	MemoryLimitBytes int64
	// TransferBytesPerSec caps host/device copy bandwidth. 0 means unlimited.
	TransferBytesPerSec int64
	// MaxThreadsPerBlock defaults to DefaultMaxThreadsPerBlock.
	MaxThreadsPerBlock int
	// SharedMemoryBytes is the per-block shared memory size.
	SharedMemoryBytes int
	// MaxGridY bounds grid dimensions Y and Z.
	MaxGridY int
	// Workers is the number of blocks executed concurrently.
	// Defaults to GOMAXPROCS.
	Workers int
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Stats is a snapshot of device resource usage.
type Stats struct {
	LiveBuffers     int64
	DeviceBytes     int64
	PeakDeviceBytes int64
	HostBytes       int64
	PinnedBytes     int64
}

// Device is an emulated accelerator. It is safe for concurrent use;
// independent sessions do not share streams or buffers.
type Device struct {
	cfg    Config
	ctrl   *resource.Controller
	logger *slog.Logger

	live        atomic.Int64
	hostBytes   atomic.Int64
	pinnedBytes atomic.Int64
}

// New creates a device from cfg, filling in defaults.
func New(cfg Config) *Device {
	if cfg.MaxThreadsPerBlock <= 0 {
		cfg.MaxThreadsPerBlock = DefaultMaxThreadsPerBlock
	}
	if cfg.SharedMemoryBytes <= 0 {
		cfg.SharedMemoryBytes = DefaultSharedMemoryBytes
	}
	if cfg.MaxGridY <= 0 {
		cfg.MaxGridY = DefaultMaxGridY
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Device{
		cfg: cfg,
		ctrl: resource.NewController(resource.Config{
			MemoryLimitBytes:    cfg.MemoryLimitBytes,
			TransferBytesPerSec: cfg.TransferBytesPerSec,
		}),
		logger: logger,
	}
}

// Config returns the effective configuration.
func (d *Device) Config() Config {
	return d.cfg
}

// MaxGridY returns the largest allowed grid Y dimension.
func (d *Device) MaxGridY() int {
	return d.cfg.MaxGridY
}

// Stats returns current resource usage.
func (d *Device) Stats() Stats {
	return Stats{
		LiveBuffers:     d.live.Load(),
		DeviceBytes:     d.ctrl.MemoryUsage(),
		PeakDeviceBytes: d.ctrl.MemoryPeak(),
		HostBytes:       d.hostBytes.Load(),
		PinnedBytes:     d.pinnedBytes.Load(),
	}
}

// NewSession opens a session with its own stream and allocation arena.
func (d *Device) NewSession() *Session {
	done := make(chan struct{})
	close(done)
	return &Session{dev: d, tail: done}
}
