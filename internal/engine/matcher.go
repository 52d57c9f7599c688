package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hupe1980/slotmatch/internal/device"
	"github.com/hupe1980/slotmatch/internal/simd"
	"github.com/hupe1980/slotmatch/source"
)

// Defaults for Config fields left zero.
const (
	DefaultPages     = 10
	DefaultBlockSize = 256
)

// Matcher runs one strategy against a source.
type Matcher interface {
	Strategy() Strategy
	Match(ctx context.Context, src source.Source) (*Result, error)
}

// Config holds the settings of all strategies; each uses what applies.
type Config struct {
	// Pages is the number of event pages of the multicore strategy.
	Pages int
	// Workers bounds concurrent page workers. Defaults to Pages.
	Workers int
	// BlockSize is the GPU threads per block; a power of two.
	BlockSize int
	// BatchEvents caps the events per GPU kernel pair. 0 uses the
	// device grid limit.
	BatchEvents int
	// Device runs the GPU strategy. Nil creates a default device.
	Device *device.Device
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

func (c *Config) setDefaults() error {
	if c.Pages == 0 {
		c.Pages = DefaultPages
	}
	if c.Pages < 0 {
		return fmt.Errorf("%w: pages must be positive, got %d", ErrInvalidConfig, c.Pages)
	}
	if c.Workers == 0 {
		c.Workers = c.Pages
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.BlockSize < 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("%w: block size must be a power of two, got %d", ErrInvalidConfig, c.BlockSize)
	}
	if c.BatchEvents < 0 {
		return fmt.Errorf("%w: batch events must not be negative, got %d", ErrInvalidConfig, c.BatchEvents)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return nil
}

// New returns the matcher for strategy s. Auto is resolved first.
func New(s Strategy, cfg Config) (Matcher, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	requested := s
	s = s.Resolve()
	logger := cfg.Logger.With("strategy", s.String())
	if requested == Auto {
		logger.Debug("resolved auto strategy",
			"isa", simd.ActiveISA().String(),
			"width", simd.PreferredWidth(),
			"overridden", simd.IsOverridden())
	}

	switch s {
	case Scalar:
		return newSerial(s, scalarCodec, logger), nil
	case Word64:
		return newSerial(s, word64Codec, logger), nil
	case SIMD128:
		return newSerial(s, simd128Codec, logger), nil
	case SIMD256:
		return newSerial(s, simd256Codec, logger), nil
	case Multicore:
		return &multicoreMatcher{pages: cfg.Pages, workers: cfg.Workers, logger: logger}, nil
	case GPU:
		dev := cfg.Device
		if dev == nil {
			dev = device.New(device.Config{Logger: cfg.Logger})
		}
		return &gpuMatcher{dev: dev, blockSize: cfg.BlockSize, batch: cfg.BatchEvents, logger: logger}, nil
	case Indexed:
		return &indexedMatcher{logger: logger}, nil
	default:
		return nil, &UnknownStrategyError{Name: s.String()}
	}
}

// load connects and reads all users, closing the connection on error.
func load(ctx context.Context, src source.Source) (source.Conn, [][]byte, error) {
	conn, err := src.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	users, err := conn.Users(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("load users: %w", err)
	}
	return conn, users, nil
}
