package slotmatch

import "github.com/hupe1980/slotmatch/internal/engine"

// Strategy selects how matching is computed. Strategies implement text
// marshalling, so they can be read from flags and config files.
type Strategy = engine.Strategy

const (
	// Auto picks SIMD256, SIMD128 or Word64 from the detected CPU features.
	Auto = engine.Auto
	// Scalar tests masks byte by byte.
	Scalar = engine.Scalar
	// Word64 tests five 64-bit words and a 16-bit tail.
	Word64 = engine.Word64
	// SIMD128 tests three overlapping 128-bit lanes.
	SIMD128 = engine.SIMD128
	// SIMD256 tests a 256-bit lane and an overlapping 128-bit tail.
	SIMD256 = engine.SIMD256
	// Multicore matches equal pages of events concurrently.
	Multicore = engine.Multicore
	// GPU runs the pairwise and reduction kernels on the emulated device.
	GPU = engine.GPU
	// Indexed intersects per-slot user bitmaps.
	Indexed = engine.Indexed
)

// Strategies returns every concrete strategy.
func Strategies() []Strategy {
	return engine.Strategies()
}

// ParseStrategy parses a strategy name such as "simd256" or its legacy
// alias "avx2". Unknown names return a ConfigurationError.
func ParseStrategy(name string) (Strategy, error) {
	s, err := engine.ParseStrategy(name)
	if err != nil {
		return 0, translateError(err)
	}
	return s, nil
}
