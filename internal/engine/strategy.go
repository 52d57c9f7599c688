package engine

import (
	"fmt"
	"strings"

	"github.com/hupe1980/slotmatch/internal/simd"
)

// Strategy selects how matching is computed.
type Strategy uint8

const (
	// Auto picks the widest serial strategy the CPU supports.
	Auto Strategy = iota
	Scalar
	Word64
	SIMD128
	SIMD256
	Multicore
	GPU
	Indexed
)

var strategyNames = [...]string{
	Auto:      "auto",
	Scalar:    "scalar",
	Word64:    "word64",
	SIMD128:   "simd128",
	SIMD256:   "simd256",
	Multicore: "multicore",
	GPU:       "gpu",
	Indexed:   "indexed",
}

// Names used by earlier command-line tools.
var strategyAliases = map[string]Strategy{
	"plain":   Scalar,
	"int64":   Word64,
	"sse":     SIMD128,
	"avx2":    SIMD256,
	"threads": Multicore,
	"hip":     GPU,
	"roaring": Indexed,
}

// Strategies returns every concrete strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{Scalar, Word64, SIMD128, SIMD256, Multicore, GPU, Indexed}
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return int(s) < len(strategyNames)
}

// ParseStrategy parses a strategy name. Matching is case-insensitive.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range strategyNames {
		if s == n {
			return Strategy(i), nil
		}
	}
	if s, ok := strategyAliases[n]; ok {
		return s, nil
	}
	return 0, &UnknownStrategyError{Name: name}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &UnknownStrategyError{Name: s.String()}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Resolve maps Auto to a concrete serial strategy for the active ISA.
func (s Strategy) Resolve() Strategy {
	if s != Auto {
		return s
	}
	switch simd.PreferredWidth() {
	case 256:
		return SIMD256
	case 128:
		return SIMD128
	default:
		return Word64
	}
}
