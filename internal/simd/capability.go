package simd

import (
	"os"
	"strings"
)

// OverrideEnv names the environment variable that forces an ISA.
const OverrideEnv = "SLOTMATCH_SIMD"

// ISA is the vector unit lane operations are sized for.
type ISA uint8

const (
	// Generic is word-at-a-time code without a vector unit.
	Generic ISA = iota
	// SSE2 is the x86-64 baseline 128-bit unit.
	SSE2
	// NEON is the ARM64 128-bit unit (ASIMD).
	NEON
	// AVX2 is the x86-64 256-bit unit.
	AVX2
)

func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case SSE2:
		return "sse2"
	case NEON:
		return "neon"
	case AVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

// ParseISA parses the name printed by String.
func ParseISA(s string) (ISA, bool) {
	for _, isa := range []ISA{Generic, SSE2, NEON, AVX2} {
		if strings.EqualFold(strings.TrimSpace(s), isa.String()) {
			return isa, true
		}
	}
	return Generic, false
}

// Width returns the register width in bits.
func (i ISA) Width() int {
	switch i {
	case SSE2, NEON:
		return 128
	case AVX2:
		return 256
	default:
		return 64
	}
}

// Features lists the vector units the CPU reports.
type Features struct {
	SSE2 bool
	NEON bool
	AVX2 bool
}

// Has reports whether isa can run on a CPU with these features.
func (f Features) Has(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case SSE2:
		return f.SSE2
	case NEON:
		return f.NEON
	case AVX2:
		return f.AVX2
	default:
		return false
	}
}

// Best returns the widest available ISA.
func (f Features) Best() ISA {
	switch {
	case f.AVX2:
		return AVX2
	case f.SSE2:
		return SSE2
	case f.NEON:
		return NEON
	default:
		return Generic
	}
}

// Set once by the platform init.
var (
	detected   Features
	activeISA  ISA
	overridden bool
)

func initCapabilities() {
	activeISA, overridden = selectISA(detected, os.Getenv(OverrideEnv))
}

// selectISA honours an override only if it names an ISA the CPU has;
// anything else falls back to the best detected one.
func selectISA(f Features, override string) (ISA, bool) {
	if override != "" {
		if isa, ok := ParseISA(override); ok && f.Has(isa) {
			return isa, true
		}
	}
	return f.Best(), false
}

// Detected returns the features found at startup.
func Detected() Features { return detected }

// ActiveISA returns the ISA selected at startup.
func ActiveISA() ISA { return activeISA }

// IsOverridden reports whether SLOTMATCH_SIMD selected the active ISA.
func IsOverridden() bool { return overridden }

// PreferredWidth returns the lane width (64, 128 or 256 bits) of the
// active ISA.
func PreferredWidth() int { return activeISA.Width() }
