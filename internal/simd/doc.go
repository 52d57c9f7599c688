// Package simd provides fixed-width lane operations and CPU feature detection.
//
// # Supported Platforms
//
//   - x86-64: AVX2, SSE2
//   - ARM64: NEON
//
// Runtime CPU feature detection records the widest available ISA, which
// decides what the Auto strategy runs. Set SLOTMATCH_SIMD to force a
// narrower one (e.g. "generic" or "sse2").
//
// # Operations
//
//   - Lanes: Vec128, Vec256 with Load, And, CmpEqMask, AllEqual
//   - Dispatch: Detected, ActiveISA, PreferredWidth
//
// Lane compares follow the cmpeq + movemask pattern: a per-byte equality
// mask is computed and compared against all ones, so a lane is "equal"
// only when every byte matches.
package simd
