// Package engine matches events against users.
//
// An event matches a user when the user's capability mask is a superset
// of the event's requirement mask. For every event the engine counts the
// matching users. Several strategies compute the same result:
//
//   - Scalar: byte-wise comparison
//   - Word64: five 64-bit words plus a 16-bit tail
//   - SIMD128 / SIMD256: lane-wise AND + compare
//   - Multicore: SIMD256 over equal event pages in parallel
//   - GPU: pairwise kernel + block reduction on an internal/device.Device
//   - Indexed: per-slot roaring bitmaps of users, intersected per event
//
// All strategies report every event id exactly once, including events
// with no matching users.
package engine
