// Package mask implements the 336-slot availability bitmask and its
// in-memory representations.
//
// A Mask is 42 bytes. Slot i is bit i&7 (least significant first) of
// byte i>>3, which is also the wire format stored by the data sources.
//
// The same bytes can be viewed as:
//
//   - Mask: the raw byte array, checked byte by byte
//   - Words: five little-endian uint64 words plus a uint16 tail
//   - Lanes128: three 128-bit lanes at offsets 0, 16 and 26
//   - Lanes256: one 256-bit lane at offset 0 and a 128-bit lane at offset 26
//
// The lane layouts overlap (bytes 26..31 are covered twice) so that every
// one of the 336 bits is checked by at least one full-width lane load.
//
// Every representation answers the same question: is a capability mask a
// superset of a requirement mask, i.e. (capability & requirement) == requirement.
package mask
