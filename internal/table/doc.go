// Package table implements the on-disk format for mask datasets.
//
// A table is a sequence of fixed-size records (users or events) grouped
// into blocks. Each block is independently compressed and checksummed so
// a reader can fetch and decode only the blocks covering a requested
// record range.
//
// Layout (little endian):
//
//	header   magic "SLTB" | version u16 | kind u8 | compression u8 | mask size u32 | block records u32
//	blocks   codec u8 | reserved [3]u8 | raw len u32 | stored len u32 | xxhash64 u64 | payload
//	index    one u64 offset per block
//	trailer  record count u64 | index offset u64 | block count u32 | magic "BTLS"
//
// Event records are an 8-byte id followed by the mask; user records are
// the mask alone.
package table
