// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation for device buffers and for staging
// memory on platforms without anonymous mappings.
package mem
