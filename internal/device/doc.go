// Package device emulates a data-parallel accelerator on the host CPU.
//
// The model follows the usual GPU programming interface closely enough
// that kernels read like their device counterparts:
//
//   - A Device has a memory budget, a copy bandwidth and launch limits.
//   - A Session owns a stream and every buffer allocated through it.
//     Closing the session drains the stream and frees each buffer exactly
//     once, on success and error paths alike.
//   - Buffer[T] is a typed device allocation; HostBuffer is pinned
//     (mlock'ed) staging memory.
//   - Launch enqueues a kernel over a grid of blocks. Blocks run
//     concurrently; within a block, Block.Threads runs one phase for every
//     thread and returning from it is the __syncthreads barrier.
//   - Synchronize is the device barrier. A failed kernel poisons the
//     session's stream: later work is skipped and the error is sticky.
//
// All failures satisfy errors.Is(err, ErrDevice).
package device
