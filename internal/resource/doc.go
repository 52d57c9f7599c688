// Package resource implements the Controller used to govern emulated device
// resources.
//
// The Controller manages two resource types:
//
//   - Memory: track and limit device memory (non-blocking, fail-fast)
//   - Transfer: rate-limit host/device copies (token bucket)
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory is non-blocking and returns
// ErrMemoryLimitExceeded immediately if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB device
//	})
//
//	if err := rc.AcquireMemory(n); err != nil {
//	    // out of device memory
//	}
//	defer rc.ReleaseMemory(n)
//
// # Transfer Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    TransferBytesPerSec: 8 << 30, // emulate ~8GB/s
//	})
//
//	if err := rc.AcquireTransfer(ctx, len(buf)); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
