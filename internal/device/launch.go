package device

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dim3 is a grid or block extent, or an index inside one.
type Dim3 struct {
	X, Y, Z int
}

// Dim returns a two-dimensional extent with Z = 1.
func Dim(x, y int) Dim3 {
	return Dim3{X: x, Y: y, Z: 1}
}

// Count returns X*Y*Z.
func (d Dim3) Count() int {
	return d.X * d.Y * d.Z
}

func (d Dim3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", d.X, d.Y, d.Z)
}

func (d Dim3) unflatten(i int) Dim3 {
	return Dim3{
		X: i % d.X,
		Y: (i / d.X) % d.Y,
		Z: i / (d.X * d.Y),
	}
}

// Kernel is executed once per block of a launch.
type Kernel func(b *Block)

// Block is the execution context of one thread block.
type Block struct {
	Idx  Dim3 // blockIdx
	Dim  Dim3 // blockDim
	Grid Dim3 // gridDim

	// Shared is the block's shared memory, zeroed before the block starts.
	Shared []int32
}

// Threads runs fn for every thread of the block. All threads finish the
// phase before Threads returns, so consecutive calls are separated by a
// block-wide barrier.
func (b *Block) Threads(fn func(t Dim3)) {
	for z := 0; z < b.Dim.Z; z++ {
		for y := 0; y < b.Dim.Y; y++ {
			for x := 0; x < b.Dim.X; x++ {
				fn(Dim3{X: x, Y: y, Z: z})
			}
		}
	}
}

// GlobalX returns blockIdx.x*blockDim.x + t.X.
func (b *Block) GlobalX(t Dim3) int {
	return b.Idx.X*b.Dim.X + t.X
}

// GlobalY returns blockIdx.y*blockDim.y + t.Y.
func (b *Block) GlobalY(t Dim3) int {
	return b.Idx.Y*b.Dim.Y + t.Y
}

// Launch validates the configuration and enqueues kernel on the session's
// stream. Configuration errors are returned immediately; faults raised
// while the kernel runs are reported by Synchronize.
func (s *Session) Launch(grid, block Dim3, sharedWords int, kernel Kernel) error {
	if err := s.checkOpen(); err != nil {
		return opError("launch", err)
	}
	if err := s.dev.validateLaunch(grid, block, sharedWords); err != nil {
		return opError("launch", err)
	}
	if kernel == nil {
		return opError("launch", fmt.Errorf("%w: nil kernel", ErrInvalidLaunch))
	}

	s.enqueue("kernel", func() error {
		start := time.Now()
		err := s.dev.runGrid(grid, block, sharedWords, kernel)
		s.dev.logger.Debug("kernel finished",
			"grid", grid.String(), "block", block.String(),
			"duration", time.Since(start), "error", err)
		return err
	})
	return nil
}

func (d *Device) validateLaunch(grid, block Dim3, sharedWords int) error {
	if block.X <= 0 || block.Y <= 0 || block.Z <= 0 {
		return fmt.Errorf("%w: block %s", ErrInvalidLaunch, block)
	}
	if grid.X <= 0 || grid.Y <= 0 || grid.Z <= 0 {
		return fmt.Errorf("%w: grid %s", ErrInvalidLaunch, grid)
	}
	if threads := block.Count(); threads > d.cfg.MaxThreadsPerBlock {
		return fmt.Errorf("%w: %d threads per block, limit %d",
			ErrInvalidLaunch, threads, d.cfg.MaxThreadsPerBlock)
	}
	if grid.X > math.MaxInt32 || grid.Y > d.cfg.MaxGridY || grid.Z > d.cfg.MaxGridY {
		return fmt.Errorf("%w: grid %s exceeds limits", ErrInvalidLaunch, grid)
	}
	if sharedWords < 0 || sharedWords*4 > d.cfg.SharedMemoryBytes {
		return fmt.Errorf("%w: %d bytes shared memory, limit %d",
			ErrInvalidLaunch, sharedWords*4, d.cfg.SharedMemoryBytes)
	}
	return nil
}

// runGrid executes every block. Workers pull block indices from a shared
// counter; the first fault stops the remaining blocks from starting.
func (d *Device) runGrid(grid, block Dim3, sharedWords int, kernel Kernel) error {
	total := grid.Count()
	workers := min(d.cfg.Workers, total)

	g, ctx := errgroup.WithContext(context.Background())
	var next atomic.Int64

	for range workers {
		g.Go(func() error {
			b := &Block{
				Dim:    block,
				Grid:   grid,
				Shared: make([]int32, sharedWords),
			}
			for ctx.Err() == nil {
				i := int(next.Add(1) - 1)
				if i >= total {
					return nil
				}
				b.Idx = grid.unflatten(i)
				clear(b.Shared)
				if err := runBlock(kernel, b); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func runBlock(kernel Kernel, b *Block) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: block %s: %v", ErrKernelFault, b.Idx, r)
		}
	}()
	kernel(b)
	return nil
}
