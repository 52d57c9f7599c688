package engine

import (
	"github.com/hupe1980/slotmatch/internal/device"
	"github.com/hupe1980/slotmatch/mask"
)

// pairwiseKernel writes matrix[row*users+u] = 1 when user u covers event
// base+row, else 0. Grid: (ceil(users/blockDim.x), rows).
func pairwiseKernel(events, users *device.Buffer[byte], matrix *device.Buffer[int32], base, rows, nUsers int) device.Kernel {
	ev, us, mx := events.Data(), users.Data(), matrix.Data()

	return func(b *device.Block) {
		row := b.Idx.Y
		if row >= rows {
			return
		}
		req := ev[(base+row)*mask.Size : (base+row+1)*mask.Size]
		out := mx[row*nUsers : (row+1)*nUsers]

		b.Threads(func(t device.Dim3) {
			u := b.GlobalX(t)
			if u >= nUsers {
				return
			}
			capability := us[u*mask.Size : (u+1)*mask.Size]
			var hit int32 = 1
			for i, r := range req {
				if capability[i]&r != r {
					hit = 0
					break
				}
			}
			out[u] = hit
		})
	}
}

// reduceKernel sums each matrix row into counts[base+row]. Every block
// reduces blockDim.x cells in shared memory and adds its partial sum with
// one atomic add.
func reduceKernel(matrix, counts *device.Buffer[int32], base, rows, nUsers int) device.Kernel {
	mx := matrix.Data()

	return func(b *device.Block) {
		row := b.Idx.Y
		if row >= rows {
			return
		}
		cells := mx[row*nUsers : (row+1)*nUsers]
		sh := b.Shared

		b.Threads(func(t device.Dim3) {
			if u := b.GlobalX(t); u < nUsers {
				sh[t.X] = cells[u]
			} else {
				sh[t.X] = 0
			}
		})
		for stride := b.Dim.X / 2; stride > 0; stride >>= 1 {
			b.Threads(func(t device.Dim3) {
				if t.X < stride {
					sh[t.X] += sh[t.X+stride]
				}
			})
		}
		b.Threads(func(t device.Dim3) {
			if t.X == 0 && sh[0] != 0 {
				device.AtomicAdd(counts, base+row, sh[0])
			}
		})
	}
}
