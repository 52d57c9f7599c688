//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func init() {
	detected = Features{SSE2: cpu.X86.HasSSE2, AVX2: cpu.X86.HasAVX2}
	initCapabilities()
}
