package simd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Backend names one of the lane implementations.
type Backend int

const (
	BackendFallback Backend = iota
	BackendSSE2
	BackendAVX
)

var backendNames = [...]string{"fallback", "sse2", "avx"}

func (b Backend) String() string {
	if b < 0 || int(b) >= len(backendNames) {
		return fmt.Sprintf("backend(%d)", int(b))
	}
	return backendNames[b]
}

// ParseBackend is the inverse of Backend.String; matching is case-insensitive.
func ParseBackend(s string) (Backend, error) {
	for i, n := range backendNames {
		if strings.EqualFold(s, n) {
			return Backend(i), nil
		}
	}
	return BackendFallback, fmt.Errorf("unknown backend %q (want one of %s)", s, strings.Join(backendNames[:], ", "))
}

// Lanes returns the number of float64 lanes of the backend.
func (b Backend) Lanes() int {
	if b == BackendAVX {
		return 4
	}
	return 2
}

// Detect picks the widest backend the features allow. NEON is 128 bits wide,
// so it maps to the two-lane backend.
func Detect(f cpu.Features) Backend {
	switch {
	case cpu.Supports(f, cpu.SIMDAVX):
		return BackendAVX
	case cpu.Supports(f, cpu.SIMDSSE2), cpu.Supports(f, cpu.SIMDNEON):
		return BackendSSE2
	}
	return BackendFallback
}

var best = sync.OnceValue(func() Backend { return Detect(cpu.DetectFeatures()) })

// Best returns the backend for the running CPU. Detection happens once per
// process.
func Best() Backend { return best() }
