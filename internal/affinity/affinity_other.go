//go:build !linux
// +build !linux

package affinity

import "github.com/cryptopt-go/cryptopt/internal/kerr"

// Pin is a no-op on non-Linux platforms: SchedSetaffinity has no portable
// equivalent, so measurement noise reduction there is left to the host OS.
func Pin(cpu int) error {
	if cpu < 0 {
		return kerr.New(kerr.BadConfig, "affinity: cpu must be >= 0, got %d", cpu)
	}
	return nil
}

// Available reports whether CPU-pinning is supported on this platform.
func Available() bool { return false }
