//go:build linux
// +build linux

// Package affinity pins the current process to a single CPU to reduce
// measurement noise in internal/measure's cycle-count harness (spec.md §5
// names this as a resource-model concern of the Measurer's host). Grounded
// on the teacher's internal/runtime/asyncio build-tagged golang.org/x/sys/unix
// usage pattern (e.g. zerocopy_unix_splice.go).
package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// Pin restricts the calling OS thread to cpu, locking the goroutine to that
// thread first so the affinity mask cannot migrate away under it.
func Pin(cpu int) error {
	if cpu < 0 {
		return kerr.New(kerr.BadConfig, "affinity: cpu must be >= 0, got %d", cpu)
	}

	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return kerr.Wrap(kerr.BadConfig, err, "affinity: SchedSetaffinity(cpu=%d) failed", cpu)
	}
	return nil
}

// Available reports whether CPU-pinning is supported on this platform.
func Available() bool { return true }
