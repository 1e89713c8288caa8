//go:build linux

// Package affinity pins the calling OS thread to a specific CPU core, best
// effort, so a benchmark run isn't at the mercy of the scheduler bouncing a
// hot sieving goroutine between cores. Grounded on the affinity-pinning
// shape used for the ring consumer goroutine in evm_triarb's ring package.
package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinCurrentThread locks the calling goroutine to its current OS thread and
// restricts that thread's scheduling affinity to cpu.
func PinCurrentThread(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}

// Available reports whether affinity pinning is supported on this platform.
func Available() bool { return true }
