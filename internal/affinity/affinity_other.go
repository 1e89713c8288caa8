//go:build !linux

package affinity

// PinCurrentThread is a no-op outside Linux.
func PinCurrentThread(cpu int) error { return nil }

// Available reports whether affinity pinning is supported on this platform.
func Available() bool { return false }
