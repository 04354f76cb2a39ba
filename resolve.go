package dircap

import (
	"io/fs"
	"sync/atomic"

	"github.com/stealthrocket/dircap/fspath"
)

// resolver carries the process-wide knowledge used to pick a resolution
// backend. The zero value tries the native primitive first. Root values share
// the package-level instance; tests may plant their own to observe or force
// backend selection without depending on process lifetime.
type resolver struct {
	// nativeUnsupported records that the running kernel does not implement
	// the native beneath-root resolution primitive. The transition is
	// one-way: a kernel does not grow or lose syscalls while the process
	// runs, so relaxed atomic accesses are enough and a racing store is
	// idempotent.
	nativeUnsupported atomic.Bool
}

var defaultResolver resolver

// resolve turns (capability, relative path, open intent) into an open file
// descriptor strictly inside the capability's subtree, or an error. The
// native backend is consulted first and the manual walker picks up whenever
// the native primitive is unavailable; callers never observe which backend
// served them.
func (r *Root) resolve(name string, flags OpenFlags, mode fs.FileMode) (int, error) {
	if name == "" {
		return -1, ENOENT
	}
	if fspath.IsAbs(name) {
		return -1, ErrEscape
	}
	flags = flags.normalize()
	if r.rejectDotDot && fspath.HasDotDot(name) {
		return -1, ErrEscape
	}

	// The native primitive resolves ".." against the directories already
	// traversed, which is exactly the default policy; under the strict
	// policy the walker is the only backend implementing the configured
	// semantics, because symbolic link targets may smuggle in ".."
	// components the prescan above cannot see.
	if !r.rejectDotDot {
		fd, err := r.res.openBeneath(r.fd, name, flags, uint32(mode.Perm()))
		if err == nil {
			r.checkOpen(name, flags, fd)
			return fd, nil
		}
		if err != errUnsupported {
			return -1, err
		}
	}
	return r.walk(name, flags, uint32(mode.Perm()))
}
