//go:build !linux

package dircap

// No atomic beneath-root resolution primitive exists on this platform; every
// call resolves through the manual walker.
func (rv *resolver) openBeneath(dirfd int, path string, flags OpenFlags, mode uint32) (int, error) {
	return -1, errUnsupported
}
