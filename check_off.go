//go:build !dircapcheck

package dircap

// The cross-check of native against manual resolution only exists in builds
// with the dircapcheck tag; the production call path carries no cost.
func (r *Root) checkOpen(name string, flags OpenFlags, fd int) {}
