// Package dircap grants directory capabilities: opaque handles that authorize
// file system access rooted at a directory, with the guarantee that no
// operation performed through the handle can observe or mutate anything
// outside of the directory's subtree. Not via ".." components, not via
// symbolic links, and not via concurrent renames racing against resolution.
//
// A Root is an open directory handle with no ambient path authority. Paths
// passed to its methods are always interpreted relative to it; absolute paths
// and escapes are rejected with ErrEscape. Resolution uses the kernel's
// beneath-root primitive when one exists and an equivalent user-space walker
// everywhere else; which backend served a call is not observable.
package dircap

import (
	"io/fs"
	"os"
	"path"

	"golang.org/x/sys/unix"
)

// Root is a directory capability. The zero value is not usable; construct
// values with OpenRoot or derive them from an existing Root.
//
// A Root owns its directory handle until Close is called. Methods may be
// invoked concurrently from multiple goroutines, except SetRejectDotDot which
// must be called before the Root is shared.
type Root struct {
	fd           int
	name         string // advisory, used in error messages only
	res          *resolver
	rejectDotDot bool
}

// OpenRoot opens the directory at path and returns a capability granting
// access to the file system subtree rooted at it. The path is resolved with
// the ambient authority of the calling process; this is the only moment where
// an absolute path is accepted.
func OpenRoot(path string) (*Root, error) {
	fd, err := openat(unix.AT_FDCWD, path, openDirFlags, 0)
	if err != nil {
		return nil, pathError("open", path, err)
	}
	return &Root{fd: fd, name: path, res: &defaultResolver}, nil
}

// OpenRoot derives a capability for a directory beneath r. The returned Root
// holds an independent handle and inherits the ".." policy of r.
func (r *Root) OpenRoot(name string) (*Root, error) {
	fd, err := r.resolve(name, OpenFlags(openDirFlags), 0)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	return &Root{
		fd:           fd,
		name:         path.Join(r.name, name),
		res:          r.res,
		rejectDotDot: r.rejectDotDot,
	}, nil
}

// SetRejectDotDot selects the policy applied to ".." path components. By
// default a ".." that stays within the part of the subtree already descended
// into is resolved by stepping back to the previous directory, and only
// ascending past the root is an escape. With reject set, any ".." component
// fails with ErrEscape, whether it comes from the caller's path or from a
// symbolic link target.
//
// The policy must be configured before the Root is used concurrently.
func (r *Root) SetRejectDotDot(reject bool) {
	r.rejectDotDot = reject
}

// Name returns the path the Root was opened with. The value is advisory: it
// is not part of the capability's identity and is never trusted during
// resolution.
func (r *Root) Name() string {
	return r.name
}

// Close releases the directory handle. Operations on a closed Root fail with
// EBADF.
func (r *Root) Close() error {
	fd := r.fd
	r.fd = -1
	if fd >= 0 {
		return unix.Close(fd)
	}
	return nil
}

// Open resolves name beneath the root and opens it with the given flags and,
// when the flags request creation, permission mode.
//
// The trailing path component follows symbolic links unless O_NOFOLLOW is
// set; intermediate components always resolve through the sandbox. The error
// is ErrEscape if the path or any symbolic link met during resolution leaves
// the root's subtree, ErrSymlinkLoop if the symbolic link expansion budget is
// exceeded, and an ordinary *fs.PathError otherwise.
func (r *Root) Open(name string, flags OpenFlags, mode fs.FileMode) (*os.File, error) {
	fd, err := r.resolve(name, flags, mode)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	return os.NewFile(uintptr(fd), path.Join(r.name, name)), nil
}
