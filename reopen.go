package dircap

import (
	"os"

	"golang.org/x/sys/unix"
)

// Reopen opens a new, independent handle for the file referenced by f with a
// different set of open flags. The platform is asked to recover a path for
// the handle, the path is opened again, and the new handle is accepted only
// if it still references the same file; any other outcome fails with
// ErrReopen, the original handle is never returned with altered semantics.
//
// Creation flags are rejected: a reopen targets a file that exists by
// definition.
func Reopen(f *os.File, flags OpenFlags) (*os.File, error) {
	if (flags & (O_CREAT | O_EXCL)) != 0 {
		return nil, pathError("reopen", f.Name(), EINVAL)
	}
	fd := int(f.Fd())

	var before unix.Stat_t
	if err := fstat(fd, &before); err != nil {
		return nil, pathError("reopen", f.Name(), err)
	}
	path, err := filePath(fd)
	if err != nil {
		return nil, pathError("reopen", f.Name(), ErrReopen)
	}

	// The recovered path is advisory. Truncation is deferred until the new
	// handle is proven to reference the same file, otherwise a stale path
	// could destroy an unrelated file's content.
	truncate := (flags & O_TRUNC) != 0
	newfd, err := openat(unix.AT_FDCWD, path, (flags &^ O_TRUNC).sysFlags(), 0)
	if err != nil {
		return nil, pathError("reopen", f.Name(), ErrReopen)
	}

	var after unix.Stat_t
	if err := fstat(newfd, &after); err != nil {
		closeTraceError(newfd)
		return nil, pathError("reopen", f.Name(), err)
	}
	if uint64(before.Dev) != uint64(after.Dev) || before.Ino != after.Ino {
		closeTraceError(newfd)
		return nil, pathError("reopen", f.Name(), ErrReopen)
	}
	if truncate {
		if err := ftruncate(newfd, 0); err != nil {
			closeTraceError(newfd)
			return nil, pathError("reopen", f.Name(), err)
		}
	}
	return os.NewFile(uintptr(newfd), f.Name()), nil
}
