package dircap

import (
	"errors"
	"io/fs"
)

var (
	// ErrEscape is reported when resolving a path would reach a location
	// outside of the root directory's subtree, whether through a parent
	// directory reference, a symbolic link, or an absolute path. Callers
	// must not treat it as an ordinary lookup failure: it means a sandbox
	// violation was detected and blocked.
	ErrEscape = errors.New("path escapes from the root directory")

	// ErrSymlinkLoop is reported when resolving a path expanded more
	// symbolic links than the MaxSymlinks budget allows, which is how both
	// accidental cycles and adversarial expansion chains are cut short.
	ErrSymlinkLoop = errors.New("too many levels of symbolic links")

	// ErrReopen is reported by Reopen when no file system path could be
	// recovered for the handle, or when the recovered path did not reference
	// the same file anymore by the time it was opened again.
	ErrReopen = errors.New("could not reopen file")
)

// errUnsupported indicates that the native resolution primitive is not usable
// for a call; it never escapes this package, the resolver always absorbs it
// by falling back to the manual walker.
var errUnsupported = errors.New("native resolution unsupported")

// pathError wraps err in a *fs.PathError, flattening errors that were already
// wrapped so the sentinel or errno stays directly behind a single layer.
func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: unwrapPathError(err)}
}

func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
