package dircap

import (
	"io/fs"
	"os"

	"github.com/stealthrocket/dircap/fspath"
	"golang.org/x/sys/unix"
)

// openParent splits name into (resolved parent directory, leaf name). The
// parent is resolved through the sandbox with trailing symbolic links
// followed; the leaf is returned as a plain name and never resolved, so the
// terminal syscall operates on a (handle, name) pair with no window between
// locating the target and acting on it.
//
// When the last component is not a plain name (".", ".." or empty), the whole
// path is resolved as a directory and the leaf becomes ".", which terminal
// syscalls either treat as the directory itself or reject.
func (r *Root) openParent(name string) (int, string, error) {
	dir, base := fspath.SplitBase(name)
	switch base {
	case "", ".", "..":
		fd, err := r.resolve(name, OpenFlags(openDirFlags), 0)
		return fd, ".", err
	}
	if dir == "" {
		dir = "."
	}
	fd, err := r.resolve(dir, OpenFlags(openDirFlags), 0)
	return fd, base, err
}

// Mkdir creates a directory beneath the root. The mode sets the permissions
// of the new directory.
func (r *Root) Mkdir(name string, mode fs.FileMode) error {
	dirfd, base, err := r.openParent(name)
	if err != nil {
		return pathError("mkdir", name, err)
	}
	defer closeTraceError(dirfd)
	if err := mkdirat(dirfd, base, uint32(mode.Perm())); err != nil {
		return pathError("mkdir", name, err)
	}
	return nil
}

// Rmdir removes an empty directory beneath the root.
func (r *Root) Rmdir(name string) error {
	dirfd, base, err := r.openParent(name)
	if err != nil {
		return pathError("rmdir", name, err)
	}
	defer closeTraceError(dirfd)
	if err := unlinkat(dirfd, base, unix.AT_REMOVEDIR); err != nil {
		return pathError("rmdir", name, err)
	}
	return nil
}

// Unlink removes a file or symbolic link beneath the root. Removing a
// symbolic link removes the link itself, never its target.
func (r *Root) Unlink(name string) error {
	dirfd, base, err := r.openParent(name)
	if err != nil {
		return pathError("unlink", name, err)
	}
	defer closeTraceError(dirfd)
	if err := unlinkat(dirfd, base, 0); err != nil {
		return pathError("unlink", name, err)
	}
	return nil
}

// Symlink creates a symbolic link at newName pointing to oldName. The target
// is stored as given and not required to exist; whether it can be followed is
// decided when the link is resolved, under the usual sandbox rules.
func (r *Root) Symlink(oldName, newName string) error {
	dirfd, base, err := r.openParent(newName)
	if err != nil {
		return pathError("symlink", newName, err)
	}
	defer closeTraceError(dirfd)
	if err := symlinkat(oldName, dirfd, base); err != nil {
		return pathError("symlink", newName, err)
	}
	return nil
}

// Readlink reads the target of the symbolic link at name.
func (r *Root) Readlink(name string) (string, error) {
	dirfd, base, err := r.openParent(name)
	if err != nil {
		return "", pathError("readlink", name, err)
	}
	defer closeTraceError(dirfd)
	target, err := readlink(dirfd, base)
	if err != nil {
		return "", pathError("readlink", name, err)
	}
	return target, nil
}

// Rename moves the file at oldName to newName beneath dst. A nil dst renames
// within r. When dst is a distinct Root it must reference the same underlying
// directory as r, otherwise the operation fails with EXDEV: two different
// subtrees give no single authority the rename could be proven against.
func (r *Root) Rename(oldName string, dst *Root, newName string) error {
	if dst == nil {
		dst = r
	}
	if err := sameRoot(r, dst); err != nil {
		return &os.LinkError{Op: "rename", Old: oldName, New: newName, Err: err}
	}
	olddir, oldbase, err := r.openParent(oldName)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldName, New: newName, Err: unwrapPathError(err)}
	}
	defer closeTraceError(olddir)
	newdir, newbase, err := dst.openParent(newName)
	if err != nil {
		return &os.LinkError{Op: "rename", Old: oldName, New: newName, Err: unwrapPathError(err)}
	}
	defer closeTraceError(newdir)
	if err := renameat(olddir, oldbase, newdir, newbase); err != nil {
		return &os.LinkError{Op: "rename", Old: oldName, New: newName, Err: err}
	}
	return nil
}

// Link creates a hard link at newName beneath dst referencing the file at
// oldName. A nil dst links within r; a distinct dst must reference the same
// underlying directory as r. A symbolic link at oldName is linked itself,
// never followed: following it in the kernel would resolve the target with
// no sandbox applied.
func (r *Root) Link(oldName string, dst *Root, newName string) error {
	if dst == nil {
		dst = r
	}
	if err := sameRoot(r, dst); err != nil {
		return &os.LinkError{Op: "link", Old: oldName, New: newName, Err: err}
	}
	olddir, oldbase, err := r.openParent(oldName)
	if err != nil {
		return &os.LinkError{Op: "link", Old: oldName, New: newName, Err: unwrapPathError(err)}
	}
	defer closeTraceError(olddir)
	newdir, newbase, err := dst.openParent(newName)
	if err != nil {
		return &os.LinkError{Op: "link", Old: oldName, New: newName, Err: unwrapPathError(err)}
	}
	defer closeTraceError(newdir)
	if err := linkat(olddir, oldbase, newdir, newbase, 0); err != nil {
		return &os.LinkError{Op: "link", Old: oldName, New: newName, Err: err}
	}
	return nil
}

// sameRoot proves that two capabilities reference the same underlying
// directory, by file identity rather than by name.
func sameRoot(a, b *Root) error {
	if a == b {
		return nil
	}
	var s1, s2 unix.Stat_t
	if err := fstat(a.fd, &s1); err != nil {
		return err
	}
	if err := fstat(b.fd, &s2); err != nil {
		return err
	}
	if uint64(s1.Dev) != uint64(s2.Dev) || s1.Ino != s2.Ino {
		return EXDEV
	}
	return nil
}
