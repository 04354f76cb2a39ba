package dircap

import (
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	// openPathFlags is how the manual walker steps into intermediate path
	// components: the descent must stop on anything that is not a directory,
	// and must never let the kernel follow a symbolic link on its own.
	openPathFlags = unix.O_PATH | unix.O_DIRECTORY | unix.O_NOFOLLOW

	// openDirFlags opens a directory handle meant to be used as the dirfd
	// argument of *at syscalls, following a trailing symbolic link through
	// the sandboxed resolver.
	openDirFlags = unix.O_PATH | unix.O_DIRECTORY

	// openStatFlags opens a handle good enough to fstat but nothing else,
	// which lets Stat inspect files the process cannot read.
	openStatFlags = unix.O_PATH
)

// openedSymlink reports whether fd references a symbolic link itself rather
// than a resolved file. Only O_PATH opens can produce such a handle: with
// O_NOFOLLOW they succeed on the link instead of failing with ELOOP, so the
// walker must detect the case by inspecting what it opened.
func openedSymlink(fd int, flags OpenFlags) (bool, error) {
	if (flags & OpenFlags(unix.O_PATH)) == 0 {
		return false, nil
	}
	var stat unix.Stat_t
	if err := fstat(fd, &stat); err != nil {
		return false, err
	}
	return (stat.Mode & unix.S_IFMT) == unix.S_IFLNK, nil
}

// filePath recovers a file system path for an open file descriptor from the
// proc file system. The result is advisory: it reflects one name the file had
// at the time of the call and must be re-validated by whoever acts on it.
func filePath(fd int) (string, error) {
	var buf [PATH_MAX]byte
	n, err := ignoreEINTR2(func() (int, error) {
		return unix.Readlink("/proc/self/fd/"+strconv.Itoa(fd), buf[:])
	})
	if err != nil {
		return "", err
	}
	if n >= len(buf) {
		return "", ENAMETOOLONG
	}
	path := string(buf[:n])
	// The link target is not a path when the descriptor does not reference
	// an entry in a file system (pipes, sockets, dropped mounts, ...).
	if len(path) == 0 || path[0] != '/' {
		return "", EINVAL
	}
	return path, nil
}
