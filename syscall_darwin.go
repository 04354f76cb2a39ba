package dircap

import (
	"bytes"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// Darwin has no O_PATH; opening the directory read-only is the closest
	// the platform offers for descending into intermediate path components
	// without following symbolic links.
	openPathFlags = unix.O_DIRECTORY | unix.O_NOFOLLOW

	openDirFlags = unix.O_DIRECTORY

	// Without O_PATH, Stat has to open the file for reading; O_NONBLOCK
	// prevents the open from parking the caller on a fifo.
	openStatFlags = unix.O_RDONLY | unix.O_NONBLOCK
)

// openedSymlink reports whether fd references a symbolic link itself. Darwin
// has no O_PATH, every open that would land on a link fails with ELOOP or
// ENOTDIR instead of succeeding, so the answer is always no.
func openedSymlink(fd int, flags OpenFlags) (bool, error) {
	return false, nil
}

// filePath recovers a file system path for an open file descriptor using
// fcntl(F_GETPATH). The result is advisory: it reflects one name the file had
// at the time of the call and must be re-validated by whoever acts on it.
func filePath(fd int) (string, error) {
	var buf [unix.MAXPATHLEN]byte
	_, _, errno := unix.Syscall(
		unix.SYS_FCNTL,
		uintptr(fd),
		uintptr(unix.F_GETPATH),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if errno != 0 {
		return "", errno
	}
	path := buf[:]
	if i := bytes.IndexByte(path, 0); i >= 0 {
		path = path[:i]
	}
	if len(path) == 0 || path[0] != '/' {
		return "", EINVAL
	}
	return string(path), nil
}
