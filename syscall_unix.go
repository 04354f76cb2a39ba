package dircap

import (
	"fmt"
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

const (
	EACCES       = unix.EACCES
	EAGAIN       = unix.EAGAIN
	EBADF        = unix.EBADF
	EBUSY        = unix.EBUSY
	EEXIST       = unix.EEXIST
	EINVAL       = unix.EINVAL
	EINTR        = unix.EINTR
	EISDIR       = unix.EISDIR
	ELOOP        = unix.ELOOP
	EMLINK       = unix.EMLINK
	ENAMETOOLONG = unix.ENAMETOOLONG
	ENOENT       = unix.ENOENT
	ENOSYS       = unix.ENOSYS
	ENOTDIR      = unix.ENOTDIR
	ENOTEMPTY    = unix.ENOTEMPTY
	EPERM        = unix.EPERM
	EROFS        = unix.EROFS
	EXDEV        = unix.EXDEV
)

const (
	// PATH_MAX bounds the buffers used to read symbolic link targets.
	PATH_MAX = 4096
)

// This function is used to automatically retry syscalls when they return
// EINTR due to having handled a signal instead of executing.
func ignoreEINTR(f func() error) error {
	for {
		if err := f(); err != EINTR {
			return err
		}
	}
}

func ignoreEINTR2[F func() (R, error), R any](f F) (R, error) {
	for {
		v, err := f()
		if err != EINTR {
			return v, err
		}
	}
}

func closeTraceError(fd int) {
	if err := unix.Close(fd); err != nil {
		fmt.Fprintf(os.Stderr, "close(%d) => %s\n", fd, err)
		debug.PrintStack()
	}
}

func openat(dirfd int, path string, flags int, mode uint32) (int, error) {
	return ignoreEINTR2(func() (int, error) {
		return unix.Openat(dirfd, path, flags|unix.O_CLOEXEC, mode)
	})
}

func readlinkat(dirfd int, path string, buf []byte) (int, error) {
	return ignoreEINTR2(func() (int, error) { return unix.Readlinkat(dirfd, path, buf) })
}

func fstat(fd int, stat *unix.Stat_t) error {
	return ignoreEINTR(func() error { return unix.Fstat(fd, stat) })
}

func fstatat(dirfd int, path string, stat *unix.Stat_t, flags int) error {
	return ignoreEINTR(func() error { return unix.Fstatat(dirfd, path, stat, flags) })
}

func ftruncate(fd int, size int64) error {
	return ignoreEINTR(func() error { return unix.Ftruncate(fd, size) })
}

func mkdirat(dirfd int, path string, mode uint32) error {
	return ignoreEINTR(func() error { return unix.Mkdirat(dirfd, path, mode) })
}

func linkat(olddirfd int, oldpath string, newdirfd int, newpath string, flags int) error {
	return ignoreEINTR(func() error { return unix.Linkat(olddirfd, oldpath, newdirfd, newpath, flags) })
}

func symlinkat(target string, dirfd int, path string) error {
	return ignoreEINTR(func() error { return unix.Symlinkat(target, dirfd, path) })
}

func unlinkat(dirfd int, path string, flags int) error {
	return ignoreEINTR(func() error { return unix.Unlinkat(dirfd, path, flags) })
}

func renameat(olddirfd int, oldpath string, newdirfd int, newpath string) error {
	return ignoreEINTR(func() error { return unix.Renameat(olddirfd, oldpath, newdirfd, newpath) })
}

// readlink reads the target of the symbolic link at path relative to dirfd,
// growing the buffer as needed up to PATH_MAX.
func readlink(dirfd int, path string) (string, error) {
	b := make([]byte, 256)
	for {
		n, err := readlinkat(dirfd, path, b)
		if err != nil {
			return "", err
		}
		if n < len(b) {
			return string(b[:n]), nil
		}
		if len(b) > PATH_MAX {
			return "", ENAMETOOLONG
		}
		b = make([]byte, 2*len(b))
	}
}
