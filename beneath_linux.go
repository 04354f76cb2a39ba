package dircap

import (
	"golang.org/x/sys/unix"
)

// Linux 5.6 and later expose openat2(2), whose RESOLVE_BENEATH flag performs
// the entire multi-component resolution atomically in the kernel, with the
// exact containment property this package enforces. On older kernels, and
// under seccomp policies that filter the syscall, resolution falls back to
// the manual walker.
const openat2Retries = 4

func (rv *resolver) openBeneath(dirfd int, path string, flags OpenFlags, mode uint32) (int, error) {
	if rv.nativeUnsupported.Load() {
		return -1, errUnsupported
	}

	how := unix.OpenHow{
		Flags:   uint64(flags.sysFlags()) | unix.O_CLOEXEC,
		Resolve: unix.RESOLVE_BENEATH | unix.RESOLVE_NO_MAGICLINKS,
	}
	if (flags & O_CREAT) != 0 {
		how.Mode = uint64(mode) & 0o7777
	}

	// openat2 aborts with EAGAIN when a rename happens anywhere on the host
	// while it is resolving, so the identical call is reissued a few times.
	// The bound is a guess: there is no limit on how often renames occur,
	// and the walker handles the rare case where every attempt loses.
	for i := 0; i < openat2Retries; i++ {
		fd, err := ignoreEINTR2(func() (int, error) {
			return unix.Openat2(dirfd, path, &how)
		})
		switch err {
		case nil:
			return fd, nil
		case EAGAIN:
			continue
		case EXDEV:
			// The kernel stopped a resolution that was about to cross into
			// a different file system or out of the subtree. This is an
			// escape caught in the act, not an I/O failure.
			return -1, ErrEscape
		case EPERM:
			// Some seccomp policies reject specific openat2 call shapes
			// with EPERM while the syscall itself works, so this call falls
			// back without flagging the primitive as missing.
			return -1, errUnsupported
		case ENOSYS:
			rv.nativeUnsupported.Store(true)
			return -1, errUnsupported
		case ELOOP:
			// Without O_NOFOLLOW the kernel only reports ELOOP when the
			// expansion budget ran out; with it, ELOOP is the ordinary
			// refusal to follow a trailing symbolic link.
			if (flags & O_NOFOLLOW) == 0 {
				return -1, ErrSymlinkLoop
			}
			return -1, err
		default:
			return -1, err
		}
	}
	return -1, errUnsupported
}
