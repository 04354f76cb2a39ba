package dircap

import (
	"github.com/stealthrocket/dircap/fspath"
)

// MaxSymlinks is the number of symbolic link expansions permitted while
// resolving a single path, matching the limit Linux applies to its own
// resolution. The budget is shared by the whole resolution rather than
// counted per component, which bounds adversarial expansion chains as well
// as plain cycles.
const MaxSymlinks = 40

// walk resolves name relative to the root using only single-component openat
// steps, enforcing the sandbox entirely in user space. It is the reference
// semantics for this package: the native backend's observable behavior must
// match it.
//
// The walker never constructs an absolute path for any syscall. Each step
// opens the next component relative to the previous, already validated
// directory handle with O_NOFOLLOW, so a rename or symlink swapped in
// between steps can only change what is beneath a handle that is known to
// sit inside the subtree, never redirect resolution outside of it.
func (r *Root) walk(name string, flags OpenFlags, mode uint32) (int, error) {
	// Directories already descended into. The handles are owned by the
	// walker and released as ".." pops them or when the walk returns; the
	// root's own handle is never part of the stack.
	var stack []int
	defer func() {
		for _, fd := range stack {
			closeTraceError(fd)
		}
	}()

	cur := func() int {
		if n := len(stack); n > 0 {
			return stack[n-1]
		}
		return r.fd
	}

	// Remaining path components. Expanding a symbolic link splices its
	// target at the front of the queue, so "a/link/b" resolves as
	// "a/<target-of-link>/b" from the directory where the link was found.
	parts := fspath.Split(name)
	links := 0

	expand := func(elem string, rest []string) error {
		target, err := readlink(cur(), elem)
		if err != nil {
			return err
		}
		if fspath.IsAbs(target) {
			// An absolute target restarts resolution at the host root,
			// which is outside the capability by construction.
			return ErrEscape
		}
		if links == MaxSymlinks {
			return ErrSymlinkLoop
		}
		links++
		parts = append(fspath.Split(target), rest...)
		return nil
	}

	for len(parts) > 0 {
		elem := parts[0]

		switch elem {
		case ".":
			parts = parts[1:]
			continue
		case "..":
			// Ascending is resolved against the walker's own position
			// stack, never against the file system, so a directory moved
			// mid-resolution cannot turn ".." into an exit.
			if r.rejectDotDot || len(stack) == 0 {
				return -1, ErrEscape
			}
			n := len(stack) - 1
			closeTraceError(stack[n])
			stack = stack[:n]
			parts = parts[1:]
			continue
		}

		if len(parts) > 1 {
			d, err := openat(cur(), elem, openPathFlags, 0)
			if err == nil {
				stack = append(stack, d)
				parts = parts[1:]
				continue
			}
			if err != ENOTDIR && err != ELOOP {
				return -1, err
			}
			// The component refused to open as a directory; if it is a
			// symbolic link, resolve through it, otherwise report the
			// original error.
			if err2 := expand(elem, parts[1:]); err2 != nil {
				if err2 == EINVAL {
					return -1, err
				}
				return -1, err2
			}
			continue
		}

		// Final component: apply the requested open semantics, still
		// refusing to let the kernel follow a symbolic link. When the
		// caller permits following, the link is expanded in user space and
		// resolution continues. A trailing link surfaces in three shapes
		// depending on the flags: ELOOP for ordinary opens, ENOTDIR when a
		// directory was demanded, and a successful O_PATH open of the link
		// itself.
		fd, err := openat(cur(), elem, flags.sysFlags()|int(O_NOFOLLOW), mode)
		if err == nil {
			if (flags & O_NOFOLLOW) != 0 {
				return fd, nil
			}
			isLink, lerr := openedSymlink(fd, flags)
			if lerr != nil {
				closeTraceError(fd)
				return -1, lerr
			}
			if !isLink {
				return fd, nil
			}
			closeTraceError(fd)
			if err := expand(elem, parts[1:]); err != nil {
				return -1, err
			}
			continue
		}
		followable := err == ELOOP || (err == ENOTDIR && (flags&O_DIRECTORY) != 0)
		if !followable || (flags&O_NOFOLLOW) != 0 {
			return -1, err
		}
		if err2 := expand(elem, parts[1:]); err2 != nil {
			if err2 == EINVAL {
				return -1, err
			}
			return -1, err2
		}
	}

	// The path ran out of components ("." or "a/.."): reopen the directory
	// the walk stopped at.
	return openat(cur(), ".", flags.sysFlags(), mode)
}
