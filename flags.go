package dircap

import (
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// OpenFlags is a bitset of flags that can be passed to the Open method of
// Root values to describe how the resolved file is opened.
type OpenFlags int

const (
	O_RDONLY    OpenFlags = unix.O_RDONLY
	O_WRONLY    OpenFlags = unix.O_WRONLY
	O_RDWR      OpenFlags = unix.O_RDWR
	O_APPEND    OpenFlags = unix.O_APPEND
	O_CREAT     OpenFlags = unix.O_CREAT
	O_EXCL      OpenFlags = unix.O_EXCL
	O_TRUNC     OpenFlags = unix.O_TRUNC
	O_DIRECTORY OpenFlags = unix.O_DIRECTORY
	O_NOFOLLOW  OpenFlags = unix.O_NOFOLLOW
	O_NONBLOCK  OpenFlags = unix.O_NONBLOCK
)

func (openFlags OpenFlags) String() string {
	var names []string

	switch openFlags & (O_RDWR | O_WRONLY | O_RDONLY) {
	case O_RDWR:
		names = append(names, "O_RDWR")
	case O_WRONLY:
		names = append(names, "O_WRONLY")
	}

	for _, f := range [...]struct {
		flag OpenFlags
		name string
	}{
		{O_APPEND, "O_APPEND"},
		{O_CREAT, "O_CREAT"},
		{O_EXCL, "O_EXCL"},
		{O_TRUNC, "O_TRUNC"},
		{O_DIRECTORY, "O_DIRECTORY"},
		{O_NOFOLLOW, "O_NOFOLLOW"},
		{O_NONBLOCK, "O_NONBLOCK"},
	} {
		if (openFlags & f.flag) != 0 {
			names = append(names, f.name)
		}
	}

	if len(names) == 0 {
		names = append(names, "O_RDONLY")
	}

	sort.Strings(names)
	return strings.Join(names, "|")
}

func (openFlags OpenFlags) sysFlags() int {
	return int(openFlags)
}

// normalize applies the flag constraints that hold for every backend: O_EXCL
// demands creation, so it implies O_CREAT.
func (openFlags OpenFlags) normalize() OpenFlags {
	if (openFlags & O_EXCL) != 0 {
		openFlags |= O_CREAT
	}
	return openFlags
}
