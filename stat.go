package dircap

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// Timespec is the time representation used in FileInfo values.
type Timespec = unix.Timespec

// FileInfo contains metadata about an entry on the file system. Unlike
// fs.FileInfo it exposes the device and inode numbers, which is what file
// identity comparisons must be based on: two paths are the same file exactly
// when their (Dev, Ino) pairs match, regardless of what the paths look like.
type FileInfo struct {
	Dev   uint64
	Ino   uint64
	Nlink uint64
	Mode  fs.FileMode
	Uid   uint32
	Gid   uint32
	Size  int64
	Atime Timespec
	Mtime Timespec
	Ctime Timespec
}

// SameFile returns true if the two FileInfo values describe the same
// underlying file.
func SameFile(a, b FileInfo) bool {
	return a.Dev == b.Dev && a.Ino == b.Ino
}

// Stat returns metadata for the file at name, following a trailing symbolic
// link. The link target is resolved through the sandbox, so pointing a link
// outside of the subtree yields ErrEscape rather than foreign metadata.
func (r *Root) Stat(name string) (FileInfo, error) {
	fd, err := r.resolve(name, OpenFlags(openStatFlags), 0)
	if err != nil {
		return FileInfo{}, pathError("stat", name, err)
	}
	defer closeTraceError(fd)
	var stat unix.Stat_t
	if err := fstat(fd, &stat); err != nil {
		return FileInfo{}, pathError("stat", name, err)
	}
	return makeFileInfo(&stat), nil
}

// Lstat returns metadata for the file at name without following a trailing
// symbolic link; for a symbolic link it describes the link itself.
func (r *Root) Lstat(name string) (FileInfo, error) {
	dirfd, base, err := r.openParent(name)
	if err != nil {
		return FileInfo{}, pathError("lstat", name, err)
	}
	defer closeTraceError(dirfd)
	var stat unix.Stat_t
	if base == "." {
		err = fstat(dirfd, &stat)
	} else {
		err = fstatat(dirfd, base, &stat, unix.AT_SYMLINK_NOFOLLOW)
	}
	if err != nil {
		return FileInfo{}, pathError("lstat", name, err)
	}
	return makeFileInfo(&stat), nil
}

func makeFileInfo(stat *unix.Stat_t) FileInfo {
	info := FileInfo{
		Dev:   uint64(stat.Dev),
		Ino:   uint64(stat.Ino),
		Nlink: uint64(stat.Nlink),
		Mode:  fs.FileMode(stat.Mode & 0777), // perm
		Uid:   stat.Uid,
		Gid:   stat.Gid,
		Size:  stat.Size,
	}
	info.Atime, info.Mtime, info.Ctime = statTimes(stat)

	if (stat.Mode & unix.S_ISUID) != 0 {
		info.Mode |= fs.ModeSetuid
	}
	if (stat.Mode & unix.S_ISGID) != 0 {
		info.Mode |= fs.ModeSetgid
	}
	if (stat.Mode & unix.S_ISVTX) != 0 {
		info.Mode |= fs.ModeSticky
	}

	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFREG:
	case unix.S_IFBLK:
		info.Mode |= fs.ModeDevice
	case unix.S_IFCHR:
		info.Mode |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFDIR:
		info.Mode |= fs.ModeDir
	case unix.S_IFIFO:
		info.Mode |= fs.ModeNamedPipe
	case unix.S_IFLNK:
		info.Mode |= fs.ModeSymlink
	case unix.S_IFSOCK:
		info.Mode |= fs.ModeSocket
	default:
		info.Mode |= fs.ModeIrregular
	}
	return info
}
