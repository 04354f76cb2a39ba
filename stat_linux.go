package dircap

import (
	"golang.org/x/sys/unix"
)

func statTimes(stat *unix.Stat_t) (atime, mtime, ctime Timespec) {
	return stat.Atim, stat.Mtim, stat.Ctim
}
