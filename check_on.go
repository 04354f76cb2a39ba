//go:build dircapcheck

package dircap

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sys/unix"
)

// Built with the dircapcheck tag, every successful native resolution is
// replayed through the manual walker and the two results must reference the
// same file. Divergence between the backends is a security regression, so it
// crashes the program instead of being reported as an error a caller could
// swallow. The tag must never be set on production builds: the cross-check
// doubles the cost of every open.
func (r *Root) checkOpen(name string, flags OpenFlags, fd int) {
	// Side effects already happened on the native path; disable them for
	// the replay so the walker only resolves.
	checkfd, err := r.walk(name, flags&^(O_CREAT|O_EXCL|O_TRUNC), 0)
	if err != nil {
		panic(fmt.Sprintf("dircap: walker failed resolving %q (%s) where the native backend succeeded: %s",
			name, flags, err))
	}
	defer closeTraceError(checkfd)

	var native, manual unix.Stat_t
	if err := fstat(fd, &native); err != nil {
		panic(fmt.Sprintf("dircap: stat of natively resolved %q: %s", name, err))
	}
	if err := fstat(checkfd, &manual); err != nil {
		panic(fmt.Sprintf("dircap: stat of manually resolved %q: %s", name, err))
	}
	if uint64(native.Dev) != uint64(manual.Dev) || native.Ino != manual.Ino {
		panic(fmt.Sprintf("dircap: backends diverged resolving %q (%s)\nnative: %smanual: %s",
			name, flags, spew.Sdump(native), spew.Sdump(manual)))
	}
}
