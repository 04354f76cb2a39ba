package dircaptest

import (
	"strconv"
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

// makeChain creates n symbolic links where link0 points at a regular file and
// each linkN points at linkN-1, then returns the name of the last link.
// Opening it costs exactly n symlink expansions.
func makeChain(t *testing.T, root *dircap.Root, n int) string {
	t.Helper()
	assert.OK(t, dircap.WriteFile(root, "file", []byte("deep"), 0600))
	name := "file"
	for i := 0; i < n; i++ {
		link := "link" + strconv.Itoa(i)
		assert.OK(t, root.Symlink(name, link))
		name = link
	}
	return name
}

var testSymlinkLoop = suite{
	"a two-link cycle errors with ErrSymlinkLoop": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("b", "a"))
		assert.OK(t, root.Symlink("a", "b"))
		_, err := root.Open("a", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrSymlinkLoop)
	},

	"a self-referential link errors with ErrSymlinkLoop": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("self", "self"))
		_, err := root.Open("self", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrSymlinkLoop)
	},

	"a cycle in an intermediate component errors with ErrSymlinkLoop": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("loop", "loop"))
		_, err := root.Open("loop/file", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrSymlinkLoop)
	},

	"a chain at the expansion budget still resolves": func(t *testing.T, root *dircap.Root) {
		name := makeChain(t, root, dircap.MaxSymlinks)
		b, err := dircap.ReadFile(root, name, 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "deep")
	},

	"a chain one past the expansion budget errors with ErrSymlinkLoop": func(t *testing.T, root *dircap.Root) {
		name := makeChain(t, root, dircap.MaxSymlinks+1)
		_, err := root.Open(name, dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrSymlinkLoop)
	},
}
