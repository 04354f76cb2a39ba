package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testMkdir = suite{
	"creating a directory makes it openable": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		f, err := dircap.OpenDir(root, "dir")
		assert.OK(t, err)
		assert.OK(t, f.Close())
	},

	"creating an existing directory errors with EEXIST": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		assert.Error(t, root.Mkdir("dir", 0755), dircap.EEXIST)
	},

	"creating a directory in a missing parent errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		assert.Error(t, root.Mkdir("nope/dir", 0755), dircap.ENOENT)
	},

	"creating a directory through a file errors with ENOTDIR": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		assert.Error(t, root.Mkdir("test/dir", 0755), dircap.ENOTDIR)
	},

	"creating a directory through an intermediate symlink stays in the subtree": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		assert.OK(t, root.Symlink("dir", "link"))
		assert.OK(t, root.Mkdir("link/sub", 0755))
		info, err := root.Lstat("dir/sub")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.IsDir(), true)
	},

	"MkdirAll creates every missing directory": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.MkdirAll(root, "a/b/c", 0755))
		info, err := root.Stat("a/b/c")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.IsDir(), true)
	},

	"MkdirAll tolerates existing directories": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("a", 0755))
		assert.OK(t, dircap.MkdirAll(root, "a/b", 0755))
		assert.OK(t, dircap.MkdirAll(root, "a/b", 0755))
	},

	"MkdirAll through an existing file errors with ENOTDIR": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "a", nil, 0600))
		assert.Error(t, dircap.MkdirAll(root, "a/b", 0755), dircap.ENOTDIR)
	},
}
