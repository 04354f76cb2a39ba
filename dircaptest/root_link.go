package dircaptest

import (
	"io/fs"
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testLink = suite{
	"hard links reference the same file": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("shared"), 0600))
		assert.OK(t, root.Link("test", nil, "other"))
		a, err := root.Lstat("test")
		assert.OK(t, err)
		b, err := root.Lstat("other")
		assert.OK(t, err)
		assert.True(t, dircap.SameFile(a, b), "hard link does not reference the original file")
		assert.Equal(t, b.Nlink, 2)
	},

	"linking a missing file errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		assert.Error(t, root.Link("nope", nil, "other"), dircap.ENOENT)
	},

	"linking over an existing file errors with EEXIST": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		assert.OK(t, dircap.WriteFile(root, "other", nil, 0600))
		assert.Error(t, root.Link("test", nil, "other"), dircap.EEXIST)
	},

	"linking a symlink links the link itself": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "target", nil, 0600))
		assert.OK(t, root.Symlink("target", "link"))
		assert.OK(t, root.Link("link", nil, "copy"))
		info, err := root.Lstat("copy")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.Type(), fs.ModeSymlink)
	},

	"linking between capabilities of different directories errors with EXDEV": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("sub", 0755))
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		sub, err := root.OpenRoot("sub")
		assert.OK(t, err)
		defer sub.Close()
		assert.Error(t, root.Link("test", sub, "test"), dircap.EXDEV)
	},
}
