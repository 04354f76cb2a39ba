package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testRename = suite{
	"renaming a file moves its content": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "old", []byte("content"), 0600))
		assert.OK(t, root.Rename("old", nil, "new"))
		_, err := root.Lstat("old")
		assert.Error(t, err, dircap.ENOENT)
		b, err := dircap.ReadFile(root, "new", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "content")
	},

	"renaming a missing file errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		assert.Error(t, root.Rename("nope", nil, "new"), dircap.ENOENT)
	},

	"renaming moves files between directories": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("a", 0755))
		assert.OK(t, root.Mkdir("b", 0755))
		assert.OK(t, dircap.WriteFile(root, "a/test", []byte("moved"), 0600))
		assert.OK(t, root.Rename("a/test", nil, "b/test"))
		b, err := dircap.ReadFile(root, "b/test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "moved")
	},

	"renaming replaces an existing destination": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "old", []byte("winner"), 0600))
		assert.OK(t, dircap.WriteFile(root, "new", []byte("loser"), 0600))
		assert.OK(t, root.Rename("old", nil, "new"))
		b, err := dircap.ReadFile(root, "new", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "winner")
	},

	"renaming the leaf does not follow a symlink at the source": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "target", []byte("kept"), 0600))
		assert.OK(t, root.Symlink("target", "link"))
		assert.OK(t, root.Rename("link", nil, "moved"))
		// The link moved, the target stayed.
		b, err := dircap.ReadFile(root, "target", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "kept")
		s, err := root.Readlink("moved")
		assert.OK(t, err)
		assert.Equal(t, s, "target")
	},

	"renaming between capabilities of different directories errors with EXDEV": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("sub", 0755))
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		sub, err := root.OpenRoot("sub")
		assert.OK(t, err)
		defer sub.Close()
		assert.Error(t, root.Rename("test", sub, "test"), dircap.EXDEV)
	},

	"renaming between two capabilities of the same directory succeeds": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "old", []byte("content"), 0600))
		same, err := root.OpenRoot(".")
		assert.OK(t, err)
		defer same.Close()
		assert.OK(t, root.Rename("old", same, "new"))
		b, err := dircap.ReadFile(root, "new", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "content")
	},
}
