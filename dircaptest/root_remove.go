package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testRemove = suite{
	"unlinking a file removes it": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		assert.OK(t, root.Unlink("test"))
		_, err := root.Lstat("test")
		assert.Error(t, err, dircap.ENOENT)
	},

	"unlinking a missing file errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		assert.Error(t, root.Unlink("nope"), dircap.ENOENT)
	},

	"unlinking a symlink removes the link and keeps the target": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("kept"), 0600))
		assert.OK(t, root.Symlink("test", "link"))
		assert.OK(t, root.Unlink("link"))
		b, err := dircap.ReadFile(root, "test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "kept")
	},

	"removing an empty directory succeeds": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		assert.OK(t, root.Rmdir("dir"))
		_, err := root.Lstat("dir")
		assert.Error(t, err, dircap.ENOENT)
	},

	"removing a non-empty directory errors": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		assert.OK(t, dircap.WriteFile(root, "dir/test", nil, 0600))
		assert.Error(t, root.Rmdir("dir"), dircap.ENOTEMPTY)
	},

	"removing the root itself is rejected": func(t *testing.T, root *dircap.Root) {
		if err := root.Rmdir("."); err == nil {
			t.Fatal("removing the root unexpectedly succeeded")
		}
	},
}
