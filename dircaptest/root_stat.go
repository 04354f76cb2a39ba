package dircaptest

import (
	"io/fs"
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testStat = suite{
	"stat reports the size of a file": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("1234567890"), 0600))
		info, err := root.Stat("test")
		assert.OK(t, err)
		assert.Equal(t, info.Size, 10)
		assert.Equal(t, info.Mode.IsRegular(), true)
	},

	"stat of a missing file errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		_, err := root.Stat("nope")
		assert.Error(t, err, dircap.ENOENT)
	},

	"stat of the root describes a directory": func(t *testing.T, root *dircap.Root) {
		info, err := root.Stat(".")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.IsDir(), true)
	},

	"stat follows a trailing symlink": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "target", []byte("x"), 0600))
		assert.OK(t, root.Symlink("target", "link"))
		a, err := root.Stat("target")
		assert.OK(t, err)
		b, err := root.Stat("link")
		assert.OK(t, err)
		assert.True(t, dircap.SameFile(a, b), "stat did not follow the symlink")
	},

	"lstat describes the symlink itself": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "target", []byte("x"), 0600))
		assert.OK(t, root.Symlink("target", "link"))
		info, err := root.Lstat("link")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.Type(), fs.ModeSymlink)
	},

	"lstat of an escaping symlink returns the link metadata": func(t *testing.T, root *dircap.Root) {
		// The link itself is inside the subtree, only following it escapes.
		assert.OK(t, root.Symlink("../../etc/passwd", "escape"))
		info, err := root.Lstat("escape")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.Type(), fs.ModeSymlink)
		_, err = root.Stat("escape")
		assert.Error(t, err, dircap.ErrEscape)
	},

	"stat and lstat agree on regular files": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("x"), 0600))
		a, err := root.Stat("test")
		assert.OK(t, err)
		b, err := root.Lstat("test")
		assert.OK(t, err)
		assert.True(t, dircap.SameFile(a, b), "stat and lstat disagree on a regular file")
	},
}
