package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testCreate = suite{
	"creating a file makes it readable": func(t *testing.T, root *dircap.Root) {
		f, err := dircap.Create(root, "test", 0600)
		assert.OK(t, err)
		_, err = f.WriteString("content")
		assert.OK(t, err)
		assert.OK(t, f.Close())
		b, err := dircap.ReadFile(root, "test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "content")
	},

	"creating a file in a missing directory errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		_, err := dircap.Create(root, "nope/test", 0600)
		assert.Error(t, err, dircap.ENOENT)
	},

	"creating an existing file truncates it": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("before"), 0600))
		f, err := dircap.Create(root, "test", 0600)
		assert.OK(t, err)
		assert.OK(t, f.Close())
		info, err := root.Stat("test")
		assert.OK(t, err)
		assert.Equal(t, info.Size, 0)
	},

	"exclusive creation of an existing file errors with EEXIST and leaves it intact": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("kept"), 0600))
		_, err := root.Open("test", dircap.O_CREAT|dircap.O_EXCL|dircap.O_WRONLY, 0600)
		assert.Error(t, err, dircap.EEXIST)
		b, err := dircap.ReadFile(root, "test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "kept")
	},

	"exclusive creation implies creation": func(t *testing.T, root *dircap.Root) {
		f, err := root.Open("test", dircap.O_EXCL|dircap.O_WRONLY, 0600)
		assert.OK(t, err)
		assert.OK(t, f.Close())
	},

	"exclusive creation through an existing symlink errors with EEXIST": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("target", "link"))
		_, err := root.Open("link", dircap.O_CREAT|dircap.O_EXCL|dircap.O_WRONLY, 0600)
		assert.Error(t, err, dircap.EEXIST)
	},

	"appending writes at the end of the file": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("hello "), 0600))
		f, err := root.Open("test", dircap.O_WRONLY|dircap.O_APPEND, 0)
		assert.OK(t, err)
		_, err = f.WriteString("world")
		assert.OK(t, err)
		assert.OK(t, f.Close())
		b, err := dircap.ReadFile(root, "test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "hello world")
	},

	"creation through a dangling symlink creates the target in the subtree": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("target", "link"))
		f, err := root.Open("link", dircap.O_CREAT|dircap.O_WRONLY, 0600)
		assert.OK(t, err)
		assert.OK(t, f.Close())
		info, err := root.Lstat("target")
		assert.OK(t, err)
		assert.Equal(t, info.Mode.IsRegular(), true)
	},
}
