package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testOpen = suite{
	"opening a file that does not exist errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		_, err := dircap.Open(root, "nope")
		assert.Error(t, err, dircap.ENOENT)
	},

	"existing files can be opened and read back": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("hello"), 0600))
		b, err := dircap.ReadFile(root, "test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "hello")
	},

	"files in sub-directories are reachable": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("sub", 0755))
		assert.OK(t, dircap.WriteFile(root, "sub/test", []byte("42"), 0600))
		b, err := dircap.ReadFile(root, "sub/test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "42")
	},

	"redundant separators and dot components are ignored": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("sub", 0755))
		assert.OK(t, dircap.WriteFile(root, "sub/test", nil, 0600))
		f, err := dircap.Open(root, "sub///.//test")
		assert.OK(t, err)
		assert.OK(t, f.Close())
	},

	"a parent reference that stays in the subtree resolves like the plain path": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("x", 0755))
		assert.OK(t, dircap.WriteFile(root, "x/file.txt", []byte("ok"), 0600))
		b, err := dircap.ReadFile(root, "x/../x/file.txt", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "ok")
	},

	"opening a file with a trailing separator errors with ENOTDIR": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		_, err := dircap.Open(root, "test/")
		assert.Error(t, err, dircap.ENOTDIR)
	},

	"descending through a file errors with ENOTDIR": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		_, err := dircap.Open(root, "test/impossible")
		assert.Error(t, err, dircap.ENOTDIR)
	},

	"opening a symlink with O_NOFOLLOW errors with ELOOP": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		assert.OK(t, root.Symlink("test", "link"))
		_, err := root.Open("link", dircap.O_RDONLY|dircap.O_NOFOLLOW, 0)
		assert.Error(t, err, dircap.ELOOP)
	},

	"symlinks to files in the same directory are followed": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", []byte("target"), 0600))
		assert.OK(t, root.Symlink("test", "link"))
		b, err := dircap.ReadFile(root, "link", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "target")
	},

	"symlinks to parent directories inside the subtree are followed": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "answer", []byte("42"), 0600))
		assert.OK(t, root.Mkdir("tmp", 0755))
		assert.OK(t, root.Symlink("../answer", "tmp/link"))
		b, err := dircap.ReadFile(root, "tmp/link", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "42")
	},

	"intermediate symlinks to directories are followed": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		assert.OK(t, dircap.WriteFile(root, "dir/test", []byte("via link"), 0600))
		assert.OK(t, root.Symlink("dir", "link"))
		b, err := dircap.ReadFile(root, "link/test", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "via link")
	},

	"dangling symlinks error with ENOENT": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("nowhere", "link"))
		_, err := dircap.Open(root, "link")
		assert.Error(t, err, dircap.ENOENT)
	},

	"opening a directory with O_DIRECTORY succeeds": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("dir", 0755))
		f, err := dircap.OpenDir(root, "dir")
		assert.OK(t, err)
		assert.OK(t, f.Close())
	},

	"opening a file with O_DIRECTORY errors with ENOTDIR": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		_, err := dircap.OpenDir(root, "test")
		assert.Error(t, err, dircap.ENOTDIR)
	},

	"the root itself can be opened as a directory": func(t *testing.T, root *dircap.Root) {
		f, err := dircap.OpenDir(root, ".")
		assert.OK(t, err)
		assert.OK(t, f.Close())
	},
}
