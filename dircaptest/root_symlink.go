package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testSymlink = suite{
	"reading a symlink returns its target verbatim": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("some/target", "link"))
		s, err := root.Readlink("link")
		assert.OK(t, err)
		assert.Equal(t, s, "some/target")
	},

	"creating a symlink does not validate its target": func(t *testing.T, root *dircap.Root) {
		// Dangling and escaping targets are legal at creation time, the
		// sandbox is only enforced when the link is followed.
		assert.OK(t, root.Symlink("../outside", "up"))
		assert.OK(t, root.Symlink("/etc/passwd", "abs"))
		s, err := root.Readlink("up")
		assert.OK(t, err)
		assert.Equal(t, s, "../outside")
		s, err = root.Readlink("abs")
		assert.OK(t, err)
		assert.Equal(t, s, "/etc/passwd")
	},

	"creating a symlink over an existing file errors with EEXIST": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		assert.Error(t, root.Symlink("target", "test"), dircap.EEXIST)
	},

	"reading a missing symlink errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		_, err := root.Readlink("nope")
		assert.Error(t, err, dircap.ENOENT)
	},

	"reading a regular file as a symlink errors with EINVAL": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
		_, err := root.Readlink("test")
		assert.Error(t, err, dircap.EINVAL)
	},

	"creating a symlink in a missing directory errors with ENOENT": func(t *testing.T, root *dircap.Root) {
		assert.Error(t, root.Symlink("target", "nope/link"), dircap.ENOENT)
	},
}
