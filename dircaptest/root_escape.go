package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
)

var testEscape = suite{
	"opening a path above the root errors with ErrEscape": func(t *testing.T, root *dircap.Root) {
		_, err := root.Open("../file.txt", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrEscape)
	},

	"opening an absolute path errors with ErrEscape": func(t *testing.T, root *dircap.Root) {
		_, err := root.Open("/etc/passwd", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrEscape)
	},

	"dot-dot that stays in the subtree is allowed": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("x", 0755))
		assert.OK(t, dircap.WriteFile(root, "x/file.txt", []byte("ok"), 0600))
		b, err := dircap.ReadFile(root, "x/../x/file.txt", 0)
		assert.OK(t, err)
		assert.Equal(t, string(b), "ok")
	},

	"dot-dot below then above the root errors with ErrEscape": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Mkdir("a", 0755))
		_, err := root.Open("a/../../b", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrEscape)
	},

	"following a relative symlink above the root errors with ErrEscape": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("../../etc/passwd", "escape"))
		_, err := root.Open("escape", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrEscape)
	},

	"following an absolute symlink errors with ErrEscape": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("/etc/passwd", "abs"))
		_, err := root.Open("abs", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrEscape)
	},

	"following an escaping intermediate symlink errors with ErrEscape": func(t *testing.T, root *dircap.Root) {
		assert.OK(t, root.Symlink("..", "up"))
		_, err := root.Open("up/anything", dircap.O_RDONLY, 0)
		assert.Error(t, err, dircap.ErrEscape)
	},

	"write operations cannot escape either": func(t *testing.T, root *dircap.Root) {
		assert.Error(t, root.Mkdir("../dir", 0755), dircap.ErrEscape)
		assert.Error(t, root.Unlink("../file"), dircap.ErrEscape)
		assert.Error(t, root.Symlink("target", "../link"), dircap.ErrEscape)
	},
}
