package dircap

import (
	"testing"

	"github.com/stealthrocket/dircap/internal/assert"
)

// walkerRoot returns a capability whose resolver never uses the native
// backend, so every test in this file exercises the walker.
func walkerRoot(t *testing.T) *Root {
	t.Helper()
	root, err := OpenRoot(t.TempDir())
	assert.OK(t, err)
	t.Cleanup(func() { root.Close() })
	DisableNative(root)
	return root
}

func TestWalkTrailingSlash(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, root.Mkdir("dir", 0755))
	assert.OK(t, WriteFile(root, "file", nil, 0600))

	f, err := root.Open("dir/", O_RDONLY, 0)
	assert.OK(t, err)
	assert.OK(t, f.Close())

	_, err = root.Open("file/", O_RDONLY, 0)
	assert.Error(t, err, ENOTDIR)
}

func TestWalkDotDotResolvesAgainstTraversal(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, root.Mkdir("a", 0755))

	// "a/.." names the root itself.
	this, err := root.Stat(".")
	assert.OK(t, err)
	back, err := root.Stat("a/..")
	assert.OK(t, err)
	assert.True(t, SameFile(this, back), "ascending did not return to the root")

	_, err = root.Open("a/../..", O_RDONLY, 0)
	assert.Error(t, err, ErrEscape)
}

func TestWalkExpandsIntermediateSymlinkChains(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, root.Mkdir("real", 0755))
	assert.OK(t, WriteFile(root, "real/file", []byte("found"), 0600))
	assert.OK(t, root.Symlink("real", "one"))
	assert.OK(t, root.Symlink("one", "two"))

	b, err := ReadFile(root, "two/file", 0)
	assert.OK(t, err)
	assert.Equal(t, string(b), "found")
}

func TestWalkDescendingThroughFileFails(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, WriteFile(root, "file", nil, 0600))
	_, err := root.Open("file/below", O_RDONLY, 0)
	assert.Error(t, err, ENOTDIR)
}

func TestWalkSymlinkTargetWithDotDot(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, root.Mkdir("a", 0755))
	assert.OK(t, root.Mkdir("b", 0755))
	assert.OK(t, WriteFile(root, "b/file", []byte("via link"), 0600))
	assert.OK(t, root.Symlink("../b/file", "a/link"))

	// Under the default policy the spliced ".." steps back through the
	// walker's own traversal and stays inside.
	b, err := ReadFile(root, "a/link", 0)
	assert.OK(t, err)
	assert.Equal(t, string(b), "via link")

	// Under the strict policy the same link is an escape even though the
	// caller's path has no ".." for the prescan to see.
	root.SetRejectDotDot(true)
	_, err = ReadFile(root, "a/link", 0)
	assert.Error(t, err, ErrEscape)
}

func TestWalkFollowsTrailingSymlinkForStat(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, WriteFile(root, "target", []byte("x"), 0600))
	assert.OK(t, root.Symlink("target", "link"))

	// A trailing link must resolve to its target even for opens that can
	// return a handle to the link itself.
	a, err := root.Stat("target")
	assert.OK(t, err)
	b, err := root.Stat("link")
	assert.OK(t, err)
	assert.True(t, SameFile(a, b), "stat did not follow the trailing symlink")
	assert.Equal(t, b.Mode.IsRegular(), true)

	assert.OK(t, root.Symlink("../../etc/passwd", "escape"))
	_, err = root.Stat("escape")
	assert.Error(t, err, ErrEscape)
}

func TestWalkFollowsTrailingSymlinkForDirectories(t *testing.T) {
	root := walkerRoot(t)
	assert.OK(t, root.Mkdir("dir", 0755))
	assert.OK(t, root.Symlink("dir", "link"))

	// Resolving the parent of "link/sub" demands a directory; the trailing
	// link must be followed rather than reported as ENOTDIR.
	assert.OK(t, root.Mkdir("link/sub", 0755))
	info, err := root.Lstat("dir/sub")
	assert.OK(t, err)
	assert.Equal(t, info.Mode.IsDir(), true)

	sub, err := root.OpenRoot("link")
	assert.OK(t, err)
	defer sub.Close()
	assert.OK(t, WriteFile(sub, "file", nil, 0600))
	_, err = root.Lstat("dir/file")
	assert.OK(t, err)
}

func TestWalkEmptyPath(t *testing.T) {
	root := walkerRoot(t)
	_, err := root.Open("", O_RDONLY, 0)
	assert.Error(t, err, ENOENT)
}
