package dircap_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/dircaptest"
	"github.com/stealthrocket/dircap/internal/assert"
)

func newRoot(t *testing.T) *dircap.Root {
	t.Helper()
	root, err := dircap.OpenRoot(t.TempDir())
	assert.OK(t, err)
	t.Cleanup(func() { root.Close() })
	return root
}

func newWalkerRoot(t *testing.T) *dircap.Root {
	root := newRoot(t)
	dircap.DisableNative(root)
	return root
}

// The behavioral suite runs once per backend; both must expose identical
// semantics.
func TestRoot(t *testing.T) {
	dircaptest.TestRoot(t, newRoot)
}

func TestRootWalker(t *testing.T) {
	dircaptest.TestRoot(t, newWalkerRoot)
}

func TestOpenRootOfMissingDirectory(t *testing.T) {
	_, err := dircap.OpenRoot(t.TempDir() + "/nope")
	assert.Error(t, err, dircap.ENOENT)
}

func TestOpenRootOfFile(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, dircap.WriteFile(root, "test", nil, 0600))
	_, err := dircap.OpenRoot(root.Name() + "/test")
	assert.Error(t, err, dircap.ENOTDIR)
}

func TestRootName(t *testing.T) {
	dir := t.TempDir()
	root, err := dircap.OpenRoot(dir)
	assert.OK(t, err)
	defer root.Close()
	assert.Equal(t, root.Name(), dir)
}

func TestRootAfterClose(t *testing.T) {
	root, err := dircap.OpenRoot(t.TempDir())
	assert.OK(t, err)
	assert.OK(t, root.Close())
	_, err = root.Open("test", dircap.O_RDONLY, 0)
	assert.Error(t, err, dircap.EBADF)
	// Closing twice is harmless.
	assert.OK(t, root.Close())
}

func TestRootRejectDotDot(t *testing.T) {
	tests := map[string]func(*testing.T) *dircap.Root{
		"native": newRoot,
		"walker": newWalkerRoot,
	}
	for name, makeRoot := range tests {
		t.Run(name, func(t *testing.T) {
			root := makeRoot(t)
			root.SetRejectDotDot(true)

			assert.OK(t, root.Mkdir("x", 0755))
			assert.OK(t, dircap.WriteFile(root, "x/file.txt", nil, 0600))

			// Plain descent still works.
			b, err := dircap.ReadFile(root, "x/file.txt", 0)
			assert.OK(t, err)
			assert.Equal(t, len(b), 0)

			// A ".." that would be fine under the default policy is
			// rejected whether it comes from the path or from a link.
			_, err = root.Open("x/../x/file.txt", dircap.O_RDONLY, 0)
			assert.Error(t, err, dircap.ErrEscape)

			assert.OK(t, root.Symlink("../x/file.txt", "x/link"))
			_, err = root.Open("x/link", dircap.O_RDONLY, 0)
			assert.Error(t, err, dircap.ErrEscape)
		})
	}
}

func TestSubRootInheritsPolicy(t *testing.T) {
	root := newRoot(t)
	root.SetRejectDotDot(true)
	assert.OK(t, root.Mkdir("sub", 0755))
	sub, err := root.OpenRoot("sub")
	assert.OK(t, err)
	defer sub.Close()
	_, err = sub.Open("a/../b", dircap.O_RDONLY, 0)
	assert.Error(t, err, dircap.ErrEscape)
}

func TestSubRootConfinesToSubtree(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, root.Mkdir("sub", 0755))
	assert.OK(t, dircap.WriteFile(root, "outside", nil, 0600))
	sub, err := root.OpenRoot("sub")
	assert.OK(t, err)
	defer sub.Close()
	_, err = sub.Open("../outside", dircap.O_RDONLY, 0)
	assert.Error(t, err, dircap.ErrEscape)
}

func TestStatAndLstatReportSameMetadata(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, dircap.WriteFile(root, "test", []byte("content"), 0600))
	a, err := root.Stat("test")
	assert.OK(t, err)
	b, err := root.Lstat("test")
	assert.OK(t, err)
	ignoreAtime := cmpopts.IgnoreFields(dircap.FileInfo{}, "Atime")
	if diff := cmp.Diff(a, b, ignoreAtime); diff != "" {
		t.Errorf("metadata mismatch (-stat +lstat):\n%s", diff)
	}
}

func TestStatReportsSetuidSetgidSticky(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, dircap.WriteFile(root, "bin", nil, 0755))
	assert.OK(t, os.Chmod(filepath.Join(root.Name(), "bin"), 0o755|os.ModeSetuid|os.ModeSetgid))
	info, err := root.Stat("bin")
	assert.OK(t, err)
	assert.Equal(t, info.Mode&(fs.ModeSetuid|fs.ModeSetgid), fs.ModeSetuid|fs.ModeSetgid)

	assert.OK(t, root.Mkdir("tmp", 0755))
	assert.OK(t, os.Chmod(filepath.Join(root.Name(), "tmp"), 0o777|os.ModeSticky))
	info, err = root.Stat("tmp")
	assert.OK(t, err)
	assert.Equal(t, info.Mode&fs.ModeSticky, fs.ModeSticky)
}

func TestFS(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, dircap.WriteFile(root, "hello.txt", []byte("hello"), 0644))
	assert.OK(t, root.Mkdir("sub", 0755))
	assert.OK(t, dircap.WriteFile(root, "sub/world.txt", []byte("world"), 0644))

	if err := fstest.TestFS(dircap.FS(root), "hello.txt", "sub/world.txt"); err != nil {
		t.Error(err)
	}
}

func TestFSRejectsInvalidPaths(t *testing.T) {
	fsys := dircap.FS(newRoot(t))
	for _, name := range []string{"/etc/passwd", "../escape", "a//b", ""} {
		if _, err := fsys.Open(name); err == nil {
			t.Errorf("opening %q unexpectedly succeeded", name)
		}
	}
}
