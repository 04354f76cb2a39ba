package dircap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stealthrocket/dircap/internal/assert"
	"golang.org/x/sys/unix"
)

// openBeneathRoot opens a scratch directory for exercising the native backend
// directly, skipping the test when the running kernel does not support it.
func openBeneathRoot(t *testing.T) (*resolver, int, string) {
	t.Helper()
	dir := t.TempDir()
	fd, err := openat(unix.AT_FDCWD, dir, openDirFlags, 0)
	assert.OK(t, err)
	t.Cleanup(func() { unix.Close(fd) })

	rv := new(resolver)
	if _, err := rv.openBeneath(fd, ".", O_RDONLY|O_DIRECTORY, 0); err == errUnsupported {
		t.Skip("native beneath-root resolution is not supported by this kernel")
	}
	return rv, fd, dir
}

func TestOpenBeneath(t *testing.T) {
	rv, fd, dir := openBeneathRoot(t)
	assert.OK(t, os.WriteFile(filepath.Join(dir, "test"), []byte("content"), 0600))

	got, err := rv.openBeneath(fd, "test", O_RDONLY, 0)
	assert.OK(t, err)
	defer unix.Close(got)

	buf := make([]byte, 16)
	n, err := unix.Read(got, buf)
	assert.OK(t, err)
	assert.Equal(t, string(buf[:n]), "content")
}

func TestOpenBeneathRejectsEscapes(t *testing.T) {
	rv, fd, _ := openBeneathRoot(t)
	for _, path := range []string{"..", "../test", "/etc/passwd"} {
		_, err := rv.openBeneath(fd, path, O_RDONLY, 0)
		assert.Error(t, err, ErrEscape)
	}
}

func TestOpenBeneathReportsSymlinkLoops(t *testing.T) {
	rv, fd, dir := openBeneathRoot(t)
	assert.OK(t, os.Symlink("b", filepath.Join(dir, "a")))
	assert.OK(t, os.Symlink("a", filepath.Join(dir, "b")))

	_, err := rv.openBeneath(fd, "a", O_RDONLY, 0)
	assert.Error(t, err, ErrSymlinkLoop)

	// With O_NOFOLLOW the errno keeps its usual meaning: the trailing
	// component is a symbolic link the caller refused to follow.
	_, err = rv.openBeneath(fd, "a", O_RDONLY|O_NOFOLLOW, 0)
	assert.Error(t, err, ELOOP)
}

func TestOpenBeneathUnsupportedIsSticky(t *testing.T) {
	rv := new(resolver)
	rv.nativeUnsupported.Store(true)
	_, err := rv.openBeneath(-1, ".", O_RDONLY, 0)
	assert.Error(t, err, errUnsupported)
}
