package dircap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stealthrocket/dircap"
	"github.com/stealthrocket/dircap/internal/assert"
	"golang.org/x/sync/errgroup"
)

// Parent resolution hands back a (directory handle, leaf name) pair so the
// terminal syscall is atomic with respect to renames. This test races file
// creation against a directory being moved back and forth: individual calls
// may lose the race and fail with ENOENT, but none may ever act outside the
// subtree.
func TestParentResolutionUnderConcurrentRename(t *testing.T) {
	for backend, makeRoot := range map[string]func(*testing.T) *dircap.Root{
		"native": newRoot,
		"walker": newWalkerRoot,
	} {
		t.Run(backend, func(t *testing.T) {
			root := makeRoot(t)
			assert.OK(t, root.Mkdir("a", 0755))

			ctx, cancel := context.WithCancel(context.Background())
			g, _ := errgroup.WithContext(ctx)

			g.Go(func() error {
				defer cancel()
				for i := 0; i < 200; i++ {
					if err := root.Rename("a", nil, "b"); err != nil {
						return err
					}
					if err := root.Rename("b", nil, "a"); err != nil {
						return err
					}
				}
				return nil
			})

			g.Go(func() error {
				for ctx.Err() == nil {
					err := dircap.WriteFile(root, "a/file", nil, 0600)
					switch {
					case err == nil, errors.Is(err, dircap.EEXIST):
						_ = root.Unlink("a/file")
					case errors.Is(err, dircap.ENOENT):
						// Lost the race against the rename.
					default:
						return err
					}
				}
				return nil
			})

			assert.OK(t, g.Wait())
		})
	}
}

func TestUnlinkDoesNotResolveTheLeaf(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, root.Mkdir("dir", 0755))
	assert.OK(t, dircap.WriteFile(root, "dir/kept", nil, 0600))
	assert.OK(t, root.Symlink("dir", "link"))

	// Unlinking through an intermediate symlink resolves the parent but
	// removes the named leaf, not what it points to.
	assert.OK(t, root.Symlink("kept", "dir/leaf"))
	assert.OK(t, root.Unlink("link/leaf"))
	_, err := root.Lstat("dir/leaf")
	assert.Error(t, err, dircap.ENOENT)
	_, err = root.Lstat("dir/kept")
	assert.OK(t, err)
}

func TestRmdirOfDotLeaf(t *testing.T) {
	root := newRoot(t)
	assert.OK(t, root.Mkdir("dir", 0755))
	// "dir/." resolves to the directory itself and the kernel refuses to
	// remove a directory named ".".
	if err := root.Rmdir("dir/."); err == nil {
		t.Fatal("removing a directory through a \".\" leaf unexpectedly succeeded")
	}
}
