// Package dircaptest provides a reusable behavioral test suite for directory
// capabilities. The suite only goes through the public dircap API, so it can
// be run against every resolution backend; the resolver semantics are defined
// once and each backend must pass the same tests.
package dircaptest

import (
	"testing"

	"github.com/stealthrocket/dircap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TestRoot runs the complete suite against roots returned by makeRoot. The
// function is called once per test case and must return a capability for an
// empty, writable directory.
func TestRoot(t *testing.T, makeRoot func(*testing.T) *dircap.Root) {
	t.Run("Open", func(t *testing.T) { testOpen.run(t, makeRoot) })
	t.Run("Create", func(t *testing.T) { testCreate.run(t, makeRoot) })
	t.Run("Mkdir", func(t *testing.T) { testMkdir.run(t, makeRoot) })
	t.Run("Remove", func(t *testing.T) { testRemove.run(t, makeRoot) })
	t.Run("Rename", func(t *testing.T) { testRename.run(t, makeRoot) })
	t.Run("Link", func(t *testing.T) { testLink.run(t, makeRoot) })
	t.Run("Symlink", func(t *testing.T) { testSymlink.run(t, makeRoot) })
	t.Run("Stat", func(t *testing.T) { testStat.run(t, makeRoot) })
	t.Run("Escape", func(t *testing.T) { testEscape.run(t, makeRoot) })
	t.Run("SymlinkLoop", func(t *testing.T) { testSymlinkLoop.run(t, makeRoot) })
}

type suite map[string]func(*testing.T, *dircap.Root)

func (tests suite) run(t *testing.T, makeRoot func(*testing.T) *dircap.Root) {
	names := maps.Keys(tests)
	slices.Sort(names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) { tests[name](t, makeRoot(t)) })
	}
}
