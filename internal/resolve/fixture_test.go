// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/ldresolve/internal/resolve"
	"github.com/aibor/ldresolve/internal/searchpath"
	"github.com/aibor/ldresolve/internal/sys"
	"github.com/stretchr/testify/require"
)

const testInterpreter = "/lib64/ld-linux-x86-64.so.2"

// fixture is a directory tree with a binary at bin/app and libraries in lib.
type fixture struct {
	root string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))

	return fixture{root: root}
}

func (f fixture) path(elem ...string) string {
	return filepath.Join(append([]string{f.root}, elem...)...)
}

// app writes the root binary needing the given libraries.
func (f fixture) app(t *testing.T, e sys.TestELF) string {
	t.Helper()

	if e.Interpreter == "" && !e.Static {
		e.Interpreter = testInterpreter
	}

	return sys.WriteTestELF(t, f.path("bin", "app"), e)
}

// lib writes a shared object into the lib directory.
func (f fixture) lib(t *testing.T, name string, needed ...string) string {
	t.Helper()

	return sys.WriteTestELF(t, f.path("lib", name), sys.TestELF{
		Needed: needed,
	})
}

// config returns a [resolve.Config] that only uses directories of the
// fixture and multiarch directories. Library names used in tests are
// unlikely to exist in the latter.
func (f fixture) config() resolve.Config {
	return resolve.Config{
		DefaultDirs: []string{f.path("lib")},
		Platform:    searchpath.PlatformNone,
	}
}
