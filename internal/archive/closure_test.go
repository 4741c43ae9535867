// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive_test

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/aibor/ldresolve/internal/archive"
	"github.com/aibor/ldresolve/internal/resolve"
	"github.com/aibor/ldresolve/internal/sys"
	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closureFixture struct {
	app    string
	lib    string
	link   string
	result *resolve.Result
}

func newClosureFixture(t *testing.T) closureFixture {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	f := closureFixture{
		app:  sys.WriteTestELF(t, filepath.Join(root, "bin", "app"), sys.TestELF{}),
		lib:  sys.WriteTestELF(t, filepath.Join(root, "lib", "libldr.so.1.2"), sys.TestELF{}),
		link: filepath.Join(root, "lib", "libldr.so.1"),
	}

	require.NoError(t, os.Symlink("libldr.so.1.2", f.link))

	f.result = &resolve.Result{
		Path: f.app,
		Classification: sys.Classification{
			Class:    sys.Class64,
			Machine:  sys.MachineX86_64,
			LinkType: sys.LinkPIE,
		},
		Dependencies: []resolve.Dependency{
			{Name: "ld-musl-x86_64.so.1", Status: resolve.Found("/nonexistent/ld-musl-x86_64.so.1")},
			{Name: "libldr.so.1", Status: resolve.Found(f.link)},
			{Name: "libldr.so.1.2", Status: resolve.Found(f.lib)},
			{Name: "libmissing.so", Status: resolve.NotFound},
		},
	}

	return f
}

func TestCollect(t *testing.T) {
	f := newClosureFixture(t)

	unclassified := &resolve.Result{
		Path:           "/nonexistent",
		Classification: sys.Unclassified,
	}

	closure, err := archive.Collect(f.result, unclassified, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{f.app, f.lib}, slices.Collect(closure.Files()))
	assert.Equal(t, map[string]string{f.link: f.lib}, maps.Collect(closure.Links()))

	dirs := closure.Dirs()
	assert.Contains(t, dirs, filepath.Dir(f.app))
	assert.Contains(t, dirs, filepath.Dir(f.lib))
	assert.True(t, slices.IsSorted(dirs), "parents first")
	assert.NotContains(t, dirs, "/")
}

func TestWriteClosure(t *testing.T) {
	f := newClosureFixture(t)

	var buf bytes.Buffer

	err := archive.WriteClosure(&buf, f.result)
	require.NoError(t, err)

	r := cpio.NewReader(&buf)

	var (
		names   []string
		entries = make(map[string]*cpio.Header)
		bodies  = make(map[string][]byte)
	)

	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		body, err := io.ReadAll(r)
		require.NoError(t, err)

		names = append(names, hdr.Name)
		entries[hdr.Name] = hdr
		bodies[hdr.Name] = body
	}

	relative := func(path string) string {
		return strings.TrimPrefix(path, "/")
	}

	appName, libName, linkName := relative(f.app), relative(f.lib), relative(f.link)

	require.Contains(t, entries, appName)
	require.Contains(t, entries, libName)
	require.Contains(t, entries, linkName)
	require.Contains(t, entries, relative(filepath.Dir(f.lib)))

	appInfo, err := os.Stat(f.app)
	require.NoError(t, err)

	assert.EqualValues(t, cpio.TypeReg|cpio.FileMode(appInfo.Mode().Perm()), entries[appName].Mode)
	assert.Equal(t, sys.TestELF{}.Bytes(), bodies[libName])

	assert.EqualValues(t, cpio.TypeSymlink|cpio.ModePerm, entries[linkName].Mode)
	assert.Equal(t, f.lib, string(bodies[linkName]))

	assert.EqualValues(t, cpio.TypeDir|0o755, entries[relative(filepath.Dir(f.lib))].Mode)

	assert.Equal(t, linkName, names[len(names)-1], "links last")
	assert.Less(t,
		slices.Index(names, relative(filepath.Dir(f.lib))),
		slices.Index(names, libName),
		"directory before its files",
	)
}

func TestCollectEmptyPath(t *testing.T) {
	result := &resolve.Result{
		Classification: sys.Classification{LinkType: sys.LinkStatic},
	}

	_, err := archive.Collect(result)
	require.ErrorIs(t, err, sys.ErrEmptyPath)
}
