// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package searchpath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/ldresolve/internal/diag"
	"github.com/aibor/ldresolve/internal/searchpath"
	"github.com/aibor/ldresolve/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTree struct {
	root   string
	binary string
	conf   string
	musl   string
}

func newTestTree(t *testing.T) testTree {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	for _, dir := range []string{"a", "b", "c", "d", "etc"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	tree := testTree{
		root:   root,
		binary: filepath.Join(root, "opt", "app", "bin", "app"),
		conf:   filepath.Join(root, "etc", "ld.so.conf"),
		musl:   filepath.Join(root, "etc"),
	}

	sys.WriteTestELF(t, tree.binary, sys.TestELF{})

	confContent := tree.path("b") + "\n" + tree.path("a") + "\n"
	require.NoError(t, os.WriteFile(tree.conf, []byte(confContent), 0o644))

	muslContent := tree.path("d") + "\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(tree.musl, "ld-musl-x86_64.path"),
		[]byte(muslContent),
		0o644,
	))

	return tree
}

func (tt testTree) path(elem ...string) string {
	return filepath.Join(append([]string{tt.root}, elem...)...)
}

func (tt testTree) adjacent() []string {
	return []string{
		tt.path("opt", "app", "bin"),
		tt.path("opt", "app", "bin", "lib"),
		tt.path("opt", "app", "bin", "lib64"),
		tt.path("opt", "app", "bin", "libs"),
		tt.path("opt", "app", "lib"),
		tt.path("opt", "app", "lib64"),
		tt.path("opt", "app", "libs"),
	}
}

func TestBuilderBuild(t *testing.T) {
	tree := newTestTree(t)

	cwd, err := sys.CanonicalPath(".")
	require.NoError(t, err)

	glibcInfo := &sys.ELFInfo{
		Interpreter: "/lib64/ld-linux-x86-64.so.2",
	}

	muslInfo := &sys.ELFInfo{
		Interpreter: "/lib/ld-musl-x86_64.so.1",
	}

	tests := []struct {
		name     string
		builder  searchpath.Builder
		info     *sys.ELFInfo
		expected []string
	}{
		{
			name: "glibc",
			builder: searchpath.Builder{
				DefaultDirs: []string{tree.path("a")},
				Platform:    searchpath.PlatformGlibc,
			},
			info: glibcInfo,
			expected: append([]string{
				tree.path("a"),
				tree.path("b"),
			}, tree.adjacent()...),
		},
		{
			name: "glibc with library path",
			builder: searchpath.Builder{
				DefaultDirs:    []string{tree.path("a")},
				LibraryPath:    tree.path("c") + "::" + tree.path("a"),
				UseLibraryPath: true,
				Platform:       searchpath.PlatformGlibc,
			},
			info: glibcInfo,
			expected: append([]string{
				tree.path("a"),
				tree.path("c"),
				cwd,
				tree.path("b"),
			}, tree.adjacent()...),
		},
		{
			name: "library path disabled",
			builder: searchpath.Builder{
				DefaultDirs: []string{},
				LibraryPath: tree.path("c"),
				Platform:    searchpath.PlatformNone,
			},
			info:     glibcInfo,
			expected: tree.adjacent(),
		},
		{
			name: "musl interpreter",
			builder: searchpath.Builder{
				DefaultDirs: []string{tree.path("c")},
				Platform:    searchpath.PlatformGlibc,
			},
			info: muslInfo,
			expected: append([]string{
				tree.path("c"),
				tree.path("d"),
			}, tree.adjacent()...),
		},
		{
			name: "no platform config",
			builder: searchpath.Builder{
				DefaultDirs: []string{},
				Platform:    searchpath.PlatformNone,
			},
			info:     muslInfo,
			expected: tree.adjacent(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink diag.Sink

			tt.builder.LdSoConf = tree.conf
			tt.builder.MuslPathDir = tree.musl
			tt.builder.Sink = &sink

			actual := tt.builder.Build(tree.binary, tt.info)
			assert.Equal(t, tt.expected, actual)
			assert.Empty(t, sink.Warnings())
		})
	}
}

func TestBuilderBuildGlibcBinaryOnMuslPlatform(t *testing.T) {
	tree := newTestTree(t)

	builder := searchpath.Builder{
		DefaultDirs: []string{},
		Platform:    searchpath.PlatformMusl,
		LdSoConf:    tree.conf,
		MuslPathDir: tree.musl,
	}

	info := &sys.ELFInfo{
		Classification: sys.Classification{
			Class:   sys.Class64,
			Machine: sys.MachineX86_64,
		},
		Interpreter: "/lib64/ld-linux-x86-64.so.2",
	}

	actual := builder.Build(tree.binary, info)

	expected := searchpath.Dedup(append(
		searchpath.MultiarchDirs(sys.Class64, sys.MachineX86_64),
		tree.adjacent()...,
	))
	assert.Equal(t, expected, actual)
	assert.Contains(t, actual, sys.CanonicalPathOr("/usr/lib/x86_64-linux-gnu"))
	assert.NotContains(t, actual, tree.path("d"), "musl path file")
	assert.NotContains(t, actual, tree.path("b"), "ld.so.conf")
}

func TestBuilderBuildMuslBinaryOnMuslPlatform(t *testing.T) {
	tree := newTestTree(t)

	builder := searchpath.Builder{
		DefaultDirs: []string{},
		Platform:    searchpath.PlatformMusl,
		MuslPathDir: tree.musl,
	}

	info := &sys.ELFInfo{
		Classification: sys.Classification{
			Class:   sys.Class64,
			Machine: sys.MachineX86_64,
		},
		Interpreter: "/lib/ld-musl-x86_64.so.1",
	}

	actual := builder.Build(tree.binary, info)

	expected := append([]string{tree.path("d")}, tree.adjacent()...)
	assert.Equal(t, expected, actual, "no multiarch dirs")
}

func TestBuilderBuildMultiarch(t *testing.T) {
	tree := newTestTree(t)

	builder := searchpath.Builder{
		DefaultDirs: []string{},
		Platform:    searchpath.PlatformNone,
	}

	info := &sys.ELFInfo{
		Classification: sys.Classification{
			Class:   sys.Class64,
			Machine: sys.MachineARM64,
		},
	}

	actual := builder.Build(tree.binary, info)

	expected := searchpath.Dedup(searchpath.MultiarchDirs(sys.Class64, sys.MachineARM64))
	require.NotEmpty(t, expected)
	assert.Equal(t, expected, actual[:len(expected)], "multiarch before adjacent")
	assert.Equal(t, tree.adjacent(), actual[len(expected):])
}

func TestBuilderMissingConfig(t *testing.T) {
	tree := newTestTree(t)

	var sink diag.Sink

	builder := searchpath.Builder{
		DefaultDirs: []string{},
		Platform:    searchpath.PlatformGlibc,
		LdSoConf:    tree.path("etc", "missing.conf"),
		Sink:        &sink,
	}

	actual := builder.Build(tree.binary, &sys.ELFInfo{})
	assert.Equal(t, tree.adjacent(), actual)
	require.ErrorIs(t, sink.Err(), os.ErrNotExist)
}

func TestAdjacentDirs(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	realBinary := sys.WriteTestELF(t, filepath.Join(root, "usr", "share", "tool", "tool"), sys.TestELF{})

	link := filepath.Join(root, "bin", "tool")
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	require.NoError(t, os.Symlink(realBinary, link))

	expected := []string{
		filepath.Join(root, "usr", "share", "tool"),
		filepath.Join(root, "usr", "share", "tool", "lib"),
		filepath.Join(root, "usr", "share", "tool", "lib64"),
		filepath.Join(root, "usr", "share", "tool", "libs"),
	}

	assert.Equal(t, expected, searchpath.AdjacentDirs(link), "real location is used")
	assert.Empty(t, searchpath.AdjacentDirs("/"))
}

func TestSplitLibraryPath(t *testing.T) {
	assert.Equal(t, []string{"/a", ".", "/b", "."}, searchpath.SplitLibraryPath("/a::/b:"))
	assert.Equal(t, []string{"/a"}, searchpath.SplitLibraryPath("/a"))
}

func TestDedup(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	realDir := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))

	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(realDir, link))

	missing := filepath.Join(root, "missing")

	actual := searchpath.Dedup([]string{link, missing, realDir, missing})
	assert.Equal(t, []string{realDir, missing}, actual)
}

func TestPlatformSet(t *testing.T) {
	var platform searchpath.Platform

	require.NoError(t, platform.Set("musl"))
	assert.Equal(t, searchpath.PlatformMusl, platform)

	require.NoError(t, platform.Set("GLIBC"))
	assert.Equal(t, searchpath.PlatformGlibc, platform)

	require.NoError(t, platform.Set("auto"))
	assert.Equal(t, searchpath.DetectPlatform(), platform)

	require.ErrorIs(t, platform.Set("bsd"), searchpath.ErrUnknownPlatform)
	assert.Equal(t, "platform", platform.Type())
}
