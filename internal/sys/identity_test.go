// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/ldresolve/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	other := filepath.Join(dir, "other")
	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("file", link))

	fileID, err := sys.Identify(file)
	require.NoError(t, err)

	linkID, err := sys.Identify(link)
	require.NoError(t, err)

	otherID, err := sys.Identify(other)
	require.NoError(t, err)

	assert.Equal(t, fileID, linkID, "link resolves to same file")
	assert.NotEqual(t, fileID, otherID)

	_, err = sys.Identify(filepath.Join(dir, "nonexistent"))
	require.ErrorIs(t, err, sys.ErrNoIdentity)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCanonicalPath(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	realDir := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("real", link))

	canonical, err := sys.CanonicalPath(link)
	require.NoError(t, err)
	assert.Equal(t, realDir, canonical)

	missing := filepath.Join(dir, "missing")
	_, err = sys.CanonicalPath(missing)
	require.Error(t, err)
	assert.Equal(t, missing, sys.CanonicalPathOr(missing))

	_, err = sys.CanonicalPath("")
	require.ErrorIs(t, err, sys.ErrEmptyPath)

	assert.True(t, sys.IsDir(link))
	assert.False(t, sys.IsRegular(link))
	assert.True(t, sys.Exists(link))
	assert.False(t, sys.Exists(missing))
}
