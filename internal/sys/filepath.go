// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
	"path/filepath"
)

// AbsolutePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyPath] if the given path is empty.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

// CanonicalPath returns the absolute path with all symbolic links resolved.
func CanonicalPath(path string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}

	return canonical, nil
}

// CanonicalPathOr returns the [CanonicalPath] of path or path itself if it can
// not be canonicalized.
func CanonicalPathOr(path string) string {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return path
	}

	return canonical
}

// Exists returns true if something exists at the given path. Symbolic links
// are followed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir returns true if path is a directory. Symbolic links are followed.
func IsDir(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

// IsRegular returns true if path is a regular file. Symbolic links are
// followed.
func IsRegular(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}
