// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileID identifies a file independent of the path it is reached by.
type FileID struct {
	Dev uint64
	Ino uint64
}

// Identify returns the [FileID] of the file the given path points to.
// Symbolic links are followed.
func Identify(path string) (FileID, error) {
	var stat unix.Stat_t

	err := unix.Stat(path, &stat)
	if err != nil {
		return FileID{}, fmt.Errorf("%w: %s: %w", ErrNoIdentity, path, err)
	}

	//nolint:unconvert
	return FileID{Dev: uint64(stat.Dev), Ino: uint64(stat.Ino)}, nil
}
