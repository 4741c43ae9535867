// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrNotELFFile is returned if the file can not be parsed as ELF file.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrNotRegularFile is returned if a path does not point to a regular
	// file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrNoIdentity is returned if the device and inode of a file can not be
	// determined.
	ErrNoIdentity = errors.New("file identity not available")
)
