// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// withMappedFile maps the file at the given path read-only and calls fn with
// the mapped bytes. The file and the mapping are released once fn returns,
// so fn must not retain data.
func withMappedFile(path string, fn func(data []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if !stat.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	// Empty files can not be mapped and are never ELF files anyway.
	if stat.Size() == 0 {
		return fmt.Errorf("%w: empty file", ErrNotELFFile)
	}

	data, err := unix.Mmap(
		int(file.Fd()),
		0,
		int(stat.Size()),
		unix.PROT_READ,
		unix.MAP_PRIVATE,
	)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}

	defer func() {
		_ = unix.Munmap(data)
	}()

	return fn(data)
}
