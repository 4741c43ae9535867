// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import (
	"os"

	"github.com/aibor/ldresolve/internal/searchpath"
)

// DefaultMaxDepth is the dependency nesting ceiling used if
// [Config.MaxDepth] is not set.
const DefaultMaxDepth = 512

// LibraryPathEnv is the environment variable with additional search
// directories.
const LibraryPathEnv = "LD_LIBRARY_PATH"

// Config selects the loader behavior to emulate.
type Config struct {
	// UseEnvironmentSearchPaths enables LibraryPath.
	UseEnvironmentSearchPaths bool
	// EnforceArchMatch rejects dependencies with a different ELF class than
	// the root binary.
	EnforceArchMatch bool
	// Platform selects the loader config sources.
	Platform searchpath.Platform

	// LdSoConf is the glibc loader config file. Empty means
	// "/etc/ld.so.conf".
	LdSoConf string
	// MuslPathDir is the directory with musl path files. Empty means "/etc".
	MuslPathDir string
	// LibraryPath is a colon separated list of directories, usually the
	// value of LD_LIBRARY_PATH.
	LibraryPath string
	// DefaultDirs replaces the built-in default directories, if not nil.
	DefaultDirs []string
	// MaxDepth limits the dependency nesting. Zero means
	// [DefaultMaxDepth].
	MaxDepth int
}

// DefaultConfig returns the [Config] for the running host. LD_LIBRARY_PATH
// is read once.
func DefaultConfig() Config {
	return Config{
		UseEnvironmentSearchPaths: true,
		EnforceArchMatch:          true,
		Platform:                  searchpath.DetectPlatform(),
		LibraryPath:               os.Getenv(LibraryPathEnv),
	}
}

func (c *Config) maxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}

	return DefaultMaxDepth
}
