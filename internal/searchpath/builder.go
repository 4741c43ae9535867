// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package searchpath

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aibor/ldresolve/internal/diag"
	"github.com/aibor/ldresolve/internal/ldconf"
	"github.com/aibor/ldresolve/internal/sys"
)

var adjacentLibDirs = []string{"lib", "lib64", "libs"}

// Builder composes search path lists for binaries.
//
// A Builder may be shared by concurrent resolutions. The loader config file
// is read at most once per Builder.
type Builder struct {
	// DefaultDirs are searched first. If nil, [DefaultDirs] is used.
	DefaultDirs []string
	// LibraryPath is a colon separated list of directories, like
	// LD_LIBRARY_PATH. It is only used if UseLibraryPath is set. Empty
	// elements mean the current working directory.
	LibraryPath    string
	UseLibraryPath bool
	// Platform selects the loader config sources.
	Platform Platform
	// LdSoConf is the glibc loader config file. If empty,
	// [ldconf.DefaultLdSoConf] is used.
	LdSoConf string
	// MuslPathDir is the directory musl path files are looked up in. If
	// empty, [ldconf.DefaultMuslPathDir] is used.
	MuslPathDir string
	// Sink receives problems with config files.
	Sink *diag.Sink

	ldSoConfOnce sync.Once
	ldSoConfDirs []string
}

// Build returns the search path list for the binary at the given path with
// the given metadata.
//
// The list is composed of, in this order: default directories, library path
// directories, loader config or musl path file directories, multiarch
// directories for non-musl binaries and directories next to the binary. Each
// directory is canonicalized if possible and only its first occurrence is
// kept.
func (b *Builder) Build(binary string, info *sys.ELFInfo) []string {
	defaults := b.DefaultDirs
	if defaults == nil {
		defaults = DefaultDirs
	}

	dirs := slices.Clone(defaults)

	if b.UseLibraryPath && b.LibraryPath != "" {
		dirs = append(dirs, SplitLibraryPath(b.LibraryPath)...)
	}

	// The interpreter selects the loader family. The platform only decides
	// which config files exist.
	if info.HasMuslInterpreter() {
		if b.Platform != PlatformNone {
			dirs = append(dirs, b.muslDirs(info)...)
		}
	} else {
		if b.Platform == PlatformGlibc {
			dirs = append(dirs, b.loaderConfigDirs()...)
		}

		dirs = append(dirs, MultiarchDirs(info.Class, info.Machine)...)
	}

	dirs = append(dirs, AdjacentDirs(binary)...)

	return Dedup(dirs)
}

func (b *Builder) loaderConfigDirs() []string {
	b.ldSoConfOnce.Do(func() {
		path := b.LdSoConf
		if path == "" {
			path = ldconf.DefaultLdSoConf
		}

		b.ldSoConfDirs = ldconf.ReadLdSoConf(path, b.Sink)

		slog.Debug("Read loader config",
			slog.String("path", path),
			slog.Int("dirs", len(b.ldSoConfDirs)),
		)
	})

	return b.ldSoConfDirs
}

func (b *Builder) muslDirs(info *sys.ELFInfo) []string {
	dir := b.MuslPathDir
	if dir == "" {
		dir = ldconf.DefaultMuslPathDir
	}

	path := ldconf.MuslPathFile(dir, info.Interpreter, info.Class, info.Machine)

	return ldconf.ReadMuslPath(path, b.Sink)
}

// SplitLibraryPath splits a colon separated directory list. Empty elements
// are replaced by ".".
func SplitLibraryPath(libraryPath string) []string {
	var dirs []string

	for dir := range strings.SplitSeq(libraryPath, ":") {
		if dir == "" {
			dir = "."
		}

		dirs = append(dirs, dir)
	}

	return dirs
}

// AdjacentDirs returns directories next to the binary at the given path that
// commonly hold its private libraries: the binary's real directory and its
// lib, lib64 and libs subdirectories. If that directory is named "bin", the
// lib directories next to it are added as well.
func AdjacentDirs(binary string) []string {
	realBinary := sys.CanonicalPathOr(binary)

	binDir := filepath.Dir(realBinary)
	if binDir == realBinary {
		return nil
	}

	dirs := []string{binDir}

	for _, name := range adjacentLibDirs {
		dirs = append(dirs, filepath.Join(binDir, name))
	}

	if filepath.Base(binDir) == "bin" {
		prefix := filepath.Dir(binDir)
		for _, name := range adjacentLibDirs {
			dirs = append(dirs, filepath.Join(prefix, name))
		}
	}

	return dirs
}

// Dedup canonicalizes all directories and removes duplicates. The first
// occurrence wins. Directories that can not be canonicalized are kept as
// they are.
func Dedup(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	unique := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		canonical := sys.CanonicalPathOr(dir)
		if seen[canonical] {
			continue
		}

		seen[canonical] = true
		unique = append(unique, canonical)
	}

	return unique
}
