// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aibor/ldresolve/internal/resolve"
	"github.com/aibor/ldresolve/internal/sys"
)

// Closure is the deduplicated set of files needed by some binaries: the
// binaries themselves and all their found dependencies. Paths that are
// symbolic links are kept as links to their canonical file.
type Closure struct {
	files map[string]bool
	links map[string]string
}

// Collect builds the [Closure] of the given results. Binaries that could not
// be classified and dependencies that do not exist are skipped.
func Collect(results ...*resolve.Result) (*Closure, error) {
	c := &Closure{
		files: make(map[string]bool),
		links: make(map[string]string),
	}

	for _, result := range results {
		if result == nil || result.Classification == sys.Unclassified {
			continue
		}

		paths := append([]string{result.Path}, result.Libraries()...)

		for _, path := range paths {
			err := c.add(path)
			if err != nil {
				return nil, fmt.Errorf("[%s]: %w", result.Path, err)
			}
		}
	}

	return c, nil
}

func (c *Closure) add(path string) error {
	absPath, err := sys.AbsolutePath(path)
	if err != nil {
		return err
	}

	// A musl loader is reported even if it is absent.
	if !sys.Exists(absPath) {
		return nil
	}

	canonical, err := sys.CanonicalPath(absPath)
	if err != nil {
		return err
	}

	c.files[canonical] = true

	if canonical != absPath {
		c.links[absPath] = canonical
	}

	return nil
}

// Files returns an iterator over all regular files sorted by path.
func (c *Closure) Files() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(c.files)))
}

// Links returns an iterator over all links and their targets sorted by path.
func (c *Closure) Links() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, path := range slices.Sorted(maps.Keys(c.links)) {
			if !yield(path, c.links[path]) {
				return
			}
		}
	}
}

// Dirs returns all parent directories of files and links, parents before
// their children.
func (c *Closure) Dirs() []string {
	dirs := make(map[string]bool)

	for _, paths := range []iter.Seq[string]{maps.Keys(c.files), maps.Keys(c.links)} {
		for path := range paths {
			for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
				dirs[dir] = true
			}
		}
	}

	return slices.Sorted(maps.Keys(dirs))
}

// WriteArchive writes all directories, files and links of the closure into
// a cpio archive. Absolute paths are stored relative to the archive root.
// Link targets stay absolute.
func (c *Closure) WriteArchive(w io.Writer) error {
	archive := NewWriter(w)

	for _, dir := range c.Dirs() {
		err := archive.WriteDirectory(archivePath(dir))
		if err != nil {
			return err
		}
	}

	for path := range c.Files() {
		err := writeFile(archive, path)
		if err != nil {
			return err
		}
	}

	for path, target := range c.Links() {
		err := archive.WriteLink(archivePath(path), target)
		if err != nil {
			return err
		}
	}

	return archive.Close()
}

func writeFile(archive *Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return archive.WriteRegular(archivePath(path), file)
}

func archivePath(path string) string {
	return strings.TrimPrefix(path, "/")
}

// WriteClosure collects the [Closure] of the given results and writes it as
// cpio archive into w.
func WriteClosure(w io.Writer, results ...*resolve.Result) error {
	closure, err := Collect(results...)
	if err != nil {
		return err
	}

	return closure.WriteArchive(w)
}
