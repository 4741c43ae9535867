// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ldconf

import (
	"bufio"
	"bytes"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aibor/ldresolve/internal/diag"
	"github.com/aibor/ldresolve/internal/sys"
)

// DefaultLdSoConf is the glibc loader config file.
const DefaultLdSoConf = "/etc/ld.so.conf"

// MaxFiles limits the number of config files processed for a single root
// file, including the root file itself.
const MaxFiles = 4096

const includeDirective = "include"

// ReadLdSoConf returns the library directories listed in the config file at
// the given path and all files it includes.
//
// Lines are trimmed, empty lines and comments are skipped. A line starting
// with "include" is a glob pattern of further config files. Relative patterns
// are relative to the directory of the file containing them. All other lines
// are directories. They are collected in order of appearance if they exist
// and have not been collected before. Directories of included files are
// collected at the position of the include directive.
//
// Unreadable files and bad patterns are reported to sink and skipped.
func ReadLdSoConf(path string, sink *diag.Sink) []string {
	r := ldSoConfReader{
		sink:     sink,
		seenDirs: make(map[string]bool),
		seenConf: make(map[string]bool),
	}

	r.push(path)

	for len(r.stack) > 0 {
		top := r.stack[len(r.stack)-1]
		if top.pos >= len(top.lines) {
			r.stack = r.stack[:len(r.stack)-1]
			continue
		}

		line := top.lines[top.pos]
		top.pos++

		pattern, isInclude := includePattern(line)
		if !isInclude {
			r.addDir(line)
			continue
		}

		matches, err := expandInclude(top.file, pattern)
		if err != nil {
			sink.Warn(diag.StageGlob, pattern, err)
			continue
		}

		// Push in reverse, so the first match is processed first.
		for i := len(matches) - 1; i >= 0; i-- {
			r.push(matches[i])
		}
	}

	return r.dirs
}

type confFrame struct {
	file  string
	lines []string
	pos   int
}

// ldSoConfReader tracks the currently open config files on a stack. The top
// is the innermost included file.
type ldSoConfReader struct {
	sink     *diag.Sink
	stack    []*confFrame
	dirs     []string
	seenDirs map[string]bool
	seenConf map[string]bool
	numFiles int
}

func (r *ldSoConfReader) push(file string) {
	if r.seenConf[file] {
		return
	}

	r.seenConf[file] = true

	r.numFiles++
	if r.numFiles > MaxFiles {
		r.sink.Warn(diag.StageConfig, file, ErrTooManyFiles)
		return
	}

	content, err := os.ReadFile(file)
	if err != nil {
		r.sink.Warn(diag.StageConfig, file, err)
		return
	}

	r.stack = append(r.stack, &confFrame{
		file:  file,
		lines: slices.Collect(lines(content)),
	})
}

func (r *ldSoConfReader) addDir(dir string) {
	if r.seenDirs[dir] || !sys.IsDir(dir) {
		return
	}

	r.seenDirs[dir] = true
	r.dirs = append(r.dirs, dir)
}

// lines returns an iterator over all significant lines of a config file.
// Comments starting with "#" are cut off.
func lines(content []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(bytes.NewReader(content))
		for scanner.Scan() {
			line, _, _ := strings.Cut(scanner.Text(), "#")

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// Obsolete glibc directive without any meaning for the search
			// order.
			if strings.HasPrefix(line, "hwcap ") {
				continue
			}

			if !yield(line) {
				return
			}
		}
	}
}

func includePattern(line string) (string, bool) {
	rest, found := strings.CutPrefix(line, includeDirective)
	if !found || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}

	return strings.TrimSpace(rest), true
}

// expandInclude returns all regular files matching the pattern in lexical
// order.
func expandInclude(file, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(filepath.Dir(file), pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadIncludePattern, err)
	}

	files := matches[:0]

	for _, match := range matches {
		if sys.IsRegular(match) {
			files = append(files, match)
		}
	}

	return files, nil
}
