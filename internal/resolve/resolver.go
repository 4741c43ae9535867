// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aibor/ldresolve/internal/diag"
	"github.com/aibor/ldresolve/internal/searchpath"
	"github.com/aibor/ldresolve/internal/sys"
)

// Resolver resolves binaries with a fixed [Config].
//
// A Resolver is safe for concurrent use. Loader config files are read once
// and shared by all resolutions.
type Resolver struct {
	cfg     Config
	sink    diag.Sink
	builder *searchpath.Builder
}

// New creates a [Resolver] for the given [Config].
func New(cfg Config) *Resolver {
	r := &Resolver{cfg: cfg}

	r.builder = &searchpath.Builder{
		DefaultDirs:    cfg.DefaultDirs,
		LibraryPath:    cfg.LibraryPath,
		UseLibraryPath: cfg.UseEnvironmentSearchPaths,
		Platform:       cfg.Platform,
		LdSoConf:       cfg.LdSoConf,
		MuslPathDir:    cfg.MuslPathDir,
		Sink:           &r.sink,
	}

	return r
}

// Resolve resolves the binary at the given path with a new [Resolver].
// Problems with loader config files are included in the result's warnings.
func Resolve(path string, cfg Config) *Result {
	r := New(cfg)
	result := r.Resolve(path)
	result.Warnings = append(r.Warnings(), result.Warnings...)

	return result
}

// Warnings returns problems with loader config files.
func (r *Resolver) Warnings() []*diag.Warning {
	return r.sink.Warnings()
}

// Resolve classifies the binary at the given path and resolves all its
// dependencies recursively.
//
// If the binary can not be read as ELF file, the result is
// [sys.Unclassified] without dependencies.
func (r *Resolver) Resolve(path string) *Result {
	var sink diag.Sink

	result := &Result{
		Path:           path,
		Classification: sys.Unclassified,
	}

	info, err := readRoot(path)
	if err != nil {
		stage := diag.StageOpen
		if errors.Is(err, sys.ErrNotELFFile) {
			stage = diag.StageParse
		}

		sink.Warn(stage, path, err)
		result.Warnings = sink.Warnings()

		return result
	}

	binary := sys.CanonicalPathOr(path)

	w := walk{
		rootClass:   info.Class,
		enforceArch: r.cfg.EnforceArchMatch,
		maxDepth:    r.cfg.maxDepth(),
		searchPaths: r.builder.Build(binary, info),
		visited:     make(map[sys.FileID]bool),
		seen:        make(map[string]bool),
		sink:        &sink,
	}

	slog.Debug("Resolving",
		slog.String("path", binary),
		slog.Int("search_paths", len(w.searchPaths)),
	)

	if info.HasMuslInterpreter() {
		w.addInterpreter(info.Interpreter)
	}

	w.visit(binary, info, 0)

	result.Classification = info.Classification
	result.Dependencies = w.deps
	result.Warnings = sink.Warnings()

	return result
}

func readRoot(path string) (*sys.ELFInfo, error) {
	absPath, err := sys.AbsolutePath(path)
	if err != nil {
		return nil, err
	}

	return sys.ReadELFInfo(absPath)
}

// walk is the mutable state of a single resolution.
type walk struct {
	rootClass   sys.Class
	enforceArch bool
	maxDepth    int
	searchPaths []string

	visited map[sys.FileID]bool
	seen    map[string]bool
	deps    []Dependency
	sink    *diag.Sink
}

// addInterpreter records the musl loader as first dependency. The path is
// used as is, if it does not exist.
func (w *walk) addInterpreter(interpreter string) {
	name := filepath.Base(interpreter)
	w.seen[name] = true

	path := interpreter
	if sys.Exists(interpreter) {
		path = sys.CanonicalPathOr(interpreter)
	}

	w.deps = append(w.deps, Dependency{Name: name, Status: Found(path)})
}

// visit resolves all needed libraries of the binary at path that have not
// been seen before.
//
// The dependency record is appended before the library is descended into,
// so parents precede their own dependencies in the result.
func (w *walk) visit(path string, info *sys.ELFInfo, depth int) {
	if depth > w.maxDepth {
		w.sink.Warn(diag.StageDepth, path, ErrMaxDepthExceeded)
		return
	}

	id, err := sys.Identify(path)
	if err != nil {
		w.sink.Warn(diag.StageIdentity, path, err)
		return
	}

	if w.visited[id] {
		return
	}

	w.visited[id] = true

	ownPaths := searchpath.ResolveOrigins(path, info.SearchPaths)

	for _, name := range info.Needed {
		if w.seen[name] {
			continue
		}

		w.seen[name] = true

		idx := len(w.deps)
		w.deps = append(w.deps, Dependency{Name: name})
		w.deps[idx].Status = w.resolveNeeded(name, ownPaths, depth)
	}
}

func (w *walk) resolveNeeded(name string, ownPaths []string, depth int) Status {
	candidate, found := w.lookup(name, ownPaths)
	if !found {
		slog.Debug("Not found", slog.String("name", name))
		return NotFound
	}

	slog.Debug("Found",
		slog.String("name", name),
		slog.String("path", candidate),
	)

	info, err := sys.ReadELFInfo(candidate)
	if err != nil {
		w.sink.Warn(diag.StageDependency, candidate, err)
		return Found(candidate)
	}

	if w.enforceArch && info.Class != w.rootClass {
		return ArchMismatch
	}

	w.visit(candidate, info, depth+1)

	return Found(candidate)
}

// lookup returns the first existing file with the given name in the binary's
// own search paths followed by the global search paths. A name containing a
// slash is a path itself and is not searched for.
func (w *walk) lookup(name string, ownPaths []string) (string, bool) {
	if strings.ContainsRune(name, '/') {
		return existingPath(name)
	}

	for _, dirs := range [][]string{ownPaths, w.searchPaths} {
		for _, dir := range dirs {
			path, found := existingPath(filepath.Join(dir, name))
			if found {
				return path, true
			}
		}
	}

	return "", false
}

func existingPath(path string) (string, bool) {
	if !sys.Exists(path) {
		return "", false
	}

	absPath, err := sys.AbsolutePath(path)
	if err != nil {
		return path, true
	}

	return absPath, true
}
