// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import (
	"github.com/aibor/ldresolve/internal/diag"
	"github.com/aibor/ldresolve/internal/sys"
)

// StatusKind is the outcome of a dependency lookup.
type StatusKind int

// Dependency lookup outcomes.
const (
	StatusFound StatusKind = iota
	StatusNotFound
	StatusArchMismatch
)

// Status is the resolution status of a single dependency.
type Status struct {
	Kind StatusKind
	// Path is the file the dependency was found at. Only set for
	// [StatusFound].
	Path string
}

// Found returns a [StatusFound] for the given path.
func Found(path string) Status {
	return Status{Kind: StatusFound, Path: path}
}

// NotFound is the status of dependencies absent from all search directories.
var NotFound = Status{Kind: StatusNotFound}

// ArchMismatch is the status of dependencies that were found but have a
// different ELF class than the root binary.
var ArchMismatch = Status{Kind: StatusArchMismatch}

// String returns the path for found dependencies, otherwise "not found" or
// "arch mismatch".
func (s Status) String() string {
	switch s.Kind {
	case StatusNotFound:
		return "not found"
	case StatusArchMismatch:
		return "arch mismatch"
	default:
		return s.Path
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dependency is a needed library and where it was resolved to.
type Dependency struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// Result is the outcome of resolving a single binary.
type Result struct {
	// Path is the binary as given.
	Path string `json:"path"`

	sys.Classification

	// Dependencies are in order of first discovery: parents before their
	// dependencies, siblings in declaration order. Each library name is
	// present only once.
	Dependencies []Dependency `json:"dependencies"`

	// Warnings are problems that were skipped during the walk.
	Warnings []*diag.Warning `json:"-"`
}

// Found returns the number of dependencies that were found.
func (r *Result) Found() int {
	var count int

	for _, dep := range r.Dependencies {
		if dep.Status.Kind == StatusFound {
			count++
		}
	}

	return count
}

// Missing returns the number of dependencies that could not be used, either
// because they were not found or because of an arch mismatch.
func (r *Result) Missing() int {
	return len(r.Dependencies) - r.Found()
}

// Libraries returns the paths of all found dependencies.
func (r *Result) Libraries() []string {
	libs := make([]string, 0, len(r.Dependencies))

	for _, dep := range r.Dependencies {
		if dep.Status.Kind == StatusFound {
			libs = append(libs, dep.Status.Path)
		}
	}

	return libs
}
