// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package diag

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Stage names the step a [Warning] occurred in.
type Stage string

// Stages of dependency resolution.
const (
	StageOpen       Stage = "open"
	StageParse      Stage = "parse"
	StageConfig     Stage = "config"
	StageGlob       Stage = "glob"
	StageIdentity   Stage = "identity"
	StageDepth      Stage = "depth"
	StageDependency Stage = "dependency"
)

// Warning is a problem that was absorbed instead of failing the resolution.
type Warning struct {
	Stage Stage
	Path  string
	Err   error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s %s: %v", w.Stage, w.Path, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// Is matches any [Warning] with the same stage. A [Warning] without a stage
// matches all warnings.
func (w *Warning) Is(other error) bool {
	o, ok := other.(*Warning)
	if !ok {
		return false
	}

	return o.Stage == "" || o.Stage == w.Stage
}

// Sink collects [Warning]s. The zero value is ready to use. A nil *Sink only
// logs. It is safe for concurrent use.
type Sink struct {
	mu       sync.Mutex
	warnings []*Warning
}

// Warn records a [Warning] and logs it.
func (s *Sink) Warn(stage Stage, path string, err error) {
	slog.Warn("Skipped",
		slog.String("stage", string(stage)),
		slog.String("path", path),
		slog.Any("error", err),
	)

	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.warnings = append(s.warnings, &Warning{
		Stage: stage,
		Path:  path,
		Err:   err,
	})
}

// Warnings returns a copy of all recorded warnings in recording order.
func (s *Sink) Warnings() []*Warning {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.warnings)
}

// Err returns all recorded warnings as a single error. It returns nil if
// there are none.
func (s *Sink) Err() error {
	var result *multierror.Error

	for _, warning := range s.Warnings() {
		result = multierror.Append(result, warning)
	}

	return result.ErrorOrNil()
}
