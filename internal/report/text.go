// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aibor/ldresolve/internal/resolve"
	"github.com/fatih/color"
)

// systemPrefixes are path prefixes of libraries installed by the system.
var systemPrefixes = []string{"/lib", "/usr"}

// Text renders numbered "name => status" lines per result, followed by the
// found and missing counts.
type Text struct {
	system  *color.Color
	private *color.Color
	failure *color.Color
}

// NewText creates a [Text] renderer. Colors are only used if enabled is
// true, independent of [color.NoColor].
func NewText(enabled bool) *Text {
	t := &Text{
		system:  color.New(color.Bold, color.FgGreen),
		private: color.New(color.Bold, color.FgYellow),
		failure: color.New(color.Bold, color.FgRed),
	}

	for _, c := range []*color.Color{t.system, t.private, t.failure} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return t
}

// Write renders all results separated by empty lines.
func (t *Text) Write(w io.Writer, results []*resolve.Result) error {
	buf := bufio.NewWriter(w)

	written := 0

	for _, result := range results {
		if result == nil {
			continue
		}

		if written > 0 {
			fmt.Fprintln(buf)
		}

		t.writeResult(buf, result)

		written++
	}

	err := buf.Flush()
	if err != nil {
		return fmt.Errorf("write text: %w", err)
	}

	return nil
}

func (t *Text) writeResult(w io.Writer, result *resolve.Result) {
	fmt.Fprintf(w, "%s: %s, %s, %s\n",
		result.Path,
		result.LinkType,
		result.Class,
		result.Machine,
	)

	for idx, dep := range result.Dependencies {
		fmt.Fprintf(w, "%d. %s => %s\n", idx+1, dep.Name, t.colorize(dep.Status))
	}

	fmt.Fprintf(w, "Dependencies found: %d\n", result.Found())
	fmt.Fprintf(w, "Dependencies not found: %d\n", result.Missing())
}

func (t *Text) colorize(status resolve.Status) string {
	c := t.private

	switch {
	case status.Kind != resolve.StatusFound:
		c = t.failure
	case isSystemPath(status.Path):
		c = t.system
	}

	return c.Sprint(status)
}

func isSystemPath(path string) bool {
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
