// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aibor/ldresolve/internal/resolve"
)

// ErrUnknownFormat is returned if a format name is not known.
var ErrUnknownFormat = errors.New("unknown format")

// Format is an output format.
type Format int

// Output formats.
const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "text"
}

// Set implements [pflag.Value].
func (f *Format) Set(s string) error {
	switch strings.ToLower(s) {
	case "text":
		*f = FormatText
	case "json":
		*f = FormatJSON
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}

	return nil
}

// Type implements [pflag.Value].
func (*Format) Type() string {
	return "format"
}

// Options control rendering.
type Options struct {
	Format Format
	// Color enables colors in [FormatText].
	Color bool
}

// Write renders the results in the format given by opts.
func Write(w io.Writer, results []*resolve.Result, opts Options) error {
	if opts.Format == FormatJSON {
		return WriteJSON(w, results)
	}

	return NewText(opts.Color).Write(w, results)
}
