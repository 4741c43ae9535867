// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

// setupLogging installs a text logger without timestamps as default.
// Skipped files are logged as warnings, so they are shown unless quiet is set.
func setupLogging(writer io.Writer, debug, quiet bool) {
	level := slog.LevelWarn

	switch {
	case debug:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: dropTime,
		},
	)))
}

func dropTime(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 && attr.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return attr
}
