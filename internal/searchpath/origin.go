// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package searchpath

import (
	"path/filepath"
	"strings"
)

var originTokens = []string{"${ORIGIN}", "$ORIGIN"}

// ResolveOrigin resolves a single RPATH or RUNPATH entry of the binary at the
// given path. A leading $ORIGIN is replaced with the directory of the binary.
// Other entries are returned as they are.
func ResolveOrigin(binary, entry string) string {
	for _, token := range originTokens {
		rest, found := strings.CutPrefix(entry, token)
		if !found {
			continue
		}

		origin := string(filepath.Separator)
		if binary != "" {
			origin = filepath.Dir(binary)
		}

		return filepath.Join(origin, rest)
	}

	return entry
}

// ResolveOrigins calls [ResolveOrigin] for all entries.
func ResolveOrigins(binary string, entries []string) []string {
	resolved := make([]string, 0, len(entries))

	for _, entry := range entries {
		resolved = append(resolved, ResolveOrigin(binary, entry))
	}

	return resolved
}
