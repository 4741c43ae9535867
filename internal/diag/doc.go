// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package diag collects non-fatal problems found while resolving
// dependencies.
//
// Resolution never aborts on a single bad file. Instead each problem is
// recorded as [Warning] in a [Sink] and logged, so callers and tests can
// inspect what was skipped.
package diag
