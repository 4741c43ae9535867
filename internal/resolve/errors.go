// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import "errors"

// ErrMaxDepthExceeded is recorded if the dependency graph is nested deeper
// than [Config.MaxDepth].
var ErrMaxDepthExceeded = errors.New("max dependency depth exceeded")
