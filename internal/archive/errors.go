// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import "errors"

// ErrNotRegularFile is returned if a source file is not a regular file.
var ErrNotRegularFile = errors.New("not a regular file")
