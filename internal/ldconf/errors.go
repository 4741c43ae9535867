// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ldconf

import "errors"

var (
	// ErrBadIncludePattern is reported if an include directive has an
	// invalid glob pattern.
	ErrBadIncludePattern = errors.New("bad include pattern")

	// ErrTooManyFiles is reported if more config files are included than
	// [MaxFiles].
	ErrTooManyFiles = errors.New("too many included config files")
)
