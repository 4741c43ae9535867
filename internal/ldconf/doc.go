// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ldconf reads the library directory lists the dynamic loaders
// consult: glibc's ld.so.conf with its include directives and musl's
// ld-musl-<arch>.path files.
package ldconf
