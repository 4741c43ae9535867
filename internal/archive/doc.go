// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive bundles resolved binaries and their libraries into a newc
// cpio archive.
package archive
