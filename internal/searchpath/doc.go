// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package searchpath builds the ordered list of directories shared objects
// are looked up in, the way dynamic loaders compose it: fixed defaults,
// LD_LIBRARY_PATH, loader config files, multiarch defaults and directories
// next to the binary. It also resolves the RPATH and RUNPATH entries of a
// binary, including $ORIGIN.
package searchpath
