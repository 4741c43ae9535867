// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resolve walks the shared library dependencies of ELF files the way
// a dynamic loader looks them up, without loading anything.
//
// A resolution never fails. Problems with single files are recorded as
// warnings and the walk continues with what is left.
package resolve
