// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package searchpath

import "github.com/aibor/ldresolve/internal/sys"

// DefaultDirs are searched for every binary, before any other directory.
var DefaultDirs = []string{
	"/lib",
	"/usr/lib",
	"/usr/local/lib",
	"/usr/libexec",
	"/libexec",
}

// MultiarchDirs returns the word size and machine specific default library
// directories.
func MultiarchDirs(class sys.Class, machine sys.Machine) []string {
	var dirs []string

	switch class {
	case sys.Class32:
		dirs = append(dirs, "/lib", "/usr/lib", "/lib32", "/usr/lib32")
	case sys.Class64:
		dirs = append(dirs, "/lib64", "/usr/lib64")
	case sys.ClassUnknown:
	}

	triplet := multiarchTriplet(class, machine)
	if triplet != "" {
		dirs = append(dirs, "/lib/"+triplet, "/usr/lib/"+triplet)
	}

	return dirs
}

// multiarchTriplet returns the Debian style multiarch triplet. Empty if the
// combination has none.
func multiarchTriplet(class sys.Class, machine sys.Machine) string {
	is32, is64 := class == sys.Class32, class == sys.Class64

	switch {
	case machine == sys.MachinePowerPC && is32:
		return "powerpc-linux-gnu"
	case machine == sys.MachinePowerPC && is64:
		return "powerpc64-linux-gnu"
	case machine == sys.MachineMIPS && is32:
		return "mips-linux-gnu"
	case machine == sys.MachineMIPS && is64:
		return "mips64-linux-gnu"
	case machine == sys.MachineARM:
		return "arm-linux-gnueabihf"
	case machine == sys.MachineARM64:
		return "aarch64-linux-gnu"
	case machine == sys.MachineX86 && is32:
		return "i386-linux-gnu"
	case machine == sys.MachineX86_64 && is64:
		return "x86_64-linux-gnu"
	case machine == sys.MachineX86_64 && is32:
		return "i386-linux-gnu"
	default:
		return ""
	}
}
