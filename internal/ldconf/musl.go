// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ldconf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aibor/ldresolve/internal/diag"
	"github.com/aibor/ldresolve/internal/sys"
)

// DefaultMuslPathDir is the directory musl looks up its path file in.
const DefaultMuslPathDir = "/etc"

const defaultMuslArch = "x86_64"

// MuslPathFile returns the path of the musl path file for a binary with the
// given interpreter and machine, located in dir.
//
// The musl loader "/lib/ld-musl-<arch>.so.1" reads "<dir>/ld-musl-<arch>.path".
// If the interpreter does not follow this naming, the arch is derived from the
// machine.
func MuslPathFile(dir, interpreter string, class sys.Class, machine sys.Machine) string {
	arch := muslArchFromInterpreter(interpreter)
	if arch == "" {
		arch = muslArchFromMachine(class, machine)
	}

	return filepath.Join(dir, "ld-musl-"+arch+".path")
}

func muslArchFromInterpreter(interpreter string) string {
	name := filepath.Base(interpreter)

	arch, found := strings.CutPrefix(name, "ld-musl-")
	if !found {
		return ""
	}

	arch, _, _ = strings.Cut(arch, ".so")

	return arch
}

func muslArchFromMachine(class sys.Class, machine sys.Machine) string {
	switch machine {
	case sys.MachineX86:
		return "i386"
	case sys.MachineARM:
		return "armhf"
	case sys.MachineARM64:
		return "aarch64"
	case sys.MachineMIPS:
		if class == sys.Class64 {
			return "mips64"
		}

		return "mips"
	case sys.MachinePowerPC:
		if class == sys.Class64 {
			return "powerpc64"
		}

		return "powerpc"
	default:
		return defaultMuslArch
	}
}

// ReadMuslPath returns the directories listed in the musl path file at the
// given path, one per line. Empty lines are skipped. A missing file is not an
// error, since musl falls back to its built-in defaults then. Other read
// errors are reported to sink.
func ReadMuslPath(path string, sink *diag.Sink) []string {
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			sink.Warn(diag.StageConfig, path, err)
		}

		return nil
	}

	var dirs []string

	for line := range strings.Lines(string(content)) {
		line = strings.TrimSpace(line)
		if line != "" {
			dirs = append(dirs, line)
		}
	}

	return dirs
}
