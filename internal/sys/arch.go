// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "debug/elf"

// Class is the word size of an ELF file.
type Class int

// Known ELF classes.
const (
	ClassUnknown Class = iota
	Class32
	Class64
)

func (c Class) String() string {
	switch c {
	case Class32:
		return "elf32"
	case Class64:
		return "elf64"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func classFrom(c elf.Class) Class {
	switch c {
	case elf.ELFCLASS32:
		return Class32
	case elf.ELFCLASS64:
		return Class64
	default:
		return ClassUnknown
	}
}

// Machine is the instruction set architecture of an ELF file.
type Machine int

// Machines with known library directory layouts.
const (
	MachineUnknown Machine = iota
	MachineX86
	MachineX86_64
	MachineARM
	MachineARM64
	MachineMIPS
	MachinePowerPC
)

func (m Machine) String() string {
	switch m {
	case MachineX86:
		return "x86"
	case MachineX86_64:
		return "x86_64"
	case MachineARM:
		return "arm"
	case MachineARM64:
		return "aarch64"
	case MachineMIPS:
		return "mips"
	case MachinePowerPC:
		return "powerpc"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (m Machine) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func machineFrom(m elf.Machine) Machine {
	switch m {
	case elf.EM_386:
		return MachineX86
	case elf.EM_X86_64:
		return MachineX86_64
	case elf.EM_ARM:
		return MachineARM
	case elf.EM_AARCH64:
		return MachineARM64
	case elf.EM_MIPS:
		return MachineMIPS
	case elf.EM_PPC, elf.EM_PPC64:
		return MachinePowerPC
	default:
		return MachineUnknown
	}
}
