// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sys/unix"
)

// LinkType classifies how an ELF file is linked.
type LinkType int

// Link types. Invalid is used for core dumps and any other non-loadable
// ELF type.
const (
	LinkInvalid LinkType = iota
	LinkStatic
	LinkDynamic
	LinkPIE
)

func (t LinkType) String() string {
	switch t {
	case LinkStatic:
		return "static"
	case LinkDynamic:
		return "dynamic"
	case LinkPIE:
		return "pie"
	default:
		return "invalid"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (t LinkType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Classification is the architecture and link type of an ELF file.
type Classification struct {
	Class    Class    `json:"class"`
	Machine  Machine  `json:"machine"`
	LinkType LinkType `json:"linkType"`
}

// Unclassified is the neutral classification of files that could not be
// read as ELF.
var Unclassified = Classification{
	Class:    ClassUnknown,
	Machine:  MachineUnknown,
	LinkType: LinkInvalid,
}

// ELFInfo is the dependency related metadata of an ELF file.
type ELFInfo struct {
	Classification

	// Interpreter is the PT_INTERP path. Empty if there is none.
	Interpreter string
	// Needed lists the DT_NEEDED entries in declaration order.
	Needed []string
	// SearchPaths lists the DT_RPATH entries followed by the DT_RUNPATH
	// entries, each split on ":", unresolved.
	SearchPaths []string
}

// HasMuslInterpreter returns true if the interpreter is a musl loader.
func (i *ELFInfo) HasMuslInterpreter() bool {
	return strings.Contains(i.Interpreter, "musl")
}

// ReadELFInfo maps the file at the given path read-only and extracts its
// [ELFInfo]. The mapping is released before it returns.
//
// It returns [ErrNotELFFile] if the file is not an ELF file.
func ReadELFInfo(path string) (*ELFInfo, error) {
	var info *ELFInfo

	err := withMappedFile(path, func(data []byte) error {
		file, err := elf.NewFile(bytes.NewReader(data))
		if err != nil {
			var formatErr *elf.FormatError
			if errors.As(err, &formatErr) {
				return fmt.Errorf("%w: %w", ErrNotELFFile, err)
			}

			return fmt.Errorf("parse: %w", err)
		}

		info, err = NewELFInfo(file)

		return err
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}

// NewELFInfo extracts the [ELFInfo] from an already parsed ELF file.
func NewELFInfo(file *elf.File) (*ELFInfo, error) {
	interpreter, err := readInterpreter(file)
	if err != nil {
		return nil, err
	}

	info := &ELFInfo{
		Classification: Classification{
			Class:   classFrom(file.Class),
			Machine: machineFrom(file.Machine),
		},
		Interpreter: interpreter,
	}

	info.LinkType = linkType(file.Type, hasDynamic(file), interpreter != "")

	info.Needed, err = file.DynString(elf.DT_NEEDED)
	if err != nil {
		return nil, fmt.Errorf("read needed: %w", err)
	}

	for _, tag := range []elf.DynTag{elf.DT_RPATH, elf.DT_RUNPATH} {
		values, err := file.DynString(tag)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", tag, err)
		}

		for _, value := range values {
			for entry := range strings.SplitSeq(value, ":") {
				if entry != "" {
					info.SearchPaths = append(info.SearchPaths, entry)
				}
			}
		}
	}

	return info, nil
}

// linkType classifies by header type. An executable is dynamically linked if
// it has a dynamic section. A shared object with an interpreter is a
// position independent executable.
func linkType(typ elf.Type, dynamic, interpreter bool) LinkType {
	switch typ {
	case elf.ET_EXEC:
		if dynamic {
			return LinkDynamic
		}

		return LinkStatic
	case elf.ET_DYN:
		if interpreter {
			return LinkPIE
		}

		return LinkDynamic
	default:
		return LinkInvalid
	}
}

func hasDynamic(file *elf.File) bool {
	for _, prog := range file.Progs {
		if prog.Type == elf.PT_DYNAMIC {
			return true
		}
	}

	return file.SectionByType(elf.SHT_DYNAMIC) != nil
}

// readInterpreter fetches the ELF interpreter path from the ELF file. Empty
// if the file has none.
func readInterpreter(file *elf.File) (string, error) {
	for _, prog := range file.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}

		buf, err := io.ReadAll(prog.Open())
		if err != nil {
			return "", fmt.Errorf("read interpreter: %w", err)
		}

		// Only terminate if the found path is not empty. Another prog might
		// still have a valid one.
		interpreter := unix.ByteSliceToString(buf)
		if interpreter != "" {
			return interpreter, nil
		}
	}

	return "", nil
}
