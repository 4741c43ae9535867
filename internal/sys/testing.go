// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// TestELF describes a minimal ELF file for tests. Only the parts relevant for
// dependency resolution are written: header, PT_INTERP, PT_DYNAMIC and the
// .interp, .dynstr, .dynamic and .shstrtab sections.
type TestELF struct {
	Class   elf.Class
	Machine elf.Machine
	Type    elf.Type

	Interpreter string
	Needed      []string
	RPath       []string
	RunPath     []string

	// Static omits the dynamic section entirely.
	Static bool
}

// Bytes returns the ELF file content described by e.
func (e TestELF) Bytes() []byte {
	class := e.Class
	if class == elf.ELFCLASSNONE {
		class = elf.ELFCLASS64
	}

	machine := e.Machine
	if machine == elf.EM_NONE {
		machine = elf.EM_X86_64
	}

	typ := e.Type
	if typ == elf.ET_NONE {
		typ = elf.ET_DYN
	}

	b := newELFBuilder(class == elf.ELFCLASS64)

	var sections []testSection

	if e.Interpreter != "" {
		data := append([]byte(e.Interpreter), 0)
		sections = append(sections, testSection{
			name:  ".interp",
			typ:   elf.SHT_PROGBITS,
			prog:  elf.PT_INTERP,
			data:  data,
			align: 1,
		})
	}

	if !e.Static {
		dynstr := []byte{0}
		addString := func(s string) uint64 {
			off := uint64(len(dynstr))
			dynstr = append(dynstr, s...)
			dynstr = append(dynstr, 0)

			return off
		}

		var entries [][2]uint64
		for _, name := range e.Needed {
			entries = append(entries, [2]uint64{uint64(elf.DT_NEEDED), addString(name)})
		}

		if len(e.RPath) > 0 {
			entries = append(entries, [2]uint64{
				uint64(elf.DT_RPATH), addString(joinPaths(e.RPath)),
			})
		}

		if len(e.RunPath) > 0 {
			entries = append(entries, [2]uint64{
				uint64(elf.DT_RUNPATH), addString(joinPaths(e.RunPath)),
			})
		}

		entries = append(entries, [2]uint64{uint64(elf.DT_NULL), 0})

		dynstrIdx := uint32(len(sections) + 1)
		sections = append(sections,
			testSection{
				name:  ".dynstr",
				typ:   elf.SHT_STRTAB,
				data:  dynstr,
				align: 1,
			},
			testSection{
				name:    ".dynamic",
				typ:     elf.SHT_DYNAMIC,
				prog:    elf.PT_DYNAMIC,
				data:    b.dynamic(entries),
				link:    dynstrIdx,
				entsize: b.dynSize(),
				align:   b.wordSize(),
			},
		)
	}

	return b.build(class, machine, typ, sections)
}

// WriteTestELF writes the ELF file described by e to the given path. Parent
// directories are created as needed.
func WriteTestELF(tb testing.TB, path string, e TestELF) string {
	tb.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		tb.Fatalf("create parent dir of %s: %v", path, err)
	}

	err = os.WriteFile(path, e.Bytes(), 0o755)
	if err != nil {
		tb.Fatalf("write ELF file %s: %v", path, err)
	}

	return path
}

func joinPaths(paths []string) string {
	var buf bytes.Buffer

	for idx, path := range paths {
		if idx > 0 {
			buf.WriteByte(':')
		}

		buf.WriteString(path)
	}

	return buf.String()
}

type testSection struct {
	name    string
	typ     elf.SectionType
	prog    elf.ProgType
	data    []byte
	link    uint32
	entsize uint64
	align   uint64
	offset  uint64
}

type elfBuilder struct {
	is64 bool
}

func newELFBuilder(is64 bool) elfBuilder {
	return elfBuilder{is64: is64}
}

func (b elfBuilder) wordSize() uint64 {
	if b.is64 {
		return 8
	}

	return 4
}

func (b elfBuilder) dynSize() uint64 {
	return 2 * b.wordSize()
}

func (b elfBuilder) headerSize() uint64 {
	if b.is64 {
		return 64
	}

	return 52
}

func (b elfBuilder) progSize() uint64 {
	if b.is64 {
		return 56
	}

	return 32
}

func (b elfBuilder) sectionSize() uint64 {
	if b.is64 {
		return 64
	}

	return 40
}

func (b elfBuilder) dynamic(entries [][2]uint64) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		if b.is64 {
			_ = binary.Write(&buf, binary.LittleEndian, elf.Dyn64{
				Tag: int64(entry[0]),
				Val: entry[1],
			})
		} else {
			_ = binary.Write(&buf, binary.LittleEndian, elf.Dyn32{
				Tag: int32(entry[0]),
				Val: uint32(entry[1]),
			})
		}
	}

	return buf.Bytes()
}

func (b elfBuilder) build(
	class elf.Class,
	machine elf.Machine,
	typ elf.Type,
	sections []testSection,
) []byte {
	shstrtab := []byte{0}
	nameOffsets := make([]uint32, len(sections)+1)

	for idx, section := range sections {
		nameOffsets[idx] = uint32(len(shstrtab))
		shstrtab = append(shstrtab, section.name...)
		shstrtab = append(shstrtab, 0)
	}

	nameOffsets[len(sections)] = uint32(len(shstrtab))
	shstrtab = append(shstrtab, ".shstrtab"...)
	shstrtab = append(shstrtab, 0)

	sections = append(sections, testSection{
		name:  ".shstrtab",
		typ:   elf.SHT_STRTAB,
		data:  shstrtab,
		align: 1,
	})

	var numProgs uint64

	for _, section := range sections {
		if section.prog != elf.PT_NULL {
			numProgs++
		}
	}

	// Layout: header, program headers, section data, section headers.
	offset := b.headerSize() + numProgs*b.progSize()
	for idx := range sections {
		offset = alignUp(offset, sections[idx].align)
		sections[idx].offset = offset
		offset += uint64(len(sections[idx].data))
	}

	shoff := alignUp(offset, b.wordSize())

	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(class)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	ident[elf.EI_OSABI] = byte(elf.ELFOSABI_NONE)

	var buf bytes.Buffer

	write := func(data any) {
		_ = binary.Write(&buf, binary.LittleEndian, data)
	}

	shnum := uint16(len(sections) + 1)
	shstrndx := shnum - 1

	var phoff uint64
	if numProgs > 0 {
		phoff = b.headerSize()
	}

	if b.is64 {
		write(elf.Header64{
			Ident:     ident,
			Type:      uint16(typ),
			Machine:   uint16(machine),
			Version:   uint32(elf.EV_CURRENT),
			Phoff:     phoff,
			Shoff:     shoff,
			Ehsize:    uint16(b.headerSize()),
			Phentsize: uint16(b.progSize()),
			Phnum:     uint16(numProgs),
			Shentsize: uint16(b.sectionSize()),
			Shnum:     shnum,
			Shstrndx:  shstrndx,
		})
	} else {
		write(elf.Header32{
			Ident:     ident,
			Type:      uint16(typ),
			Machine:   uint16(machine),
			Version:   uint32(elf.EV_CURRENT),
			Phoff:     uint32(phoff),
			Shoff:     uint32(shoff),
			Ehsize:    uint16(b.headerSize()),
			Phentsize: uint16(b.progSize()),
			Phnum:     uint16(numProgs),
			Shentsize: uint16(b.sectionSize()),
			Shnum:     shnum,
			Shstrndx:  shstrndx,
		})
	}

	for _, section := range sections {
		if section.prog == elf.PT_NULL {
			continue
		}

		off := section.offset
		size := uint64(len(section.data))

		if b.is64 {
			write(elf.Prog64{
				Type:   uint32(section.prog),
				Flags:  uint32(elf.PF_R),
				Off:    off,
				Vaddr:  off,
				Paddr:  off,
				Filesz: size,
				Memsz:  size,
				Align:  section.align,
			})
		} else {
			write(elf.Prog32{
				Type:   uint32(section.prog),
				Off:    uint32(off),
				Vaddr:  uint32(off),
				Paddr:  uint32(off),
				Filesz: uint32(size),
				Memsz:  uint32(size),
				Flags:  uint32(elf.PF_R),
				Align:  uint32(section.align),
			})
		}
	}

	for _, section := range sections {
		pad(&buf, section.offset)
		buf.Write(section.data)
	}

	pad(&buf, shoff)

	// Null section header first.
	if b.is64 {
		write(elf.Section64{})
	} else {
		write(elf.Section32{})
	}

	for idx, section := range sections {
		size := uint64(len(section.data))

		if b.is64 {
			write(elf.Section64{
				Name:      nameOffsets[idx],
				Type:      uint32(section.typ),
				Flags:     uint64(elf.SHF_ALLOC),
				Addr:      section.offset,
				Off:       section.offset,
				Size:      size,
				Link:      section.link,
				Addralign: section.align,
				Entsize:   section.entsize,
			})
		} else {
			write(elf.Section32{
				Name:      nameOffsets[idx],
				Type:      uint32(section.typ),
				Flags:     uint32(elf.SHF_ALLOC),
				Addr:      uint32(section.offset),
				Off:       uint32(section.offset),
				Size:      uint32(size),
				Link:      section.link,
				Addralign: uint32(section.align),
				Entsize:   uint32(section.entsize),
			})
		}
	}

	return buf.Bytes()
}

func alignUp(offset, align uint64) uint64 {
	if align <= 1 {
		return offset
	}

	return (offset + align - 1) &^ (align - 1)
}

func pad(buf *bytes.Buffer, offset uint64) {
	for uint64(buf.Len()) < offset {
		buf.WriteByte(0)
	}
}

// AssertContainsPaths asserts that all expected paths are present in actual.
// Paths are compared by their absolute form.
func AssertContainsPaths(tb testing.TB, actual, expected []string) bool {
	tb.Helper()

	expectedAbs := make(map[string]string, len(expected))

	for _, path := range expected {
		abs := MustAbsPath(tb, path)

		expectedAbs[abs] = path
	}

	for _, path := range actual {
		abs := MustAbsPath(tb, path)

		relPath, exists := expectedAbs[abs]
		if !exists {
			continue
		}

		idx := slices.Index(expected, relPath)
		if idx >= 0 {
			expected = slices.Delete(expected, idx, idx+1)
		}
	}

	if len(expected) > 0 {
		tb.Errorf("expected paths not present: % s", expected)
		return false
	}

	return true
}

func MustAbsPath(tb testing.TB, path string) string {
	tb.Helper()

	abs, err := filepath.Abs(path)
	if err != nil {
		tb.Fatalf("failed to get absolute path %s: %v", path, err)
	}

	return abs
}
