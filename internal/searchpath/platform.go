// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package searchpath

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aibor/ldresolve/internal/ldconf"
	"github.com/aibor/ldresolve/internal/sys"
)

// ErrUnknownPlatform is returned if a platform name is not known.
var ErrUnknownPlatform = errors.New("unknown platform")

// Platform is the kind of loader configuration the host maintains.
type Platform int

const (
	// PlatformNone has no loader config files. Only fixed and multiarch
	// defaults are used.
	PlatformNone Platform = iota
	// PlatformGlibc reads ld.so.conf for glibc binaries and the musl path
	// file for binaries with a musl interpreter.
	PlatformGlibc
	// PlatformMusl reads the musl path file for all binaries.
	PlatformMusl
)

func (p Platform) String() string {
	switch p {
	case PlatformGlibc:
		return "glibc"
	case PlatformMusl:
		return "musl"
	default:
		return "none"
	}
}

// Set implements [pflag.Value]. "auto" detects the host platform.
func (p *Platform) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*p = DetectPlatform()
	case "glibc":
		*p = PlatformGlibc
	case "musl":
		*p = PlatformMusl
	case "none":
		*p = PlatformNone
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, s)
	}

	return nil
}

// Type implements [pflag.Value].
func (*Platform) Type() string {
	return "platform"
}

// DetectPlatform guesses the [Platform] of the host.
func DetectPlatform() Platform {
	if runtime.GOOS != "linux" {
		return PlatformNone
	}

	if sys.IsRegular(ldconf.DefaultLdSoConf) {
		return PlatformGlibc
	}

	loaders, _ := filepath.Glob("/lib/ld-musl-*")
	if len(loaders) > 0 {
		return PlatformMusl
	}

	return PlatformNone
}
