// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/aibor/ldresolve/internal/ldconf"
	"github.com/aibor/ldresolve/internal/report"
	"github.com/aibor/ldresolve/internal/resolve"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

const (
	name = "ldresolve"

	maxDepthMax = 1 << 16
	jobsMax     = 1024

	usageMessage = `Usage of 'ldresolve':
    ldresolve [flags...] binary...
    ldresolve [flags...] --scan dir...

Resolves the shared library dependencies of ELF files like the dynamic loader
does, without running them. Exits with 1 if any dependency is not found or
has a different ELF class.

Flags may also be set in the config file (default
$XDG_CONFIG_HOME/ldresolve.ini). Command line flags take precedence:

    [resolver]
    env_paths = true
    arch_check = true
    platform = auto
    ld_so_conf = /etc/ld.so.conf
    musl_path_dir = /etc
    max_depth = 512

    [output]
    color = true
    format = text
`
)

type flags struct {
	resolve resolve.Config
	output  report.Options

	configFile string
	targets    []string
	bundle     string
	scan       bool
	jobs       int
	json       bool
	debug      bool
	quiet      bool
	version    bool

	flagSet *pflag.FlagSet
}

func newFlags(output io.Writer) *flags {
	cfg := resolve.DefaultConfig()
	cfg.LdSoConf = ldconf.DefaultLdSoConf
	cfg.MuslPathDir = ldconf.DefaultMuslPathDir
	cfg.MaxDepth = resolve.DefaultMaxDepth

	f := &flags{
		resolve: cfg,
		output: report.Options{
			Color: !color.NoColor,
		},
		configFile: defaultConfigFile(),
		jobs:       runtime.NumCPU(),
	}

	f.initFlagset(output)

	return f
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	f := newFlags(output)

	err := f.flagSet.Parse(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ParseArgsError{msg: "help requested", err: ErrHelp}
		}

		return nil, f.fail("flag parse", err)
	}

	if f.version {
		return f, nil
	}

	err = f.applyConfigFile()
	if err != nil {
		return nil, f.fail("config file "+f.configFile, err)
	}

	if f.json {
		f.output.Format = report.FormatJSON
	}

	f.targets = f.flagSet.Args()
	if len(f.targets) < 1 {
		return nil, f.fail("no binary given", nil)
	}

	return f, nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage
	flagSet.SortFlags = false

	flagSet.StringVar(
		&f.configFile,
		"config",
		f.configFile,
		"INI config `file`. A missing file is ignored",
	)

	flagSet.BoolVar(
		&f.resolve.UseEnvironmentSearchPaths,
		"env-paths",
		f.resolve.UseEnvironmentSearchPaths,
		"search directories listed in "+resolve.LibraryPathEnv,
	)

	flagSet.BoolVar(
		&f.resolve.EnforceArchMatch,
		"arch-check",
		f.resolve.EnforceArchMatch,
		"report dependencies with a different ELF class as arch mismatch",
	)

	flagSet.Var(
		&f.resolve.Platform,
		"platform",
		"loader config files to read: auto, glibc, musl, none",
	)

	flagSet.StringVar(
		&f.resolve.LdSoConf,
		"ld-so-conf",
		f.resolve.LdSoConf,
		"glibc loader config `file`",
	)

	flagSet.StringVar(
		&f.resolve.MuslPathDir,
		"musl-path-dir",
		f.resolve.MuslPathDir,
		"`directory` with musl loader path files",
	)

	flagSet.Var(
		&limitedIntValue{
			Value: &f.resolve.MaxDepth,
			min:   1,
			max:   maxDepthMax,
		},
		"max-depth",
		"maximum dependency nesting",
	)

	flagSet.BoolVar(
		&f.scan,
		"scan",
		f.scan,
		"treat arguments as directories and resolve all executable files in them",
	)

	flagSet.VarP(
		&limitedIntValue{
			Value: &f.jobs,
			min:   1,
			max:   jobsMax,
		},
		"jobs",
		"j",
		"number of binaries resolved in parallel",
	)

	flagSet.StringVarP(
		&f.bundle,
		"bundle",
		"b",
		f.bundle,
		"write binaries and found dependencies as cpio archive to `file`",
	)

	flagSet.Var(
		&f.output.Format,
		"format",
		"output format: text, json",
	)

	flagSet.BoolVar(
		&f.json,
		"json",
		f.json,
		"shorthand for --format=json",
	)

	flagSet.BoolVar(
		&f.output.Color,
		"color",
		f.output.Color,
		"colorize text output (default is enabled if stdout is a terminal)",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVarP(
		&f.quiet,
		"quiet",
		"q",
		f.quiet,
		"do not print skipped files",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
