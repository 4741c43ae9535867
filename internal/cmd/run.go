// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/aibor/ldresolve/internal/archive"
	"github.com/aibor/ldresolve/internal/exitcode"
	"github.com/aibor/ldresolve/internal/report"
	"github.com/aibor/ldresolve/internal/resolve"
)

// IO provides input and output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the main entry point for the CLI command. It returns the exit code.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug, flags.quiet)

	if flags.version {
		return printVersion(cfg.Stdout)
	}

	err = run(ctx, flags, cfg.Stdout)

	return handleRunError(err)
}

func run(ctx context.Context, flags *flags, stdout io.Writer) error {
	slog.Debug("Resolver config",
		slog.Bool("env_paths", flags.resolve.UseEnvironmentSearchPaths),
		slog.Bool("arch_check", flags.resolve.EnforceArchMatch),
		slog.String("platform", flags.resolve.Platform.String()),
		slog.Int("max_depth", flags.resolve.MaxDepth),
	)

	resolver := resolve.New(flags.resolve)

	results, err := resolveTargets(ctx, resolver, flags)
	if err != nil {
		return err
	}

	err = report.Write(stdout, results, flags.output)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if flags.bundle != "" {
		err := writeBundle(flags.bundle, results)
		if err != nil {
			return err
		}

		slog.Debug("Wrote bundle", slog.String("path", flags.bundle))
	}

	for _, result := range results {
		if result != nil && result.Missing() > 0 {
			return exitcode.Error(exitcode.Missing)
		}
	}

	return nil
}

func resolveTargets(
	ctx context.Context,
	resolver *resolve.Resolver,
	flags *flags,
) ([]*resolve.Result, error) {
	if !flags.scan {
		results, err := resolver.ResolveAll(ctx, flags.targets, flags.jobs)
		if err != nil {
			return nil, err
		}

		return results, nil
	}

	var results []*resolve.Result

	for _, dir := range flags.targets {
		dirResults, err := resolver.ScanTree(ctx, dir, flags.jobs)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, ctx.Err())
		}

		if err != nil {
			slog.Warn("Scan incomplete",
				slog.String("dir", dir),
				slog.Any("error", err),
			)
		}

		results = append(results, dirResults...)
	}

	return results, nil
}

func writeBundle(path string, results []*resolve.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	err = archive.WriteClosure(file, results...)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return fmt.Errorf("write bundle: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}

	return nil
}

func printVersion(w io.Writer) int {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		slog.Error(ErrReadBuildInfo.Error())
		return exitcode.Failure
	}

	fmt.Fprintf(w, "Version: %s\n", buildInfo.Main.Version)

	return exitcode.OK
}

func handleParseArgsError(err error) int {
	// Help is not an error.
	if errors.Is(err, ErrHelp) {
		return exitcode.OK
	}

	// Flag errors are already printed along with usage.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return exitcode.Usage
}

func handleRunError(err error) int {
	code, isExitCode := exitcode.From(err)

	// Missing dependencies are already visible in the report.
	if err != nil && !isExitCode {
		slog.Error(err.Error())
	}

	return code
}
