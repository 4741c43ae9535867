// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package resolve

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves all given binaries with at most jobs resolutions at a
// time. A jobs value below 1 means no limit.
//
// Each binary gets its own walk state. The results are in the order of the
// paths. An error is only returned if the context is done before all
// binaries are resolved. The results of binaries not resolved are nil then.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	paths []string,
	jobs int,
) ([]*Result, error) {
	results := make([]*Result, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		eg.SetLimit(jobs)
	}

	for idx, path := range paths {
		eg.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[idx] = r.Resolve(path)

			return nil
		})
	}

	err := eg.Wait()
	if err != nil {
		return results, fmt.Errorf("resolve all: %w", err)
	}

	return results, nil
}

// ScanTree resolves all executable regular files below root. See
// [Resolver.ResolveAll].
//
// Symbolic links are not followed. Directories that can not be read are
// skipped and returned as error along with the results of all other files.
func (r *Resolver) ScanTree(
	ctx context.Context,
	root string,
	jobs int,
) ([]*Result, error) {
	paths, walkErr := FindExecutables(root)

	results, err := r.ResolveAll(ctx, paths, jobs)
	if err != nil {
		walkErr = multierror.Append(walkErr, err)
	}

	return results, walkErr
}

// FindExecutables returns all regular files below root with any execute
// permission bit set, in lexical order.
//
// Unreadable directories are skipped. Their errors are returned as
// [*multierror.Error] along with all files found.
func FindExecutables(root string) ([]string, error) {
	var (
		paths    []string
		walkErrs *multierror.Error
	)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			walkErrs = multierror.Append(walkErrs, err)

			return nil
		}

		// Cheap check without stat(2) first.
		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			walkErrs = multierror.Append(walkErrs, err)
			return nil
		}

		if info.Mode().Perm()&0o111 != 0 {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		walkErrs = multierror.Append(walkErrs, fmt.Errorf("walk %s: %w", root, err))
	}

	return paths, walkErrs.ErrorOrNil()
}
