// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode defines the exit codes of the ldresolve command.
package exitcode

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	// OK means all dependencies were found.
	OK = 0
	// Missing means at least one dependency was not found or has a
	// different ELF class.
	Missing = 1
	// Usage means the command line or the config file is invalid.
	Usage = 2
	// Failure is used for any other error.
	Failure = -1
)

// Error is an exit code carried as error. It is returned by operations that
// did their job but need the command to exit with a non-zero code.
type Error int

func (e Error) Error() string {
	return fmt.Sprintf("exit code: %d", int(e))
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns the exit code for the given error and whether the error is an
// [Error].
//
// If the error is nil, the exit code is [OK]. If the error is an [Error],
// the exit code is its [Error.Code]. Otherwise it is [Failure].
func From(err error) (int, bool) {
	if err == nil {
		return OK, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Failure, false
}
