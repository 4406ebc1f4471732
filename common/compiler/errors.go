// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownVersion is returned when a version tag names no build of the
	// configured release list.
	ErrUnknownVersion = errors.New("unknown compiler version")

	// ErrChecksumMismatch is returned when a downloaded compiler does not match
	// the checksums published in the release list.
	ErrChecksumMismatch = errors.New("compiler checksum mismatch")

	// ErrCacheLocked is returned when the compiler cache directory could not be
	// locked before the context expired.
	ErrCacheLocked = errors.New("compiler cache directory is locked")
)

// NoCompilerFoundError is returned when no known release satisfies the version
// range of a source file pragma.
type NoCompilerFoundError struct {
	File  string
	Range string
}

func (e *NoCompilerFoundError) Error() string {
	return fmt.Sprintf("no compiler found for version %s (%s)", e.Range, e.File)
}

// CompilerLoadError is returned when a compiler engine could not be acquired.
type CompilerLoadError struct {
	Tag string
	Err error
}

func (e *CompilerLoadError) Error() string {
	return fmt.Sprintf("failed to load compiler %s: %v", e.Tag, e.Err)
}

func (e *CompilerLoadError) Unwrap() error {
	return e.Err
}

// CompilationFailedError is returned when the compiler produced no output for
// the requested contract. It carries the diagnostics reported by the engine.
type CompilationFailedError struct {
	File        string
	Contract    string
	Diagnostics []Diagnostic
}

func (e *CompilationFailedError) Error() string {
	msg := fmt.Sprintf("compilation of %s:%s failed", e.File, e.Contract)
	if len(e.Diagnostics) == 0 {
		return msg
	}
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, strings.TrimSpace(d.String()))
	}
	return msg + ":\n" + strings.Join(lines, "\n")
}
