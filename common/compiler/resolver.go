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
	"context"
	"fmt"
	"os"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
)

// ReadFileFunc reads a file from the local filesystem.
type ReadFileFunc func(path string) ([]byte, error)

// VersionResolver selects the compiler version tag of compilation targets.
type VersionResolver struct {
	releases *Releases
	readFile ReadFileFunc
}

// NewVersionResolver creates a resolver matching pragmas against the given
// releases. A nil readFile reads from the operating system.
func NewVersionResolver(releases *Releases, readFile ReadFileFunc) *VersionResolver {
	if readFile == nil {
		readFile = os.ReadFile
	}
	return &VersionResolver{releases: releases, readFile: readFile}
}

// Resolve returns the version tag of a single target. An explicit version is
// returned as is; otherwise the source pragma is matched against the release
// list, falling back to the latest release when the source has no pragma.
func (r *VersionResolver) Resolve(ctx context.Context, target *Target) (string, error) {
	if target.Version != "" {
		return target.Version, nil
	}
	source, err := r.readFile(target.File)
	if err != nil {
		return "", fmt.Errorf("failed to read contract source: %w", err)
	}
	expr, ok := ParsePragma(source)
	if !ok {
		// No validation that the newest compiler accepts this source.
		log.Warn("No version pragma found, using latest compiler", "file", target.File)
		return LatestTag, nil
	}
	list, err := r.releases.List(ctx)
	if err != nil {
		return "", err
	}
	tag, ok := list.Match(expr)
	if !ok {
		return "", &NoCompilerFoundError{File: target.File, Range: expr}
	}
	log.Debug("Resolved compiler version", "file", target.File, "range", expr, "tag", tag)
	return tag, nil
}

// ResolveAll returns the distinct version tags needed by the given targets,
// sorted for stable reporting.
// 返回去重后的版本集合，同一版本的账户之后共享同一个编译器实例。
func (r *VersionResolver) ResolveAll(ctx context.Context, targets []*Target) ([]string, error) {
	tags := mapset.NewThreadUnsafeSet[string]()
	for _, target := range targets {
		tag, err := r.Resolve(ctx, target)
		if err != nil {
			return nil, err
		}
		tags.Add(tag)
	}
	sorted := tags.ToSlice()
	slices.Sort(sorted)
	return sorted, nil
}
