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
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	list  *ReleaseList
	err   error
	calls atomic.Int32
}

func (f *staticFetcher) FetchReleases(ctx context.Context) (*ReleaseList, error) {
	f.calls.Add(1)
	return f.list, f.err
}

func testReleaseList() *ReleaseList {
	return &ReleaseList{
		Releases: map[string]string{
			"0.8.0":  "soljson-v0.8.0+commit.c7dfd78e.js",
			"0.8.1":  "soljson-v0.8.1+commit.df193b15.js",
			"0.8.19": "soljson-v0.8.19+commit.7dd6d404.js",
			"0.7.6":  "soljson-v0.7.6+commit.7338295f.js",
		},
		LatestRelease: "0.8.19",
	}
}

// sourceFiles serves file contents from memory and fails for anything else.
func sourceFiles(files map[string]string) ReadFileFunc {
	return func(path string) ([]byte, error) {
		content, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(content), nil
	}
}

func TestResolveExplicitVersion(t *testing.T) {
	fetcher := &staticFetcher{err: errors.New("offline")}
	resolver := NewVersionResolver(NewReleases(fetcher), sourceFiles(nil))

	tag, err := resolver.Resolve(context.Background(), &Target{File: "missing.sol", Version: "v0.6.12+commit.27d51765"})
	require.NoError(t, err)
	assert.Equal(t, "v0.6.12+commit.27d51765", tag)
	assert.Zero(t, fetcher.calls.Load(), "release list should not be fetched")
}

func TestResolvePragma(t *testing.T) {
	fetcher := &staticFetcher{list: testReleaseList()}
	files := sourceFiles(map[string]string{
		"token.sol": "// SPDX-License-Identifier: MIT\npragma solidity ^0.8.0;\n\ncontract Token {}\n",
		"other.sol": "pragma solidity 0.7.6;\ncontract Other {}\n",
	})
	resolver := NewVersionResolver(NewReleases(fetcher), files)

	tag, err := resolver.Resolve(context.Background(), &Target{File: "token.sol"})
	require.NoError(t, err)
	assert.Equal(t, "v0.8.19+commit.7dd6d404", tag)

	tag, err = resolver.Resolve(context.Background(), &Target{File: "other.sol"})
	require.NoError(t, err)
	assert.Equal(t, "v0.7.6+commit.7338295f", tag)
	assert.Equal(t, int32(1), fetcher.calls.Load(), "release list should be fetched once")
}

func TestResolveNoCompilerFound(t *testing.T) {
	fetcher := &staticFetcher{list: testReleaseList()}
	files := sourceFiles(map[string]string{
		"future.sol": "pragma solidity ^0.9.0;\n",
	})
	resolver := NewVersionResolver(NewReleases(fetcher), files)

	_, err := resolver.Resolve(context.Background(), &Target{File: "future.sol"})
	var notFound *NoCompilerFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "^0.9.0", notFound.Range)
	assert.Contains(t, err.Error(), "^0.9.0")
}

func TestResolveLatestWithoutPragma(t *testing.T) {
	fetcher := &staticFetcher{list: testReleaseList()}
	files := sourceFiles(map[string]string{
		"plain.sol": "contract Plain {}\n",
	})
	resolver := NewVersionResolver(NewReleases(fetcher), files)

	tag, err := resolver.Resolve(context.Background(), &Target{File: "plain.sol"})
	require.NoError(t, err)
	assert.Equal(t, LatestTag, tag)
}

func TestResolveFetchFailure(t *testing.T) {
	fetcher := &staticFetcher{err: errors.New("connection refused")}
	files := sourceFiles(map[string]string{"a.sol": "pragma solidity ^0.8.0;\n"})
	resolver := NewVersionResolver(NewReleases(fetcher), files)

	_, err := resolver.Resolve(context.Background(), &Target{File: "a.sol"})
	require.ErrorContains(t, err, "connection refused")
}

func TestResolveAllDeduplicates(t *testing.T) {
	fetcher := &staticFetcher{list: testReleaseList()}
	files := sourceFiles(map[string]string{
		"a.sol": "pragma solidity ^0.8.0;\n",
		"b.sol": "pragma solidity >=0.8.1;\n",
		"c.sol": "contract C {}\n",
	})
	resolver := NewVersionResolver(NewReleases(fetcher), files)

	tags, err := resolver.ResolveAll(context.Background(), []*Target{
		{File: "a.sol"},
		{File: "b.sol"},
		{File: "c.sol"},
		{File: "d.sol", Version: "0.7.6"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0.7.6", LatestTag, "v0.8.19+commit.7dd6d404"}, tags)
}
