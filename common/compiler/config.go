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
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultRepository is the official Solidity binary repository.
const DefaultRepository = "https://binaries.soliditylang.org"

// Config contains the settings of compiler acquisition.
type Config struct {
	// Repository is the base URL of the binary repository. It must serve
	// <Repository>/<Platform>/list.json and the binaries listed in it.
	Repository string

	// Platform selects the binary flavour, e.g. linux-amd64 or macosx-amd64.
	Platform string

	// CacheDir is where downloaded compilers are kept between runs.
	CacheDir string `toml:",omitempty"`

	// Binaries pins version tags to locally installed solc executables, which
	// are used instead of downloading.
	Binaries map[string]string `toml:",omitempty"`
}

// DefaultConfig contains the default compiler acquisition settings.
var DefaultConfig = Config{
	Repository: DefaultRepository,
	Platform:   DefaultPlatform(),
	CacheDir:   DefaultCacheDir(),
}

// DefaultPlatform returns the binary repository platform of the running host.
// 官方只提供 linux-amd64、macosx-amd64 和 windows-amd64 的原生编译器。
func DefaultPlatform() string {
	switch runtime.GOOS {
	case "darwin":
		return "macosx-amd64"
	case "windows":
		return "windows-amd64"
	default:
		return "linux-amd64"
	}
}

// DefaultCacheDir returns the default location of the compiler cache.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "genesis-compiler", "solc")
	}
	return filepath.Join(os.TempDir(), "genesis-compiler", "solc")
}

// ListURL returns the location of the release list.
func (c *Config) ListURL() string {
	return c.ArtifactURL("list.json")
}

// ArtifactURL returns the download location of a file of the platform directory.
func (c *Config) ArtifactURL(file string) string {
	return strings.TrimRight(c.Repository, "/") + "/" + c.Platform + "/" + file
}
