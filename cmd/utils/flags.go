// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for genesis-compiler commands.
package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/genesis-compiler/common/compiler"
	"github.com/ethereum/genesis-compiler/internal/flags"
	"github.com/ethereum/genesis-compiler/internal/objectstore"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// Genesis settings
	OutputFlag = &cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "Destination of the compiled genesis document, a file path or s3://bucket/key",
		Value:    "genesis.json",
		Category: flags.GenesisCategory,
	}

	// Compiler settings
	SolcRepositoryFlag = &cli.StringFlag{
		Name:     "solc.repository",
		Usage:    "Base URL of the solc binary repository",
		Value:    compiler.DefaultConfig.Repository,
		Category: flags.CompilerCategory,
	}
	SolcPlatformFlag = &cli.StringFlag{
		Name:     "solc.platform",
		Usage:    "Binary repository platform (linux-amd64, macosx-amd64, windows-amd64)",
		Value:    compiler.DefaultConfig.Platform,
		Category: flags.CompilerCategory,
	}
	SolcCacheDirFlag = &flags.DirectoryFlag{
		Name:     "solc.cachedir",
		Usage:    "Directory for the downloaded compilers",
		Value:    flags.DirectoryString(compiler.DefaultConfig.CacheDir),
		Category: flags.CompilerCategory,
	}
	SolcBinaryFlag = &cli.StringSliceFlag{
		Name:     "solc.binary",
		Usage:    "Use a local solc executable for a version tag (<tag>=<path>)",
		Category: flags.CompilerCategory,
	}

	// Object storage settings
	StorageEndpointFlag = &cli.StringFlag{
		Name:     "storage.endpoint",
		Usage:    "S3 compatible endpoint (host[:port]) used for s3:// outputs",
		Value:    objectstore.DefaultConfig.Endpoint,
		Category: flags.StorageCategory,
	}
	StorageAccessKeyFlag = &cli.StringFlag{
		Name:     "storage.accesskey",
		Usage:    "Object storage access key",
		Category: flags.StorageCategory,
	}
	StorageSecretKeyFlag = &cli.StringFlag{
		Name:     "storage.secretkey",
		Usage:    "Object storage secret key",
		Category: flags.StorageCategory,
	}
	StorageRegionFlag = &cli.StringFlag{
		Name:     "storage.region",
		Usage:    "Object storage region",
		Value:    objectstore.DefaultConfig.Region,
		Category: flags.StorageCategory,
	}
	StorageSSLFlag = &cli.BoolFlag{
		Name:     "storage.ssl",
		Usage:    "Connect to the object storage over TLS",
		Value:    objectstore.DefaultConfig.UseSSL,
		Category: flags.StorageCategory,
	}
)

var (
	// CompilerFlags is the flag group of compiler acquisition.
	CompilerFlags = []cli.Flag{
		SolcRepositoryFlag,
		SolcPlatformFlag,
		SolcCacheDirFlag,
		SolcBinaryFlag,
	}
	// StorageFlags is the flag group of the object store.
	StorageFlags = []cli.Flag{
		StorageEndpointFlag,
		StorageAccessKeyFlag,
		StorageSecretKeyFlag,
		StorageRegionFlag,
		StorageSSLFlag,
	}
)

// SetSolcConfig applies compiler related command line flags to the config.
func SetSolcConfig(ctx *cli.Context, cfg *compiler.Config) error {
	if ctx.IsSet(SolcRepositoryFlag.Name) {
		cfg.Repository = ctx.String(SolcRepositoryFlag.Name)
	}
	if ctx.IsSet(SolcPlatformFlag.Name) {
		cfg.Platform = ctx.String(SolcPlatformFlag.Name)
	}
	if ctx.IsSet(SolcCacheDirFlag.Name) {
		cfg.CacheDir = ctx.String(SolcCacheDirFlag.Name)
	}
	for _, pin := range ctx.StringSlice(SolcBinaryFlag.Name) {
		tag, path, ok := strings.Cut(pin, "=")
		if !ok || tag == "" || path == "" {
			return fmt.Errorf("invalid --%s %q, expected <tag>=<path>", SolcBinaryFlag.Name, pin)
		}
		if cfg.Binaries == nil {
			cfg.Binaries = make(map[string]string)
		}
		cfg.Binaries[tag] = path
	}
	return nil
}

// SetStorageConfig applies object storage related command line flags to the config.
func SetStorageConfig(ctx *cli.Context, cfg *objectstore.Config) {
	if ctx.IsSet(StorageEndpointFlag.Name) {
		cfg.Endpoint = ctx.String(StorageEndpointFlag.Name)
	}
	if ctx.IsSet(StorageAccessKeyFlag.Name) {
		cfg.AccessKey = ctx.String(StorageAccessKeyFlag.Name)
	}
	if ctx.IsSet(StorageSecretKeyFlag.Name) {
		cfg.SecretKey = ctx.String(StorageSecretKeyFlag.Name)
	}
	if ctx.IsSet(StorageRegionFlag.Name) {
		cfg.Region = ctx.String(StorageRegionFlag.Name)
	}
	if ctx.IsSet(StorageSSLFlag.Name) {
		cfg.UseSSL = ctx.Bool(StorageSSLFlag.Name)
	}
}
