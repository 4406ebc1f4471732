// Copyright 2024 The go-ethereum Authors
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

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/ethereum/genesis-compiler/cmd/utils"
	"github.com/ethereum/genesis-compiler/common/compiler"
	"github.com/ethereum/genesis-compiler/genesis"
	"github.com/ethereum/genesis-compiler/internal/objectstore"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var compileCommand = &cli.Command{
	Action:    compileGenesis,
	Name:      "compile",
	Usage:     "Compile the contract accounts of a genesis document",
	ArgsUsage: "<genesisPath>",
	Flags:     slices.Concat([]cli.Flag{configFileFlag, utils.OutputFlag}, utils.CompilerFlags, utils.StorageFlags),
	Description: `
The compile command reads a JSON or YAML genesis document, compiles every
account whose constructor references a Solidity source file and writes the
document with the resulting initcode in place of the constructor description.

Compilers are selected from the version pragma of each source unless the
account pins a version, downloaded once per version and cached on disk.
The output is only written if every account compiled successfully.`,
}

// compileGenesis is the compile command.
func compileGenesis(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return errors.New("need genesis config file as the only argument")
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	// Check the destination before any compiler is downloaded.
	dest := ctx.String(utils.OutputFlag.Name)
	var (
		store *objectstore.Store
		loc   objectstore.Location
	)
	if objectstore.IsLocation(dest) {
		if loc, err = objectstore.ParseLocation(dest); err != nil {
			return err
		}
		if store, err = objectstore.New(cfg.Storage); err != nil {
			return err
		}
	}
	config, err := genesis.LoadConfig(ctx.Args().First())
	if err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		releases = compiler.NewReleases(compiler.NewHTTPReleaseFetcher(&cfg.Solc, nil))
		loader   = compiler.NewSolcLoader(&cfg.Solc, releases, nil)
		resolver = compiler.NewVersionResolver(releases, nil)
		pipeline = genesis.NewPipeline(resolver, compiler.NewCache(loader), nil)
	)
	out, err := pipeline.Run(runCtx, config)
	if err != nil {
		return err
	}
	return writeOutput(runCtx, out, dest, store, loc)
}

// writeOutput stores the compiled document either in object storage or in a
// local file.
func writeOutput(ctx context.Context, out *genesis.Output, dest string, store *objectstore.Store, loc objectstore.Location) error {
	if store == nil {
		if err := out.WriteFile(dest); err != nil {
			return err
		}
		log.Info("Wrote genesis document", "path", dest)
		return nil
	}
	blob, err := out.Bytes()
	if err != nil {
		return err
	}
	return store.Upload(ctx, loc, blob, "application/json")
}
