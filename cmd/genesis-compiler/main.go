// Copyright 2014 The go-ethereum Authors
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

// genesis-compiler compiles the Solidity contracts referenced by a genesis
// document and writes the document with their initcode filled in.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/ethereum/genesis-compiler/cmd/utils"
	"github.com/ethereum/genesis-compiler/internal/debug"
	"github.com/ethereum/genesis-compiler/internal/flags"
	"github.com/ethereum/genesis-compiler/internal/version"
	"github.com/urfave/cli/v2"
)

const (
	clientIdentifier = "genesis-compiler"
	envPrefix        = "GENESIS_COMPILER"
)

var app = flags.NewApp("the genesis contract compiler")

var versionCommand = &cli.Command{
	Action: func(ctx *cli.Context) error {
		fmt.Println(clientIdentifier)
		fmt.Print(version.Info())
		return nil
	},
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
}

func init() {
	app.Name = clientIdentifier
	app.Flags = slices.Clone(debug.Flags)
	app.Commands = []*cli.Command{
		compileCommand,
		dumpConfigCommand,
		versionCommand,
	}
	// Every flag can also be given as GENESIS_COMPILER_<FLAG>, which keeps
	// storage secrets off the command line.
	all := slices.Concat(app.Flags, compileCommand.Flags)
	flags.AutoEnvVars(all, envPrefix)

	app.Before = func(ctx *cli.Context) error {
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		flags.CheckEnvVars(ctx, all, envPrefix)
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		utils.Fatalf("%v", err)
	}
}
