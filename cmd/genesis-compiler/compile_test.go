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
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSolc ignores its input and reports one compiled contract.
const fakeSolc = `#!/bin/sh
cat >/dev/null
printf '%s\n' '{"contracts":{"Token.sol":{"Token":{"abi":[{"type":"constructor","inputs":[{"name":"cap","type":"uint256"}]}],"evm":{"bytecode":{"object":"6080"}}}}}}'
`

func TestCompileCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler not supported on windows")
	}
	dir := t.TempDir()
	solc := filepath.Join(dir, "solc")
	require.NoError(t, os.WriteFile(solc, []byte(fakeSolc), 0755))
	source := filepath.Join(dir, "Token.sol")
	require.NoError(t, os.WriteFile(source, []byte("pragma solidity ^0.8.0;\ncontract Token {}\n"), 0644))

	file, _ := json.Marshal(source)
	genesis := writeFile(t, "genesis.json", `{
		"config": {"chainId": 1337},
		"accounts": {
			"0x0000000000000000000000000000000000001000": "0x6001",
			"0x0000000000000000000000000000000000001001": {
				"name": "Token",
				"balance": "0x0",
				"constructor": {
					"compiler": {"file": `+string(file)+`, "contractName": "Token", "version": "v0.8.19"},
					"constructorParameters": [{"name": "cap", "type": "uint256", "value": 1000}]
				}
			}
		}
	}`)
	output := filepath.Join(dir, "out.json")
	require.NoError(t, app.Run([]string{clientIdentifier, "compile", "--solc.binary", "v0.8.19=" + solc, "-o", output, genesis}))

	blob, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc struct {
		Config   json.RawMessage
		Accounts map[string]json.RawMessage
	}
	require.NoError(t, json.Unmarshal(blob, &doc))
	assert.JSONEq(t, `{"chainId": 1337}`, string(doc.Config))
	assert.JSONEq(t, `"0x6001"`, string(doc.Accounts["0x0000000000000000000000000000000000001000"]))
	assert.JSONEq(t, `{
		"balance": "0x0",
		"constructor": "0x6080`+strings.Repeat("0", 61)+`3e8"
	}`, string(doc.Accounts["0x0000000000000000000000000000000000001001"]))
}

func TestCompileCommandErrors(t *testing.T) {
	genesis := writeFile(t, "genesis.json", `{"accounts": {}}`)
	output := filepath.Join(t.TempDir(), "out.json")

	err := app.Run([]string{clientIdentifier, "compile", "-o", "s3://bucket", genesis})
	assert.ErrorContains(t, err, "invalid object storage location")

	err = app.Run([]string{clientIdentifier, "compile", "-o", output})
	assert.ErrorContains(t, err, "need genesis config file")

	err = app.Run([]string{clientIdentifier, "compile", "-o", output, writeFile(t, "bad.json", `{"accounts": 1}`)})
	assert.ErrorContains(t, err, "invalid genesis config")
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}
