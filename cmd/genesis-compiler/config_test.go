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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTOML = `
[Solc]
Repository = "https://mirror.example.org/solc"
Platform = "linux-amd64"
CacheDir = "/var/cache/solc"

[Solc.Binaries]
latest = "/usr/local/bin/solc"

[Storage]
Endpoint = "minio.internal:9000"
Region = "eu-central-1"
UseSSL = false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	var cfg genesisCompilerConfig
	require.NoError(t, loadConfig(writeFile(t, "config.toml", testTOML), &cfg))

	assert.Equal(t, "https://mirror.example.org/solc", cfg.Solc.Repository)
	assert.Equal(t, "linux-amd64", cfg.Solc.Platform)
	assert.Equal(t, "/var/cache/solc", cfg.Solc.CacheDir)
	assert.Equal(t, map[string]string{"latest": "/usr/local/bin/solc"}, cfg.Solc.Binaries)
	assert.Equal(t, "minio.internal:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "eu-central-1", cfg.Storage.Region)
	assert.False(t, cfg.Storage.UseSSL)
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := writeFile(t, "config.toml", "[Solc]\nVersion = \"0.8.19\"\n")

	var cfg genesisCompilerConfig
	err := loadConfig(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "field 'Version' is not defined in compiler.Config")
}

func TestDumpConfig(t *testing.T) {
	var (
		config = writeFile(t, "config.toml", testTOML)
		dump   = filepath.Join(t.TempDir(), "dump.toml")
	)
	require.NoError(t, app.Run([]string{clientIdentifier, "dumpconfig", "--config", config, "--solc.platform", "macosx-amd64", "--storage.ssl", dump}))

	var cfg genesisCompilerConfig
	require.NoError(t, loadConfig(dump, &cfg))
	assert.Equal(t, "https://mirror.example.org/solc", cfg.Solc.Repository)
	assert.Equal(t, "macosx-amd64", cfg.Solc.Platform)
	assert.Equal(t, "/usr/local/bin/solc", cfg.Solc.Binaries["latest"])
	assert.True(t, cfg.Storage.UseSSL)
}
