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

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/genesis-compiler/common/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine answers every requested contract with a fixed ABI and bytecode.
type testEngine struct {
	tag  string
	abi  []compiler.ABIEntry
	code string

	lock   sync.Mutex
	inputs []*compiler.Input
}

func (e *testEngine) Version() string { return e.tag }

func (e *testEngine) Compile(input *compiler.Input, imports compiler.ImportCallback) (*compiler.Output, error) {
	e.lock.Lock()
	e.inputs = append(e.inputs, input)
	e.lock.Unlock()

	out := &compiler.Output{Contracts: make(map[string]map[string]compiler.Contract)}
	for file, selection := range input.Settings.OutputSelection {
		out.Contracts[file] = make(map[string]compiler.Contract)
		for name := range selection {
			if name == "Broken" {
				out.Errors = append(out.Errors, compiler.Diagnostic{Severity: "error", Type: "TypeError", Message: "boom"})
				continue
			}
			contract := compiler.Contract{ABI: e.abi}
			contract.EVM.Bytecode.Object = e.code
			out.Contracts[file][name] = contract
		}
	}
	return out, nil
}

type testLoader struct {
	engines map[string]*testEngine

	lock  sync.Mutex
	loads []string
}

func (l *testLoader) Load(ctx context.Context, tag string) (compiler.Compiler, error) {
	l.lock.Lock()
	l.loads = append(l.loads, tag)
	l.lock.Unlock()

	engine, ok := l.engines[tag]
	if !ok {
		return nil, fmt.Errorf("no engine for %s", tag)
	}
	return engine, nil
}

type testFetcher struct {
	list *compiler.ReleaseList
}

func (f *testFetcher) FetchReleases(ctx context.Context) (*compiler.ReleaseList, error) {
	if f.list == nil {
		return nil, errors.New("offline")
	}
	return f.list, nil
}

func memoryFiles(files map[string]string) compiler.ReadFileFunc {
	return func(path string) ([]byte, error) {
		content, ok := files[filepath.ToSlash(path)]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		return []byte(content), nil
	}
}

func newTestPipeline(loader *testLoader, list *compiler.ReleaseList, files map[string]string) *Pipeline {
	readFile := memoryFiles(files)
	resolver := compiler.NewVersionResolver(compiler.NewReleases(&testFetcher{list: list}), readFile)
	return NewPipeline(resolver, compiler.NewCache(loader), readFile)
}

func TestPipelineRun(t *testing.T) {
	engine := &testEngine{tag: "v0.8.19+commit.7dd6d404", abi: ownerCapResult().ABI, code: "6080"}
	loader := &testLoader{engines: map[string]*testEngine{engine.tag: engine}}
	pipeline := newTestPipeline(loader, nil, map[string]string{
		"contracts/Token.sol": "pragma solidity ^0.8.0;\ncontract Token {}\n",
	})
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)

	out, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	// Precompiled accounts are passed through byte for byte.
	compiled, ok := out.Account("0x0000000000000000000000000000000000001001")
	require.True(t, ok)
	assert.Equal(t, `"0x6001"`, string(compiled))

	var token map[string]json.RawMessage
	raw, _ := out.Account("0x0000000000000000000000000000000000001002")
	require.NoError(t, json.Unmarshal(raw, &token))
	assert.NotContains(t, token, nameKey)
	assert.JSONEq(t, `"0x0"`, string(token["balance"]))

	var code string
	require.NoError(t, json.Unmarshal(token[constructorKey], &code))
	assert.True(t, strings.HasPrefix(code, "0x6080"))
	assert.Len(t, code, len("0x6080")+128)

	var literal map[string]json.RawMessage
	raw, _ = out.Account("0x0000000000000000000000000000000000001003")
	require.NoError(t, json.Unmarshal(raw, &literal))
	assert.NotContains(t, literal, nameKey)
	assert.JSONEq(t, `"0x6003"`, string(literal[constructorKey]))

	// The engine received the base name and the configured optimizer.
	require.Len(t, engine.inputs, 1)
	assert.Contains(t, engine.inputs[0].Sources, "Token.sol")
	assert.JSONEq(t, `{"enabled": true, "runs": 200}`, string(engine.inputs[0].Settings.Optimizer))
	assert.Equal(t, []string{engine.tag}, loader.loads)
}

func TestPipelineSharesCompilers(t *testing.T) {
	var (
		latest = &testEngine{tag: compiler.LatestTag, code: "01"}
		pinned = &testEngine{tag: "v0.8.19+commit.7dd6d404", code: "02"}
		loader = &testLoader{engines: map[string]*testEngine{latest.tag: latest, pinned.tag: pinned}}
		list   = &compiler.ReleaseList{Releases: map[string]string{"0.8.19": "soljson-v0.8.19+commit.7dd6d404.js"}}
	)
	pipeline := newTestPipeline(loader, list, map[string]string{
		"A.sol": "contract A {}\n",
		"B.sol": "pragma solidity >=0.8.0 <0.9.0;\ncontract B {}\n",
	})
	cfg, err := ParseConfig([]byte(`{"accounts": {
		"0x01": {"constructor": {"compiler": {"file": "A.sol", "contractName": "A"}}},
		"0x02": {"constructor": {"compiler": {"file": "B.sol", "contractName": "B"}}},
		"0x03": {"constructor": {"compiler": {"file": "A.sol", "contractName": "A"}}},
		"0x04": {"constructor": {"compiler": {"file": "B.sol", "contractName": "B", "version": "v0.8.19+commit.7dd6d404"}}}
	}}`))
	require.NoError(t, err)

	out, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{compiler.LatestTag, pinned.tag}, loader.loads)
	assert.Len(t, latest.inputs, 2)
	assert.Len(t, pinned.inputs, 2)

	raw, _ := out.Account("0x01")
	assert.JSONEq(t, `{"constructor": "0x01"}`, string(raw))
	raw, _ = out.Account("0x04")
	assert.JSONEq(t, `{"constructor": "0x02"}`, string(raw))
}

func TestPipelineFailures(t *testing.T) {
	engine := &testEngine{tag: "v0.8.19", abi: ownerCapResult().ABI, code: "6080"}
	files := map[string]string{
		"A.sol":      "contract A {}\n",
		"future.sol": "pragma solidity ^0.9.0;\n",
	}
	list := &compiler.ReleaseList{Releases: map[string]string{"0.8.19": "soljson-v0.8.19+commit.7dd6d404.js"}}

	tests := []struct {
		name   string
		config string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "no compiler found",
			config: `{"accounts": {"0x01": {"constructor": {"compiler": {"file": "future.sol", "contractName": "F"}}}}}`,
			check: func(t *testing.T, err error) {
				var notFound *compiler.NoCompilerFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "^0.9.0", notFound.Range)
				assert.Contains(t, err.Error(), "0x01")
			},
		},
		{
			name:   "load failure",
			config: `{"accounts": {"0x01": {"constructor": {"compiler": {"file": "A.sol", "contractName": "A", "version": "v0.4.0"}}}}}`,
			check: func(t *testing.T, err error) {
				var load *compiler.CompilerLoadError
				require.ErrorAs(t, err, &load)
				assert.Equal(t, "v0.4.0", load.Tag)
			},
		},
		{
			name:   "compilation failure",
			config: `{"accounts": {"0x01": {"constructor": {"compiler": {"file": "A.sol", "contractName": "Broken", "version": "v0.8.19"}}}}}`,
			check: func(t *testing.T, err error) {
				var failed *compiler.CompilationFailedError
				require.ErrorAs(t, err, &failed)
				require.Len(t, failed.Diagnostics, 1)
				assert.Equal(t, "boom", failed.Diagnostics[0].Message)
			},
		},
		{
			name:   "missing parameters",
			config: `{"accounts": {"0x01": {"constructor": {"compiler": {"file": "A.sol", "contractName": "A", "version": "v0.8.19"}}}}}`,
			check: func(t *testing.T, err error) {
				var missing *MissingParametersError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "0x01", missing.Account)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &testLoader{engines: map[string]*testEngine{engine.tag: engine}}
			cfg, err := ParseConfig([]byte(tt.config))
			require.NoError(t, err)

			out, err := newTestPipeline(loader, list, files).Run(context.Background(), cfg)
			assert.Nil(t, out)
			tt.check(t, err)
		})
	}
}

func TestOutputWriteFile(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"config": {"extra": "<&>"}, "accounts": {"0x02": "0x02", "0x01": {"name": "x", "balance": "0x1"}}}`))
	require.NoError(t, err)
	out, err := newTestPipeline(&testLoader{}, nil, nil).Run(context.Background(), cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, out.WriteFile(path))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `{
  "accounts": {
    "0x01": {
      "balance": "0x1"
    },
    "0x02": "0x02"
  },
  "config": {
    "extra": "<&>"
  }
}
`
	assert.Equal(t, want, string(blob))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}
