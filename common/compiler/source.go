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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Target describes one contract to compile.
type Target struct {
	File      string          // path of the root source file
	Contract  string          // name of the contract within the file
	Version   string          // explicit version tag, empty to infer from the pragma
	Optimizer json.RawMessage // optimizer settings, nil for engine defaults
}

var errNotUTF8 = errors.New("file is not valid UTF-8")

// CompileContract compiles the target contract with the given engine and
// returns its ABI and creation bytecode.
//
// The root source is registered under its base name only: the name ends up in
// the metadata hash appended to the bytecode, so a directory dependent name
// would make the output differ between machines.
// 只使用文件名而不是完整路径，否则字节码中的元数据哈希会随目录结构变化。
func CompileContract(compiler Compiler, target *Target, readFile ReadFileFunc) (*Result, error) {
	if readFile == nil {
		readFile = os.ReadFile
	}
	content, err := readFile(target.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract source: %w", err)
	}
	name := filepath.Base(target.File)
	input := &Input{
		Language: "Solidity",
		Sources: map[string]Source{
			name: {Content: string(content)},
		},
		Settings: Settings{
			Optimizer: target.Optimizer,
			OutputSelection: map[string]map[string][]string{
				name: {target.Contract: {"abi", "evm.bytecode"}},
			},
		},
	}
	output, err := compiler.Compile(input, NewImportResolver(target.File, readFile))
	if err != nil {
		return nil, err
	}
	contract, ok := output.Contracts[name][target.Contract]
	if !ok {
		return nil, &CompilationFailedError{
			File:        target.File,
			Contract:    target.Contract,
			Diagnostics: output.Errors,
		}
	}
	return &Result{
		ABI:  contract.ABI,
		Code: "0x" + contract.EVM.Bytecode.Object,
	}, nil
}

// NewImportResolver returns the import callback of a root source file.
//
// Import paths without a separator and explicitly relative paths are resolved
// against the directory of the root file. Other relative paths are looked up
// next to the root file first and then relative to the working directory.
// 没有路径分隔符的导入（如 "lib.sol"）视为与根文件同目录的文件。
func NewImportResolver(root string, readFile ReadFileFunc) ImportCallback {
	dir := filepath.Dir(root)
	return func(path string) (string, error) {
		for _, candidate := range importCandidates(dir, path) {
			content, err := readFile(candidate)
			if err != nil {
				continue
			}
			if !utf8.Valid(content) {
				return "", fmt.Errorf("%s: %w", path, errNotUTF8)
			}
			return string(content), nil
		}
		return "", fmt.Errorf("error reading file %s", path)
	}
}

func importCandidates(dir, path string) []string {
	switch {
	case filepath.IsAbs(path):
		return []string{path}
	case !strings.ContainsAny(path, `/\`):
		return []string{filepath.Join(dir, path)}
	case strings.HasPrefix(path, "./"), strings.HasPrefix(path, "../"):
		return []string{filepath.Join(dir, filepath.FromSlash(path))}
	default:
		return []string{filepath.Join(dir, filepath.FromSlash(path)), filepath.FromSlash(path)}
	}
}
