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

// Package genesis compiles the contract accounts of a genesis document into
// their creation bytecode.
package genesis

import (
	"bytes"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/genesis-compiler/common/compiler"
)

const (
	accountsKey    = "accounts"
	nameKey        = "name"
	constructorKey = "constructor"
)

// Config is a parsed genesis document. Besides the accounts, every top level
// field is kept as is and written back unchanged.
type Config struct {
	Accounts map[string]Account
	fields   map[string]json.RawMessage
}

// Account is either a CompiledAccount or a SpecAccount.
type Account interface {
	isAccount()
}

// CompiledAccount is an account given directly as a byte string.
type CompiledAccount struct {
	Raw json.RawMessage
}

// SpecAccount is an account described by an object.
// 对象形式的账户：name 只是元数据，constructor 描述如何生成合约代码。
type SpecAccount struct {
	Name        string
	Constructor Constructor // nil if the account has no constructor field
	Fields      map[string]json.RawMessage
}

func (*CompiledAccount) isAccount() {}
func (*SpecAccount) isAccount()     {}

// Constructor is either a LiteralConstructor or a CompiledConstructor.
type Constructor interface {
	isConstructor()
}

// LiteralConstructor is precompiled bytecode, passed through untouched.
type LiteralConstructor struct {
	Raw json.RawMessage
}

// CompiledConstructor is a contract that has to be compiled from source.
type CompiledConstructor struct {
	Compiler CompilerRef

	// Parameters is nil when the config has no parameter list at all, which
	// differs from an empty list.
	Parameters []Parameter
}

func (*LiteralConstructor) isConstructor()  {}
func (*CompiledConstructor) isConstructor() {}

// CompilerRef selects the source and compiler of a contract.
type CompilerRef struct {
	File         string            `json:"file"`
	ContractName string            `json:"contractName"`
	Version      string            `json:"version,omitempty"`
	Settings     *CompilerSettings `json:"settings,omitempty"`
}

// CompilerSettings are the compiler settings an account may override.
type CompilerSettings struct {
	Optimizer json.RawMessage `json:"optimizer,omitempty"`
}

// Target converts the reference into a compilation target.
func (r *CompilerRef) Target() *compiler.Target {
	target := &compiler.Target{
		File:     r.File,
		Contract: r.ContractName,
		Version:  r.Version,
	}
	if r.Settings != nil {
		target.Optimizer = r.Settings.Optimizer
	}
	return target
}

// Parameter is a named and typed constructor argument.
type Parameter struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Addresses returns the account keys in ascending order.
func (c *Config) Addresses() []string {
	return slices.Sorted(maps.Keys(c.Accounts))
}

// LoadConfig reads a genesis document from a JSON or YAML file. The format is
// chosen by file extension.
func LoadConfig(path string) (*Config, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidConfigError{Reason: "cannot read " + path, Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if blob, err = yamlToJSON(blob); err != nil {
			return nil, &InvalidConfigError{Reason: "invalid YAML", Err: err}
		}
	}
	return ParseConfig(blob)
}

// ParseConfig parses a JSON genesis document.
func ParseConfig(blob []byte) (*Config, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, &InvalidConfigError{Reason: "invalid JSON", Err: err}
	}
	if fields == nil {
		return nil, &InvalidConfigError{Reason: "document is not an object"}
	}
	rawAccounts, ok := fields[accountsKey]
	if !ok {
		return nil, &InvalidConfigError{Location: accountsKey, Reason: "missing"}
	}
	delete(fields, accountsKey)

	var accounts map[string]json.RawMessage
	if err := json.Unmarshal(rawAccounts, &accounts); err != nil || accounts == nil {
		return nil, &InvalidConfigError{Location: accountsKey, Reason: "must be an object", Err: err}
	}
	cfg := &Config{
		Accounts: make(map[string]Account, len(accounts)),
		fields:   fields,
	}
	for addr, raw := range accounts {
		account, err := parseAccount(accountsKey+"."+addr, raw)
		if err != nil {
			return nil, err
		}
		cfg.Accounts[addr] = account
	}
	return cfg, nil
}

func parseAccount(loc string, raw json.RawMessage) (Account, error) {
	switch firstByte(raw) {
	case '"':
		return &CompiledAccount{Raw: raw}, nil
	case '{':
	default:
		return nil, &InvalidConfigError{Location: loc, Reason: "account must be a byte string or an object"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &InvalidConfigError{Location: loc, Err: err}
	}
	account := &SpecAccount{Fields: fields}
	if name, ok := fields[nameKey]; ok {
		if err := json.Unmarshal(name, &account.Name); err != nil {
			return nil, &InvalidConfigError{Location: loc + "." + nameKey, Reason: "must be a string"}
		}
		delete(fields, nameKey)
	}
	if ctor, ok := fields[constructorKey]; ok {
		constructor, err := parseConstructor(loc+"."+constructorKey, ctor)
		if err != nil {
			return nil, err
		}
		account.Constructor = constructor
		delete(fields, constructorKey)
	}
	return account, nil
}

func parseConstructor(loc string, raw json.RawMessage) (Constructor, error) {
	switch firstByte(raw) {
	case '"':
		return &LiteralConstructor{Raw: raw}, nil
	case '{':
	default:
		return nil, &InvalidConfigError{Location: loc, Reason: "constructor must be a byte string or an object"}
	}
	var spec struct {
		Compiler   *CompilerRef `json:"compiler"`
		Parameters []Parameter  `json:"constructorParameters"`
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, &InvalidConfigError{Location: loc, Err: err}
	}
	switch {
	case spec.Compiler == nil:
		return nil, &InvalidConfigError{Location: loc + ".compiler", Reason: "missing"}
	case spec.Compiler.File == "":
		return nil, &InvalidConfigError{Location: loc + ".compiler.file", Reason: "missing"}
	case spec.Compiler.ContractName == "":
		return nil, &InvalidConfigError{Location: loc + ".compiler.contractName", Reason: "missing"}
	}
	if s := spec.Compiler.Settings; s != nil {
		switch firstByte(s.Optimizer) {
		case 0, '{':
		case 'n':
			s.Optimizer = nil
		default:
			return nil, &InvalidConfigError{Location: loc + ".compiler.settings.optimizer", Reason: "must be an object"}
		}
	}
	for i, param := range spec.Parameters {
		if param.Type == "" {
			return nil, &InvalidConfigError{Location: loc + ".constructorParameters", Reason: "parameter " + strconv.Itoa(i) + " needs a type"}
		}
	}
	return &CompiledConstructor{Compiler: *spec.Compiler, Parameters: spec.Parameters}, nil
}

func firstByte(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
