// Copyright 2019 The go-ethereum Authors
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

// Package compiler wraps the Solidity compiler (solc) for genesis state generation.
// It resolves the compiler release each contract needs, downloads and caches the
// compiler binaries and drives them through the standard JSON interface.
// 它负责为每个合约选择 solc 版本、下载并缓存编译器，并通过标准 JSON 接口调用编译器。
package compiler

import "encoding/json"

// Input is the standard JSON compiler input description.
// See https://docs.soliditylang.org/en/latest/using-the-compiler.html#input-description
type Input struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

// Source is a single source unit handed to the compiler.
type Source struct {
	Content string `json:"content"`
}

// Settings holds the subset of compiler settings used for genesis contracts.
type Settings struct {
	// Optimizer is forwarded verbatim when the genesis config carries one,
	// otherwise the engine defaults apply.
	Optimizer       json.RawMessage                `json:"optimizer,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// Output is the standard JSON compiler output description.
type Output struct {
	Errors    []Diagnostic                   `json:"errors,omitempty"`
	Sources   map[string]json.RawMessage     `json:"sources,omitempty"`
	Contracts map[string]map[string]Contract `json:"contracts,omitempty"`
}

// Diagnostic is an error or warning reported by the compiler.
// 编译器返回的错误或警告信息。
type Diagnostic struct {
	Component        string `json:"component,omitempty"`
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage,omitempty"`
}

func (d Diagnostic) String() string {
	if d.FormattedMessage != "" {
		return d.FormattedMessage
	}
	return d.Type + ": " + d.Message
}

// Contract contains the requested outputs of a compiled contract.
type Contract struct {
	ABI []ABIEntry `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// ABIEntry is one element of a contract ABI definition. Only the fields needed
// to locate and check the constructor are decoded.
type ABIEntry struct {
	Type            string        `json:"type"`
	Name            string        `json:"name,omitempty"`
	Inputs          []ABIArgument `json:"inputs,omitempty"`
	StateMutability string        `json:"stateMutability,omitempty"`
}

// ABIArgument is an input or output parameter of an ABI entry.
// 构造函数参数的名称和类型，用于与 genesis 配置中的参数逐一比对。
type ABIArgument struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	InternalType string        `json:"internalType,omitempty"`
	Components   []ABIArgument `json:"components,omitempty"`
}

// Result is the outcome of compiling one named contract.
type Result struct {
	ABI  []ABIEntry
	Code string // 0x-prefixed creation bytecode
}

// Constructor returns the constructor entry of the ABI, if any.
func (r *Result) Constructor() (ABIEntry, bool) {
	for _, entry := range r.ABI {
		if entry.Type == "constructor" {
			return entry, true
		}
	}
	return ABIEntry{}, false
}
