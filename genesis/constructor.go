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
	"fmt"

	"github.com/ethereum/genesis-compiler/common/compiler"
	"github.com/ethereum/go-ethereum/common"
)

// EncodeConstructor appends the ABI encoded constructor parameters of an
// account to the compiled bytecode and returns the resulting initcode.
//
// Parameters are bound strictly by position. The name and type given in the
// config must equal the ones declared by the contract at the same position.
// 参数按位置绑定，名称和类型都必须与合约 ABI 完全一致，用于发现配置与合约不同步的问题。
func EncodeConstructor(account string, result *compiler.Result, params []Parameter) (string, error) {
	ctor, ok := result.Constructor()
	if !ok {
		return result.Code, nil
	}
	if params == nil {
		return "", &MissingParametersError{Account: account}
	}
	if len(params) != len(ctor.Inputs) {
		return "", &ParameterCountMismatchError{Account: account, Expected: len(ctor.Inputs), Actual: len(params)}
	}
	for i, input := range ctor.Inputs {
		if params[i].Name != input.Name {
			return "", &ParameterMismatchError{Account: account, Index: i, Field: "name", Expected: input.Name, Actual: params[i].Name}
		}
		if params[i].Type != input.Type {
			return "", &ParameterMismatchError{Account: account, Index: i, Field: "type", Expected: input.Type, Actual: params[i].Type}
		}
	}
	args, err := newArguments(ctor.Inputs)
	if err != nil {
		return "", fmt.Errorf("%s: invalid constructor ABI: %w", account, err)
	}
	values := make([]interface{}, len(params))
	for i, param := range params {
		decoded, err := decodeValue(param.Value)
		if err != nil {
			return "", &ParameterValueError{Account: account, Index: i, Name: param.Name, Err: err}
		}
		value, err := convertValue(args[i].Type, decoded)
		if err != nil {
			return "", &ParameterValueError{Account: account, Index: i, Name: param.Name, Err: err}
		}
		values[i] = value.Interface()
	}
	encoded, err := args.Pack(values...)
	if err != nil {
		return "", fmt.Errorf("%s: failed to encode constructor parameters: %w", account, err)
	}
	return result.Code + common.Bytes2Hex(encoded), nil
}
