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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/genesis-compiler/common/compiler"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

var (
	errNotInteger = errors.New("not an integer")
	errOverflow   = errors.New("value out of range")
)

// newArguments converts the constructor inputs of a compiled ABI into packable
// arguments.
func newArguments(inputs []compiler.ABIArgument) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(inputs))
	for _, input := range inputs {
		typ, err := abi.NewType(input.Type, input.InternalType, marshalComponents(input.Components))
		if err != nil {
			return nil, err
		}
		args = append(args, abi.Argument{Name: input.Name, Type: typ})
	}
	return args, nil
}

func marshalComponents(components []compiler.ABIArgument) []abi.ArgumentMarshaling {
	if len(components) == 0 {
		return nil
	}
	out := make([]abi.ArgumentMarshaling, len(components))
	for i, c := range components {
		out[i] = abi.ArgumentMarshaling{
			Name:         c.Name,
			Type:         c.Type,
			InternalType: c.InternalType,
			Components:   marshalComponents(c.Components),
		}
	}
	return out
}

// decodeValue decodes a raw parameter value, keeping numbers exact.
func decodeValue(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// convertValue converts a decoded JSON value into the Go representation the
// ABI packer expects for the given type.
// 将 JSON 值转换为 abi 包在打包时要求的 Go 类型（例如 uint256 对应 *big.Int）。
func convertValue(typ abi.Type, value interface{}) (reflect.Value, error) {
	switch typ.T {
	case abi.IntTy, abi.UintTy:
		n, err := parseInteger(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return integerValue(typ, n)

	case abi.BoolTy:
		b, ok := value.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected boolean, got %v", value)
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		s, ok := value.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string, got %v", value)
		}
		return reflect.ValueOf(s), nil

	case abi.AddressTy:
		s, ok := value.(string)
		if !ok || !common.IsHexAddress(s) {
			return reflect.Value{}, fmt.Errorf("invalid address %v", value)
		}
		return reflect.ValueOf(common.HexToAddress(s)), nil

	case abi.BytesTy:
		blob, err := decodeHex(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(blob), nil

	case abi.FixedBytesTy, abi.HashTy, abi.FixedPointTy, abi.FunctionTy:
		blob, err := decodeHex(value)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(typ.GetType()).Elem()
		if len(blob) != out.Len() {
			return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", out.Len(), len(blob))
		}
		reflect.Copy(out, reflect.ValueOf(blob))
		return out, nil

	case abi.SliceTy, abi.ArrayTy:
		list, ok := value.([]interface{})
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected array, got %v", value)
		}
		var out reflect.Value
		if typ.T == abi.SliceTy {
			out = reflect.MakeSlice(typ.GetType(), len(list), len(list))
		} else {
			if len(list) != typ.Size {
				return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", typ.Size, len(list))
			}
			out = reflect.New(typ.GetType()).Elem()
		}
		for i, item := range list {
			elem, err := convertValue(*typ.Elem, item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case abi.TupleTy:
		return tupleValue(typ, value)
	}
	return reflect.Value{}, fmt.Errorf("unsupported type %s", typ.String())
}

// tupleValue accepts a tuple either as an object keyed by component name or as
// a positional array.
func tupleValue(typ abi.Type, value interface{}) (reflect.Value, error) {
	var fields []interface{}
	switch v := value.(type) {
	case []interface{}:
		fields = v
	case map[string]interface{}:
		fields = make([]interface{}, len(typ.TupleRawNames))
		for i, name := range typ.TupleRawNames {
			field, ok := v[name]
			if !ok {
				return reflect.Value{}, fmt.Errorf("missing tuple component %q", name)
			}
			fields[i] = field
		}
		if len(v) != len(fields) {
			return reflect.Value{}, fmt.Errorf("expected %d tuple components, got %d", len(fields), len(v))
		}
	default:
		return reflect.Value{}, fmt.Errorf("expected tuple, got %v", value)
	}
	if len(fields) != len(typ.TupleElems) {
		return reflect.Value{}, fmt.Errorf("expected %d tuple components, got %d", len(typ.TupleElems), len(fields))
	}
	out := reflect.New(typ.TupleType).Elem()
	for i, elem := range typ.TupleElems {
		field, err := convertValue(*elem, fields[i])
		if err != nil {
			return reflect.Value{}, fmt.Errorf("component %s: %w", typ.TupleRawNames[i], err)
		}
		out.Field(i).Set(field)
	}
	return out, nil
}

// parseInteger accepts JSON numbers (including exponent notation such as
// 1e18), decimal strings and 0x-prefixed hex strings.
func parseInteger(value interface{}) (*big.Int, error) {
	var s string
	switch v := value.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return nil, fmt.Errorf("expected integer, got %v", value)
	}
	if s == "" {
		return nil, errNotInteger
	}
	if n, ok := math.ParseBig256(s); ok {
		return n, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("invalid hex integer %q", s)
	}
	f, _, err := big.ParseFloat(s, 10, 512, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if !f.IsInt() {
		return nil, fmt.Errorf("%w: %s", errNotInteger, s)
	}
	n, _ := f.Int(nil)
	return n, nil
}

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// integerValue range checks n against the type and converts it into the Go
// type the ABI packer expects for it. Only 8, 16, 32 and 64 bit integers map
// to native integers, every other width is a *big.Int.
func integerValue(typ abi.Type, n *big.Int) (reflect.Value, error) {
	target := typ.GetType()
	if typ.T == abi.UintTy {
		u, overflow := uint256.FromBig(n)
		if n.Sign() < 0 || overflow || u.BitLen() > typ.Size {
			return reflect.Value{}, fmt.Errorf("%w: %s for %s", errOverflow, n, typ.String())
		}
		if target == bigIntType {
			return reflect.ValueOf(u.ToBig()), nil
		}
		return reflect.ValueOf(u.Uint64()).Convert(target), nil
	}
	limit := new(big.Int).Lsh(common.Big1, uint(typ.Size-1))
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s for %s", errOverflow, n, typ.String())
	}
	if target == bigIntType {
		return reflect.ValueOf(new(big.Int).Set(n)), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(target), nil
}

func decodeHex(value interface{}) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected hex string, got %v", value)
	}
	return hexutil.Decode(s)
}
