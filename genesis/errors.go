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

import "fmt"

// InvalidConfigError is returned when the genesis document is malformed.
type InvalidConfigError struct {
	Location string // dotted path of the offending field
	Reason   string
	Err      error
}

func (e *InvalidConfigError) Error() string {
	msg := "invalid genesis config"
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

// MissingParametersError is returned when a contract declares a constructor
// but the account lists no constructor parameters.
type MissingParametersError struct {
	Account string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("%s: constructor parameter list missing", e.Account)
}

// ParameterCountMismatchError is returned when the number of configured
// constructor parameters differs from the constructor ABI.
type ParameterCountMismatchError struct {
	Account  string
	Expected int
	Actual   int
}

func (e *ParameterCountMismatchError) Error() string {
	return fmt.Sprintf("%s: contract constructor parameter length mismatching (%d but expected %d)", e.Account, e.Actual, e.Expected)
}

// ParameterMismatchError is returned when a configured constructor parameter
// does not carry the name or type declared at its position in the ABI.
type ParameterMismatchError struct {
	Account  string
	Index    int
	Field    string // "name" or "type"
	Expected string // value declared by the ABI
	Actual   string // value given in the genesis config
}

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("%s: contract constructor parameter %d %s mismatching (%s != %s)", e.Account, e.Index, e.Field, e.Expected, e.Actual)
}

// ParameterValueError is returned when a constructor parameter value cannot be
// encoded as its ABI type.
type ParameterValueError struct {
	Account string
	Index   int
	Name    string
	Err     error
}

func (e *ParameterValueError) Error() string {
	return fmt.Sprintf("%s: constructor parameter %d (%s): %v", e.Account, e.Index, e.Name, e.Err)
}

func (e *ParameterValueError) Unwrap() error {
	return e.Err
}
