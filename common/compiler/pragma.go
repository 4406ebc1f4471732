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
	"bufio"
	"bytes"
	"strings"
)

const pragmaPrefix = "pragma solidity"

// ParsePragma scans source for the first line starting with a solidity version
// pragma and returns its range expression. Only the last whitespace separated
// token of the line is kept, so compound ranges such as ">=0.6.0 <0.9.0"
// reduce to their upper bound.
// 只取 pragma 行最后一个以空白分隔的 token 作为版本范围。
func ParsePragma(source []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), len(source)+1)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, pragmaPrefix) {
			continue
		}
		fields := strings.Fields(line)
		return strings.Replace(fields[len(fields)-1], ";", "", 1), true
	}
	return "", false
}
