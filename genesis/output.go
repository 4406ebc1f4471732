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
	"io"
	"os"
	"path/filepath"
)

// Output is the compiled genesis document.
type Output struct {
	fields   map[string]json.RawMessage
	accounts map[string]json.RawMessage
}

// Account returns the compiled representation of an account.
func (o *Output) Account(addr string) (json.RawMessage, bool) {
	account, ok := o.accounts[addr]
	return account, ok
}

func (o *Output) document() map[string]interface{} {
	doc := make(map[string]interface{}, len(o.fields)+1)
	for key, value := range o.fields {
		doc[key] = value
	}
	doc[accountsKey] = o.accounts
	return doc
}

// MarshalJSON implements json.Marshaler.
func (o *Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.document())
}

// Encode writes the document as indented JSON. Keys are sorted, so the output
// of the same input is byte for byte reproducible.
func (o *Output) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(o.document())
}

// Bytes returns the encoded document.
func (o *Output) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile atomically replaces the file at path with the encoded document.
// 先写入同目录下的临时文件再重命名，避免留下写了一半的 genesis 文件。
func (o *Output) WriteFile(path string) error {
	blob, err := o.Bytes()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
