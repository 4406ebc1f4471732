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
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
)

// missingSourceRE matches the diagnostic solc reports for an import that is
// not part of the standard JSON input.
var missingSourceRE = regexp.MustCompile(`Source "([^"]+)" not found`)

// Solidity is a native solc executable driven through --standard-json.
type Solidity struct {
	Path string // path of the solc executable
	tag  string
}

// NewSolidity wraps the solc executable at path as the engine of a tag.
func NewSolidity(path, tag string) *Solidity {
	return &Solidity{Path: path, tag: tag}
}

// Version implements Compiler.
func (s *Solidity) Version() string {
	return s.tag
}

// Compile implements Compiler.
//
// The executable has no import callback, so the callback protocol is emulated:
// every "source not found" diagnostic is answered by adding the source returned
// by the callback to the input and compiling again, until the compiler stops
// asking for new sources. Sources the callback cannot provide are reported as
// diagnostics of the final output. The executable runs in an empty directory,
// so it cannot load imports from the filesystem itself.
// solc 可执行文件不支持导入回调，这里通过反复编译并补充缺失的源文件来模拟回调。
func (s *Solidity) Compile(input *Input, imports ImportCallback) (*Output, error) {
	dir, err := os.MkdirTemp("", "solc-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := *input
	in.Sources = maps.Clone(input.Sources)

	var (
		requested = make(map[string]bool)
		failures  []Diagnostic
	)
	for {
		output, err := s.run(&in, dir)
		if err != nil {
			return nil, err
		}
		added := 0
		for _, path := range missingSources(output.Errors) {
			if requested[path] {
				continue
			}
			if _, ok := in.Sources[path]; ok {
				continue
			}
			requested[path] = true

			content, err := imports(path)
			if err != nil {
				failures = append(failures, Diagnostic{
					Component: "general",
					Severity:  "error",
					Type:      "ImportError",
					Message:   err.Error(),
				})
				continue
			}
			in.Sources[path] = Source{Content: content}
			added++
		}
		if added == 0 {
			output.Errors = append(output.Errors, failures...)
			return output, nil
		}
		log.Trace("Resolved solidity imports", "compiler", s.tag, "sources", len(in.Sources))
	}
}

// run executes the compiler once with dir as both working and base directory.
func (s *Solidity) run(input *Input, dir string) (*Output, error) {
	blob, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(s.Path, "--standard-json")
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(blob)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("solc: %v\n%s", err, stderr.Bytes())
	}
	output := new(Output)
	if err := json.Unmarshal(stdout.Bytes(), output); err != nil {
		return nil, fmt.Errorf("solc: invalid standard JSON output: %v", err)
	}
	return output, nil
}

// missingSources extracts the source units the compiler could not find.
func missingSources(diagnostics []Diagnostic) []string {
	var paths []string
	for _, d := range diagnostics {
		if m := missingSourceRE.FindStringSubmatch(d.Message); m != nil {
			paths = append(paths, m[1])
		}
	}
	return paths
}
