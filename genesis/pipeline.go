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
	"fmt"
	"maps"
	"time"

	"github.com/ethereum/genesis-compiler/common/compiler"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Pipeline turns a genesis config into a document in which every compiled
// constructor is replaced by its initcode.
type Pipeline struct {
	resolver *compiler.VersionResolver
	cache    *compiler.Cache
	readFile compiler.ReadFileFunc
}

// NewPipeline creates a pipeline. A nil readFile reads from the local
// filesystem.
func NewPipeline(resolver *compiler.VersionResolver, cache *compiler.Cache, readFile compiler.ReadFileFunc) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		cache:    cache,
		readFile: readFile,
	}
}

// Run compiles every account of the config. Compiler versions are resolved
// first and all required engines are acquired concurrently. Accounts are then
// compiled one at a time in ascending address order. Any failure aborts the
// whole run.
func (p *Pipeline) Run(ctx context.Context, cfg *Config) (*Output, error) {
	start := time.Now()

	// 第一步：为每个需要编译的账户确定编译器版本。
	var (
		addresses = cfg.Addresses()
		tags      = make(map[string]string)
		distinct  []string
	)
	for _, addr := range addresses {
		ctor := compiledConstructor(cfg.Accounts[addr])
		if ctor == nil {
			continue
		}
		tag, err := p.resolver.Resolve(ctx, ctor.Compiler.Target())
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", addr, err)
		}
		tags[addr] = tag
		distinct = append(distinct, tag)
	}
	// 第二步：并发获取所有编译器。
	compilers, err := p.cache.Acquire(ctx, distinct)
	if err != nil {
		return nil, err
	}
	// 第三步：逐个账户编译并编码构造参数。
	out := &Output{
		fields:   maps.Clone(cfg.fields),
		accounts: make(map[string]json.RawMessage, len(addresses)),
	}
	for _, addr := range addresses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		account, err := p.compileAccount(addr, cfg.Accounts[addr], compilers[tags[addr]])
		if err != nil {
			return nil, err
		}
		out.accounts[addr] = account
	}
	log.Info("Compiled genesis accounts", "accounts", len(addresses), "compiled", len(tags), "compilers", len(compilers), "elapsed", common.PrettyDuration(time.Since(start)))
	return out, nil
}

// compileAccount produces the output representation of a single account.
func (p *Pipeline) compileAccount(addr string, account Account, engine compiler.Compiler) (json.RawMessage, error) {
	spec, ok := account.(*SpecAccount)
	if !ok {
		return account.(*CompiledAccount).Raw, nil
	}
	fields := maps.Clone(spec.Fields)
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	switch ctor := spec.Constructor.(type) {
	case *LiteralConstructor:
		fields[constructorKey] = ctor.Raw

	case *CompiledConstructor:
		log.Info("Compiling contract", "address", addr, "name", spec.Name, "contract", ctor.Compiler.ContractName, "version", engine.Version())

		result, err := compiler.CompileContract(engine, ctor.Compiler.Target(), p.readFile)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", addr, err)
		}
		code, err := EncodeConstructor(addr, result, ctor.Parameters)
		if err != nil {
			return nil, err
		}
		blob, err := json.Marshal(code)
		if err != nil {
			return nil, err
		}
		fields[constructorKey] = blob
		log.Debug("Contract compiled", "address", addr, "size", (len(code)-2)/2)
	}
	return json.Marshal(fields)
}

func compiledConstructor(account Account) *CompiledConstructor {
	spec, ok := account.(*SpecAccount)
	if !ok {
		return nil
	}
	ctor, _ := spec.Constructor.(*CompiledConstructor)
	return ctor
}
