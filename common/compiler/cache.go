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
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Compiler is a compiler engine bound to one version. Implementations must be
// safe for sequential use by many accounts.
type Compiler interface {
	// Version returns the tag the engine was acquired for.
	Version() string

	// Compile runs the engine on a standard JSON input. Sources the input
	// imports but does not contain are requested through the callback.
	Compile(input *Input, imports ImportCallback) (*Output, error)
}

// ImportCallback supplies the content of an imported source unit.
type ImportCallback func(path string) (string, error)

// Loader acquires the compiler engine of a version tag.
type Loader interface {
	Load(ctx context.Context, tag string) (Compiler, error)
}

// Cache acquires compiler engines, at most once per version tag.
// 每个版本只下载/实例化一次编译器，并发请求同一版本时合并为一次。
type Cache struct {
	loader Loader
	group  singleflight.Group

	lock      sync.Mutex
	compilers map[string]Compiler
}

// NewCache creates a compiler cache on top of a loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader:    loader,
		compilers: make(map[string]Compiler),
	}
}

// Get returns the engine of a tag, loading it if it was not acquired yet.
func (c *Cache) Get(ctx context.Context, tag string) (Compiler, error) {
	c.lock.Lock()
	compiler, ok := c.compilers[tag]
	c.lock.Unlock()
	if ok {
		return compiler, nil
	}
	v, err, _ := c.group.Do(tag, func() (interface{}, error) {
		c.lock.Lock()
		if compiler, ok := c.compilers[tag]; ok {
			c.lock.Unlock()
			return compiler, nil
		}
		c.lock.Unlock()

		log.Info("Preparing solidity compiler", "version", tag)
		compiler, err := c.loader.Load(ctx, tag)
		if err != nil {
			log.Error("Failed to load compiler", "version", tag, "err", err)
			return nil, &CompilerLoadError{Tag: tag, Err: err}
		}
		log.Info("Solidity compiler ready", "version", tag)

		c.lock.Lock()
		c.compilers[tag] = compiler
		c.lock.Unlock()
		return compiler, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Compiler), nil
}

// Acquire loads the engines of all given tags concurrently and returns them
// keyed by tag. Duplicate tags are loaded once. If any acquisition fails the
// remaining ones are cancelled and no mapping is returned.
func (c *Cache) Acquire(ctx context.Context, tags []string) (map[string]Compiler, error) {
	var (
		distinct = mapset.NewThreadUnsafeSet(tags...)
		results  = make(map[string]Compiler, distinct.Cardinality())
		lock     sync.Mutex
	)
	workers, ctx := errgroup.WithContext(ctx)
	for tag := range distinct.Iter() {
		workers.Go(func() error {
			compiler, err := c.Get(ctx, tag)
			if err != nil {
				return err
			}
			lock.Lock()
			results[tag] = compiler
			lock.Unlock()
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
