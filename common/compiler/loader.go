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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gofrs/flock"
)

// lockRetryDelay is the polling interval while waiting for the cache lock.
const lockRetryDelay = 250 * time.Millisecond

// SolcLoader acquires native solc executables. Pinned binaries are used as
// is; every other version is downloaded from the binary repository, verified
// and kept in the cache directory.
type SolcLoader struct {
	config   *Config
	releases *Releases
	client   *http.Client
}

// NewSolcLoader creates a loader for the given configuration.
func NewSolcLoader(config *Config, releases *Releases, client *http.Client) *SolcLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &SolcLoader{config: config, releases: releases, client: client}
}

// Load implements Loader.
func (l *SolcLoader) Load(ctx context.Context, tag string) (Compiler, error) {
	if path, ok := l.config.Binaries[tag]; ok {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("pinned solc binary for %s: %w", tag, err)
		}
		log.Debug("Using pinned solc binary", "version", tag, "path", path)
		return NewSolidity(path, tag), nil
	}
	list, err := l.releases.List(ctx)
	if err != nil {
		return nil, err
	}
	build, err := list.Lookup(tag)
	if err != nil {
		return nil, err
	}
	path, err := l.ensure(ctx, build)
	if err != nil {
		return nil, err
	}
	return NewSolidity(path, tag), nil
}

// ensure makes sure a verified copy of the build is present in the cache
// directory and returns its path. Each artifact has its own lock file, so
// different builds download in parallel while parallel runs never download the
// same build over each other.
// 每个编译器单独加文件锁，防止多个进程同时下载同一个编译器。
func (l *SolcLoader) ensure(ctx context.Context, build *Build) (string, error) {
	dir := l.config.CacheDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(build.Path))
	lock := flock.New(dst + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrCacheLocked, err)
		}
		return "", err
	}
	if !locked {
		return "", ErrCacheLocked
	}
	defer lock.Unlock()

	if blob, err := os.ReadFile(dst); err == nil {
		if err := verify(build, blob); err == nil {
			log.Debug("Found cached solc binary", "version", build.LongVersion, "path", dst)
			return dst, nil
		}
		log.Warn("Discarding corrupted solc binary", "path", dst)
	}
	url := l.config.ArtifactURL(build.Path)
	log.Info("Downloading solidity compiler", "version", build.LongVersion, "url", url)

	blob, err := l.fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if err := verify(build, blob); err != nil {
		return "", err
	}
	if err := writeExecutable(dst, blob); err != nil {
		return "", err
	}
	log.Info("Solidity compiler downloaded", "version", build.LongVersion, "size", len(blob))
	return dst, nil
}

func (l *SolcLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: %s", url, res.Status)
	}
	return io.ReadAll(res.Body)
}

// verify checks a binary against the checksums of its build. Checksums
// missing from the release list are not checked.
func verify(build *Build, blob []byte) error {
	if want := normalizeHash(build.SHA256); want != "" {
		sum := sha256.Sum256(blob)
		if have := hex.EncodeToString(sum[:]); have != want {
			return fmt.Errorf("%w: %s sha256 %s != %s", ErrChecksumMismatch, build.Path, have, want)
		}
	}
	if want := normalizeHash(build.Keccak256); want != "" {
		if have := hex.EncodeToString(crypto.Keccak256(blob)); have != want {
			return fmt.Errorf("%w: %s keccak256 %s != %s", ErrChecksumMismatch, build.Path, have, want)
		}
	}
	return nil
}

func normalizeHash(h string) string {
	return strings.ToLower(strings.TrimPrefix(h, "0x"))
}

// writeExecutable atomically replaces dst with an executable file.
func writeExecutable(dst string, blob []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0755); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
