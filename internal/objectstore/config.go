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

// Package objectstore uploads compiled genesis documents to S3 compatible
// object storage.
package objectstore

import (
	"errors"
	"fmt"
	"strings"
)

// Scheme is the URL scheme of object storage locations.
const Scheme = "s3://"

// Config contains the connection settings of the object store.
type Config struct {
	Endpoint  string // host[:port], without scheme
	AccessKey string `toml:",omitempty"`
	SecretKey string `toml:",omitempty"`
	Region    string
	UseSSL    bool
}

// DefaultConfig contains the default object store settings.
var DefaultConfig = Config{
	Endpoint: "s3.amazonaws.com",
	Region:   "us-east-1",
	UseSSL:   true,
}

// Validate checks that the configuration can be used to connect.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("access key and secret key must be given together")
	}
	return nil
}

// Location is an object inside a bucket.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return Scheme + l.Bucket + "/" + l.Key
}

// IsLocation reports whether the destination refers to object storage.
func IsLocation(dest string) bool {
	return strings.HasPrefix(dest, Scheme)
}

// ParseLocation parses an s3://bucket/key destination.
func ParseLocation(dest string) (Location, error) {
	if !IsLocation(dest) {
		return Location{}, fmt.Errorf("not an object storage location: %q", dest)
	}
	bucket, key, _ := strings.Cut(strings.TrimPrefix(dest, Scheme), "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("invalid object storage location %q, expected %sbucket/key", dest, Scheme)
	}
	return Location{Bucket: bucket, Key: key}, nil
}
