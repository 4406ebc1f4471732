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

package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Region: "us-east-1"}
	require.NoError(t, valid.Validate())
	require.NoError(t, DefaultConfig.Validate())

	invalid := valid
	invalid.Endpoint = "http://localhost:9000"
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.SecretKey = ""
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.Endpoint = " "
	assert.Error(t, invalid.Validate())
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("s3://chains/devnet/genesis.json")
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "chains", Key: "devnet/genesis.json"}, loc)
	assert.Equal(t, "s3://chains/devnet/genesis.json", loc.String())

	for _, dest := range []string{"genesis.json", "s3://", "s3://chains", "s3://chains/", "s3:///key", "s3://chains/dir/"} {
		_, err := ParseLocation(dest)
		assert.Error(t, err, dest)
	}
	assert.True(t, IsLocation("s3://a/b"))
	assert.False(t, IsLocation("/tmp/s3://a/b"))
}

func TestUpload(t *testing.T) {
	var (
		lock     sync.Mutex
		requests []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		lock.Lock()
		requests = append(requests, r.Method+" "+strings.TrimSuffix(r.URL.Path, "/"))
		lock.Unlock()

		if r.Method == http.MethodPut {
			w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := New(Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	loc := Location{Bucket: "chains", Key: "devnet/genesis.json"}
	require.NoError(t, store.Upload(context.Background(), loc, []byte(`{"accounts":{}}`), "application/json"))

	lock.Lock()
	defer lock.Unlock()
	assert.Contains(t, requests, "HEAD /chains")
	assert.Contains(t, requests, "PUT /chains/devnet/genesis.json")
}
