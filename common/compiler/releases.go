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
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/log"
)

// LatestTag is the version tag used for sources without a version pragma. It
// selects the most recent release of the list.
const LatestTag = "latest"

// Build is a single compiler build published in a release list.
type Build struct {
	Path        string   `json:"path"`
	Version     string   `json:"version"`
	Prerelease  string   `json:"prerelease,omitempty"`
	Build       string   `json:"build"`
	LongVersion string   `json:"longVersion"`
	Keccak256   string   `json:"keccak256"`
	SHA256      string   `json:"sha256"`
	URLs        []string `json:"urls,omitempty"`
}

// Tag returns the artifact identifier of the build, e.g. v0.8.19+commit.7dd6d404.
func (b *Build) Tag() string {
	return ArtifactTag(b.Path)
}

// ReleaseList is the content of a soliditylang.org list.json file.
// 发布列表：版本号到编译器文件名的映射，以及每个构建的校验和。
type ReleaseList struct {
	Builds        []Build           `json:"builds"`
	Releases      map[string]string `json:"releases"`
	LatestRelease string            `json:"latestRelease"`

	sortOnce sync.Once
	sorted   []*semver.Version
}

// ArtifactTag strips the platform prefix and the file extension from a release
// artifact path: soljson-v0.8.19+commit.7dd6d404.js and
// solc-linux-amd64-v0.8.19+commit.7dd6d404 both map to v0.8.19+commit.7dd6d404.
func ArtifactTag(artifact string) string {
	tag := strings.TrimSuffix(strings.TrimSuffix(artifact, ".js"), ".exe")
	if i := strings.LastIndex(tag, "-v"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// Descending returns the release versions of the list sorted from the newest
// to the oldest. Keys that are not valid semantic versions are skipped.
func (l *ReleaseList) Descending() []*semver.Version {
	l.sortOnce.Do(func() {
		for key := range l.Releases {
			v, err := semver.StrictNewVersion(key)
			if err != nil {
				log.Debug("Skipping malformed compiler release", "version", key, "err", err)
				continue
			}
			l.sorted = append(l.sorted, v)
		}
		slices.SortFunc(l.sorted, func(a, b *semver.Version) int {
			return b.Compare(a)
		})
	})
	return l.sorted
}

// Match returns the artifact tag of the newest release satisfying the given
// range expression.
func (l *ReleaseList) Match(expr string) (string, bool) {
	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		log.Debug("Invalid pragma version range", "range", expr, "err", err)
		return "", false
	}
	for _, v := range l.Descending() {
		if constraint.Check(v) {
			return ArtifactTag(l.Releases[v.Original()]), true
		}
	}
	return "", false
}

// Lookup finds the build a version tag refers to. The tag may be the latest
// sentinel, a plain release version (0.8.19) or an artifact tag
// (v0.8.19+commit.7dd6d404).
func (l *ReleaseList) Lookup(tag string) (*Build, error) {
	artifact := tag
	switch {
	case tag == LatestTag:
		file, ok := l.Releases[l.LatestRelease]
		if !ok {
			return nil, fmt.Errorf("%w: release list has no latest release", ErrUnknownVersion)
		}
		artifact = ArtifactTag(file)
	case l.Releases[tag] != "":
		artifact = ArtifactTag(l.Releases[tag])
	}
	for i := range l.Builds {
		if l.Builds[i].Tag() == artifact {
			return &l.Builds[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, tag)
}

// ReleaseFetcher retrieves the compiler release list.
type ReleaseFetcher interface {
	FetchReleases(ctx context.Context) (*ReleaseList, error)
}

// HTTPReleaseFetcher downloads list.json from a binary repository.
type HTTPReleaseFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPReleaseFetcher creates a fetcher for the list of the configured
// repository and platform.
func NewHTTPReleaseFetcher(config *Config, client *http.Client) *HTTPReleaseFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPReleaseFetcher{URL: config.ListURL(), Client: client}
}

// FetchReleases implements ReleaseFetcher.
func (f *HTTPReleaseFetcher) FetchReleases(ctx context.Context) (*ReleaseList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	log.Debug("Fetching compiler release list", "url", f.URL)
	res, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compiler release list: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch compiler release list %s: %s", f.URL, res.Status)
	}
	list := new(ReleaseList)
	if err := json.NewDecoder(res.Body).Decode(list); err != nil {
		return nil, fmt.Errorf("invalid compiler release list %s: %w", path.Base(f.URL), err)
	}
	return list, nil
}

// Releases memoizes the release list of a fetcher. The list is requested at
// most once, on first use, and shared by the resolver and the loader.
// 发布列表只在第一次需要时获取一次。
type Releases struct {
	fetcher ReleaseFetcher

	once sync.Once
	list *ReleaseList
	err  error
}

// NewReleases wraps a fetcher in a lazily evaluated release list.
func NewReleases(fetcher ReleaseFetcher) *Releases {
	return &Releases{fetcher: fetcher}
}

// List returns the release list, fetching it on the first call.
func (r *Releases) List(ctx context.Context) (*ReleaseList, error) {
	r.once.Do(func() {
		r.list, r.err = r.fetcher.FetchReleases(ctx)
	})
	return r.list, r.err
}
