// Copyright 2026 The Publishrelease Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"strings"

	"github.com/gohugoio/publishrelease/internal/releases/releasetypes"
)

type ReleaseSettings struct {
	Type string `toml:"type"`

	// Repository is either the repository name or owner/name.
	Repository      string `toml:"repository"`
	RepositoryOwner string `toml:"repository_owner"`

	// API endpoint for GitHub Enterprise.
	BaseURL string `toml:"base_url"`

	// Go templates for the release name and body.
	Name string `toml:"name"`
	Body string `toml:"body"`

	Commitish string `toml:"commitish"`

	// Upload a checksums.txt file after the assets.
	Checksums bool `toml:"checksums"`

	TypeParsed releasetypes.Type `toml:"-"`
}

func (r *ReleaseSettings) Init() error {
	what := "release_settings"

	var err error
	if r.TypeParsed, err = releasetypes.Parse(r.Type); err != nil {
		return fmt.Errorf("%s: %v", what, err)
	}

	if owner, repo, found := strings.Cut(r.Repository, "/"); found {
		if r.RepositoryOwner != "" && r.RepositoryOwner != owner {
			return fmt.Errorf("%s: repository %q does not match repository_owner %q", what, r.Repository, r.RepositoryOwner)
		}
		r.RepositoryOwner, r.Repository = owner, repo
	}

	return nil
}

// SetRepository sets owner and repository from a owner/repo string.
func (r *ReleaseSettings) SetRepository(s string) error {
	owner, repo, found := strings.Cut(s, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return fmt.Errorf("invalid repository %q, must be on the form owner/repo", s)
	}
	r.RepositoryOwner, r.Repository = owner, repo
	return nil
}
