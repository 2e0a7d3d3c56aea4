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

package releases

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gohugoio/publishrelease/internal/common/errorsh"
	"github.com/gohugoio/publishrelease/internal/releases/releasetypes"
	"github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"
)

// FakeToken selects the FakeClient in NewClient.
// Set in tests and used by the -try flag.
const FakeToken = "faketoken"

// Max body length accepted by GitHub.
const maxBodyLen = 100000

// Options configures a Client.
type Options struct {
	Type       releasetypes.Type
	Owner      string
	Repository string
	Token      string

	// BaseURL is the API endpoint for GitHub Enterprise installations.
	// Empty means github.com.
	BaseURL string

	// FakeStateFile is where the FakeClient persists its state.
	// Only used with FakeToken.
	FakeStateFile string
}

// Validate validates the client options.
func (o Options) Validate() error {
	if o.Type != releasetypes.GitHub {
		return errorsh.Configurationf("release: only github is supported for now")
	}
	if o.Token == "" {
		return errorsh.Configurationf("release: missing token")
	}
	if o.Owner == "" || o.Repository == "" {
		return errorsh.Configurationf("release: missing repository owner or name")
	}
	return nil
}

// NewClient creates a new Client for the repository in opts.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.Token == FakeToken {
		return NewFakeClient(opts.FakeStateFile)
	}

	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: opts.Token},
	)

	httpClient := oauth2.NewClient(ctx, tokenSource)

	client := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		var err error
		client, err = github.NewEnterpriseClient(opts.BaseURL, opts.BaseURL, httpClient)
		if err != nil {
			return nil, errorsh.Configurationf("release: invalid base URL %q: %v", opts.BaseURL, err)
		}
	}

	return &GitHubClient{
		client: client,
		owner:  opts.Owner,
		repo:   opts.Repository,
	}, nil
}

var _ Client = &GitHubClient{}

// GitHubClient is a Client backed by the GitHub REST API.
type GitHubClient struct {
	client *github.Client
	owner  string
	repo   string
}

func (c *GitHubClient) FindReleaseByTag(ctx context.Context, tag string) (Release, bool, error) {
	r, resp, err := c.client.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return Release{}, false, nil
		}
		return Release{}, false, err
	}

	return fromGitHubRelease(r), true, nil
}

func (c *GitHubClient) CreateRelease(ctx context.Context, opts CreateOptions) (Release, error) {
	s := func(s string) *string {
		if s == "" {
			return nil
		}
		return github.String(s)
	}

	body := opts.Body
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen]
	}

	r := &github.RepositoryRelease{
		TagName:         s(opts.Tag),
		TargetCommitish: s(opts.Commitish),
		Name:            s(opts.Name),
		Body:            s(body),
		Draft:           github.Bool(opts.Draft),
		Prerelease:      github.Bool(opts.Prerelease),
	}

	rel, resp, err := c.client.Repositories.CreateRelease(ctx, c.owner, c.repo, r)
	if err != nil {
		return Release{}, err
	}

	if resp.StatusCode != http.StatusCreated {
		return Release{}, fmt.Errorf("github: unexpected status code: %d", resp.StatusCode)
	}

	return fromGitHubRelease(rel), nil
}

func (c *GitHubClient) UploadAsset(ctx context.Context, releaseID int64, name string, content []byte) (Asset, error) {
	u := fmt.Sprintf("repos/%s/%s/releases/%d/assets?name=%s", c.owner, c.repo, releaseID, url.QueryEscape(name))

	mediaType := mime.TypeByExtension(filepath.Ext(name))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	req, err := c.client.NewUploadRequest(u, bytes.NewReader(content), int64(len(content)), mediaType)
	if err != nil {
		return Asset{}, err
	}

	a := new(github.ReleaseAsset)
	if _, err := c.client.Do(ctx, req, a); err != nil {
		return Asset{}, err
	}

	return Asset{
		ID:   a.GetID(),
		Name: a.GetName(),
		Size: a.GetSize(),
		URL:  a.GetBrowserDownloadURL(),
	}, nil
}

func (c *GitHubClient) UpdateRelease(ctx context.Context, releaseID int64, opts UpdateOptions) (Release, error) {
	r := &github.RepositoryRelease{
		Draft:      github.Bool(opts.Draft),
		Prerelease: github.Bool(opts.Prerelease),
	}
	if opts.MakeLatest {
		r.MakeLatest = github.String("true")
	}

	rel, _, err := c.client.Repositories.EditRelease(ctx, c.owner, c.repo, releaseID, r)
	if err != nil {
		return Release{}, err
	}

	return fromGitHubRelease(rel), nil
}

func fromGitHubRelease(r *github.RepositoryRelease) Release {
	return Release{
		ID:         r.GetID(),
		Tag:        r.GetTagName(),
		Name:       r.GetName(),
		URL:        r.GetHTMLURL(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
		Latest:     r.GetMakeLatest() == "true",
	}
}
