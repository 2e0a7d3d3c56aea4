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
	"context"
)

// Visibility is where a release is in its lifecycle.
type Visibility int

const (
	Absent Visibility = iota
	Draft
	Published
)

func (v Visibility) String() string {
	switch v {
	case Draft:
		return "draft"
	case Published:
		return "published"
	default:
		return "absent"
	}
}

// Release is a release on the remote.
type Release struct {
	ID         int64
	Tag        string
	Name       string
	URL        string
	Draft      bool
	Prerelease bool
	Latest     bool
}

// Visibility returns Draft or Published.
func (r Release) Visibility() Visibility {
	if r.Draft {
		return Draft
	}
	return Published
}

// Asset is a file attached to a release.
type Asset struct {
	ID   int64
	Name string
	Size int
	URL  string
}

// CreateOptions describes a release to create.
type CreateOptions struct {
	Tag        string
	Name       string
	Body       string
	Commitish  string
	Draft      bool
	Prerelease bool
}

// UpdateOptions describes the final state of a release.
type UpdateOptions struct {
	Draft      bool
	Prerelease bool
	MakeLatest bool
}

// Client talks to the release host for one repository.
type Client interface {
	// FindReleaseByTag returns the release for tag.
	// found is false, and err nil, if no release exists for tag.
	FindReleaseByTag(ctx context.Context, tag string) (rel Release, found bool, err error)
	CreateRelease(ctx context.Context, opts CreateOptions) (Release, error)
	UploadAsset(ctx context.Context, releaseID int64, name string, content []byte) (Asset, error)
	UpdateRelease(ctx context.Context, releaseID int64, opts UpdateOptions) (Release, error)
}
