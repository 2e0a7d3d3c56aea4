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

package assets

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gohugoio/publishrelease/internal/common/errorsh"
)

// ErrNoFiles is returned by Parse when the input holds no file paths.
var ErrNoFiles = errors.New("no files specified for upload")

// List is an ordered list of file paths to upload.
// It is read-only once created.
type List struct {
	raw []string
}

// Parse splits raw on newlines.
// It fails if every line is blank, but keeps blank lines in the list;
// they are skipped when the list is iterated.
func Parse(raw string) (List, error) {
	lines := strings.Split(raw, "\n")

	var found bool
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			found = true
			break
		}
	}
	if !found {
		return List{}, errorsh.Configuration(ErrNoFiles)
	}

	return List{raw: lines}, nil
}

// MustParse is like Parse, but panics on error.
func MustParse(raw string) List {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

// Raw returns the entries as given, before trimming.
func (l List) Raw() []string {
	return append([]string(nil), l.raw...)
}

// Paths returns the trimmed, non-empty paths in input order.
func (l List) Paths() []string {
	var paths []string
	for _, line := range l.raw {
		if p := strings.TrimSpace(line); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Len returns the number of non-empty paths.
func (l List) Len() int {
	return len(l.Paths())
}

// Each calls fn for every raw entry, left to right, with the trimmed path,
// which may be empty. Iteration stops on the first error.
func (l List) Each(fn func(raw, path string) error) error {
	for _, line := range l.raw {
		if err := fn(line, strings.TrimSpace(line)); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the asset name to use for path.
func Name(path string) string {
	return filepath.Base(path)
}
