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

// Package publish drives a release from lookup to published:
// check that the tag is free, create a draft, upload the assets in order
// and publish. Any failure ends the run and nothing is rolled back.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/bep/logg"
	"github.com/bep/workers"
	"github.com/gohugoio/publishrelease/internal/assets"
	"github.com/gohugoio/publishrelease/internal/common/errorsh"
	"github.com/gohugoio/publishrelease/internal/common/templ"
	"github.com/gohugoio/publishrelease/internal/releases"
)

const (
	// DefaultNameTemplate is the default release name.
	DefaultNameTemplate = "{{ .Tag }}"

	// DefaultBodyTemplate is the default release body.
	DefaultBodyTemplate = "Release notes for {{ .Tag }}"
)

// ErrAlreadyRun is returned when Run is called more than once.
var ErrAlreadyRun = errors.New("publish: a Publisher can only run once")

// Options for a publish run.
type Options struct {
	// The Git tag to release. Required.
	Tag string

	// Go templates for the release name and body, executed with TemplateContext.
	// Defaults to DefaultNameTemplate and DefaultBodyTemplate.
	NameTemplate string
	BodyTemplate string

	// Where the tag is created from if it does not exist.
	// Empty means the host's default branch.
	Commitish string

	// Upload a checksums file after the assets.
	Checksums bool

	// Used to create the checksums. Defaults to one worker per CPU.
	Workforce *workers.Workforce

	// Defaults to a logger that discards everything.
	InfoLog logg.LevelLogger
}

// TemplateContext is the data available in the name and body templates.
type TemplateContext struct {
	Tag string
}

// Publisher runs the publish state machine once.
type Publisher struct {
	client  releases.Client
	opts    Options
	infoLog logg.LevelLogger

	name string
	body string

	state    State
	trace    []State
	ran      bool
	uploaded []string
}

// New creates a new Publisher.
// The name and body templates are rendered here, so a bad template fails
// before anything is sent to the remote.
func New(client releases.Client, opts Options) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("publish: client is required")
	}
	if opts.Tag == "" {
		return nil, errorsh.Configurationf("publish: tag is required")
	}
	if opts.NameTemplate == "" {
		opts.NameTemplate = DefaultNameTemplate
	}
	if opts.BodyTemplate == "" {
		opts.BodyTemplate = DefaultBodyTemplate
	}
	if opts.Checksums && opts.Workforce == nil {
		opts.Workforce = workers.New(runtime.NumCPU())
	}
	if opts.InfoLog == nil {
		opts.InfoLog = discardLogger()
	}

	tctx := TemplateContext{Tag: opts.Tag}

	name, err := templ.Sprintt(opts.NameTemplate, tctx)
	if err != nil {
		return nil, errorsh.Configurationf("publish: invalid name template: %v", err)
	}
	body, err := templ.Sprintt(opts.BodyTemplate, tctx)
	if err != nil {
		return nil, errorsh.Configurationf("publish: invalid body template: %v", err)
	}

	return &Publisher{
		client:  client,
		opts:    opts,
		infoLog: opts.InfoLog.WithField("tag", opts.Tag),
		name:    name,
		body:    body,
		state:   Checking,
		trace:   []State{Checking},
	}, nil
}

// State returns the current state.
func (p *Publisher) State() State {
	return p.state
}

// Trace returns the states visited so far, in order.
func (p *Publisher) Trace() []State {
	return append([]State(nil), p.trace...)
}

// Uploaded returns the paths of the files uploaded so far, in upload order.
func (p *Publisher) Uploaded() []string {
	return append([]string(nil), p.uploaded...)
}

// Run publishes files as a new release for the tag.
// On failure the error is returned unchanged from the step that failed,
// classified with errorsh, and any draft or assets created are left in place.
func (p *Publisher) Run(ctx context.Context, files assets.List) (releases.Release, error) {
	if p.ran {
		return releases.Release{}, ErrAlreadyRun
	}
	p.ran = true

	if files.Len() == 0 {
		err := errorsh.Configuration(assets.ErrNoFiles)
		p.transition(Failed)
		return releases.Release{}, err
	}

	rel, err := p.run(ctx, files)
	if err != nil && !p.state.IsTerminal() {
		p.transition(Failed)
	}
	return rel, err
}

func (p *Publisher) run(ctx context.Context, files assets.List) (releases.Release, error) {
	tag := p.opts.Tag

	existing, found, err := p.client.FindReleaseByTag(ctx, tag)
	if err != nil {
		return releases.Release{}, errorsh.RemoteLookup(err)
	}
	if found {
		p.infoLog.WithField("visibility", existing.Visibility()).Log(logg.String("Found existing release"))
		p.transition(Blocked)
		return existing, errorsh.ReleaseExists(tag)
	}
	p.transition(NotFound)
	p.infoLog.Log(logg.String("No existing release found"))

	p.transition(Creating)
	rel, err := p.client.CreateRelease(ctx, releases.CreateOptions{
		Tag:        tag,
		Name:       p.name,
		Body:       p.body,
		Commitish:  p.opts.Commitish,
		Draft:      true,
		Prerelease: true,
	})
	if err != nil {
		return releases.Release{}, errorsh.RemoteWrite(err)
	}
	p.transition(DraftReady)
	p.infoLog.WithFields(logg.Fields{
		{Name: "id", Value: rel.ID},
		{Name: "url", Value: rel.URL},
	}).Log(logg.String("Created draft release"))

	p.transition(Uploading)
	if err := files.Each(func(raw, path string) error {
		if path == "" {
			p.infoLog.WithField("entry", fmt.Sprintf("%q", raw)).Log(logg.String("Skipping empty file path"))
			return nil
		}
		return p.upload(ctx, rel.ID, path)
	}); err != nil {
		return rel, err
	}

	if p.opts.Checksums {
		if err := p.uploadChecksums(ctx, rel.ID); err != nil {
			return rel, err
		}
	}
	p.transition(AllUploaded)

	p.transition(Publishing)
	p.infoLog.WithField("id", rel.ID).Log(logg.String("Publishing release"))
	published, err := p.client.UpdateRelease(ctx, rel.ID, releases.UpdateOptions{
		Draft:      false,
		Prerelease: false,
		MakeLatest: true,
	})
	if err != nil {
		return rel, errorsh.RemoteWrite(err)
	}
	p.transition(Published)
	p.infoLog.WithField("url", published.URL).Log(logg.String("Release published"))

	return published, nil
}

// upload reads path and uploads it. The content is not kept after the call.
func (p *Publisher) upload(ctx context.Context, releaseID int64, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errorsh.LocalIO(err)
	}
	name := assets.Name(path)
	p.infoLog.WithFields(logg.Fields{
		{Name: "file", Value: path},
		{Name: "size", Value: len(content)},
	}).Log(logg.String("Uploading"))
	if _, err := p.client.UploadAsset(ctx, releaseID, name, content); err != nil {
		return errorsh.RemoteWrite(err)
	}
	p.uploaded = append(p.uploaded, path)
	return nil
}

func (p *Publisher) uploadChecksums(ctx context.Context, releaseID int64) error {
	content, err := releases.CreateChecksumsFile(ctx, p.opts.Workforce, p.uploaded...)
	if err != nil {
		return errorsh.LocalIO(err)
	}
	p.infoLog.WithField("file", releases.ChecksumsFilename).Log(logg.String("Uploading"))
	if _, err := p.client.UploadAsset(ctx, releaseID, releases.ChecksumsFilename, content); err != nil {
		return errorsh.RemoteWrite(err)
	}
	return nil
}

func (p *Publisher) transition(to State) {
	if !canTransition(p.state, to) {
		panic(fmt.Sprintf("publish: invalid transition %s -> %s", p.state, to))
	}
	p.state = to
	p.trace = append(p.trace, to)
}

func discardLogger() logg.LevelLogger {
	return logg.New(logg.Options{
		Level:   logg.LevelError,
		Handler: logg.HandlerFunc(func(e *logg.Entry) error { return nil }),
	}).WithLevel(logg.LevelInfo)
}
