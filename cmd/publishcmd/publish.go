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

package publishcmd

import (
	"context"
	"flag"
	"fmt"
	"sync"

	"github.com/bep/logg"
	"github.com/gohugoio/publishrelease/cmd/corecmd"
	"github.com/gohugoio/publishrelease/internal/assets"
	"github.com/gohugoio/publishrelease/internal/publish"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const commandName = "publish"

// New returns a usable ffcli.Command for the publish subcommand.
func New(core *corecmd.Core) *ffcli.Command {
	fs := flag.NewFlagSet(corecmd.CommandName+" "+commandName, flag.ExitOnError)

	publisher := NewPublisher(core, fs)

	core.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       commandName,
		ShortUsage: corecmd.CommandName + " " + commandName + " -tag <tag> -files <files> [flags]",
		ShortHelp:  "Create a draft release, upload the files and publish it.",
		LongHelp: `Checks that no release exists for the tag, creates a draft release,
uploads the files, one path per line in -files, and publishes the release
as the latest.

Nothing is cleaned up on failure. A draft left behind must be deleted
before the same tag can be released again.`,
		FlagSet: fs,
		Options: corecmd.Options(),
		Exec:    publisher.Exec,
	}
}

// NewPublisher returns a new Publisher.
func NewPublisher(core *corecmd.Core, fs *flag.FlagSet) *Publisher {
	p := &Publisher{
		core: core,
	}

	fs.StringVar(&p.files, "files", "", "The files to upload, one per line.")
	fs.StringVar(&p.name, "name", "", "Go template for the release name. Defaults to the tag.")
	fs.StringVar(&p.body, "body", "", "Go template for the release body.")
	fs.StringVar(&p.commitish, "commitish", "", "The commitish value that determines where the Git tag is created from.")
	fs.BoolVar(&p.checksums, "checksums", false, "Upload a checksums.txt file after the files.")

	return p
}

// Publisher handles the publish command.
type Publisher struct {
	core    *corecmd.Core
	infoLog logg.LevelLogger

	// Flags
	files     string
	name      string
	body      string
	commitish string
	checksums bool

	filesParsed assets.List
	opts        publish.Options

	initOnce sync.Once
	initErr  error
}

// Init validates the flags. It does not talk to the remote.
func (p *Publisher) Init() error {
	p.initOnce.Do(func() {
		p.infoLog = p.core.InfoLog.WithField("cmd", commandName)

		var err error
		p.filesParsed, err = assets.Parse(p.files)
		if err != nil {
			p.initErr = err
			return
		}

		settings := p.core.Config.ReleaseSettings

		p.opts = publish.Options{
			Tag:          p.core.Tag,
			NameTemplate: firstNonEmpty(p.name, settings.Name),
			BodyTemplate: firstNonEmpty(p.body, settings.Body),
			Commitish:    firstNonEmpty(p.commitish, settings.Commitish),
			Checksums:    p.checksums || settings.Checksums,
			Workforce:    p.core.Workforce,
			InfoLog:      p.infoLog,
		}

		p.infoLog.WithField("files", fmt.Sprintf("%q", p.filesParsed.Raw())).Log(logg.String("Files to upload"))
	})
	return p.initErr
}

// Exec runs the publish command.
func (p *Publisher) Exec(ctx context.Context, args []string) error {
	if err := p.Init(); err != nil {
		return err
	}

	client, err := p.core.NewClient(ctx)
	if err != nil {
		return err
	}

	publisher, err := publish.New(client, p.opts)
	if err != nil {
		return err
	}

	rel, err := publisher.Run(ctx, p.filesParsed)
	if err != nil {
		p.infoLog.WithField("state", publisher.State()).Log(logg.String("Publish stopped"))
		return err
	}

	p.infoLog.WithFields(logg.Fields{
		{Name: "id", Value: rel.ID},
		{Name: "assets", Value: len(publisher.Uploaded())},
	}).Log(logg.String("Done"))

	return nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
