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

package corecmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bep/logg"
	"github.com/bep/logg/handlers/multi"
	"github.com/bep/workers"
	"github.com/gohugoio/publishrelease/internal/common/errorsh"
	"github.com/gohugoio/publishrelease/internal/common/logging"
	"github.com/gohugoio/publishrelease/internal/config"
	"github.com/gohugoio/publishrelease/internal/releases"
	"github.com/pelletier/go-toml/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

// CommandHandler is implemented by the subcommands.
type CommandHandler interface {
	Exec(ctx context.Context, args []string) error
	Init() error
}

const (
	// CommandName is the main command's binary name.
	CommandName = "publishrelease"

	// The prefix used for flag values set in the environment.
	// This matches how GitHub Actions passes inputs, e.g. INPUT_TAG.
	EnvPrefix = "INPUT"

	// The config file to look for in the current directory if -config is not set.
	ConfigFile = "publishrelease.toml"

	// Environment fallbacks for -token and -repository.
	TokenEnvVar      = "GITHUB_TOKEN"
	RepositoryEnvVar = "GITHUB_REPOSITORY"

	// Set in tests to share the fake remote between runs.
	FakeStateEnvVar = "PUBLISHRELEASE_FAKE_STATE"
)

// New constructs a usable ffcli.Command and an empty Core. The Core
// will be set after a successful parse and a call to Init.
func New() (*ffcli.Command, *Core) {
	var cfg Core

	fs := flag.NewFlagSet(CommandName, flag.ExitOnError)

	cfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       CommandName,
		ShortUsage: CommandName + " [flags] <subcommand> [flags] [<arg>...]",
		FlagSet:    fs,
		Options:    Options(),
		Exec:       cfg.Exec,
	}, &cfg
}

// Options returns the ff options shared by all commands.
func Options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(EnvPrefix),
	}
}

// Core holds common config settings and objects.
type Core struct {
	// The parsed config.
	Config config.Config

	// The common Info logger.
	InfoLog logg.LevelLogger

	// The common Warn logger.
	WarnLog logg.LevelLogger

	// The common Error logger.
	ErrorLog logg.LevelLogger

	// No output to stdout.
	Quiet bool

	// Trial run, nothing is sent to the remote.
	Try bool

	// The Git tag to use for the release.
	// This tag will be created at release time if it does not exist.
	Tag string

	// The API token.
	Token string

	// The repository on the form owner/repo.
	Repository string

	// API endpoint for GitHub Enterprise.
	BaseURL string

	// Absolute path to the project root.
	ProjectDir string

	// The config file to use.
	ConfigFile string

	// Number of parallel tasks, used to create checksums.
	NumWorkers int

	// Global timeout for all commands. Zero means no timeout.
	Timeout time.Duration

	// The global workforce.
	Workforce *workers.Workforce

	// Where the fake client keeps its state between runs.
	FakeStateFile string

	// Writers for the command output. Default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Exec function for this command.
func (c *Core) Exec(context.Context, []string) error {
	// The root command has no meaning, so if it gets executed,
	// display the usage text to the user instead.
	return flag.ErrHelp
}

// RegisterFlags registers the flag fields into the provided flag.FlagSet. This
// helper function allows subcommands to register the root flags into their
// flagsets, creating "global" flags that can be passed after any subcommand at
// the commandline.
func (c *Core) RegisterFlags(fs *flag.FlagSet) {
	numWorkers := runtime.NumCPU()
	if numWorkers > 6 {
		numWorkers = 6
	}
	fs.StringVar(&c.Tag, "tag", "", "The name of the release tag (e.g. v1.2.0). Does not need to exist.")
	fs.StringVar(&c.Token, "token", "", "The GitHub token. Defaults to $"+TokenEnvVar+".")
	fs.StringVar(&c.Repository, "repository", "", "The repository on the form owner/repo. Defaults to $"+RepositoryEnvVar+".")
	fs.StringVar(&c.BaseURL, "base-url", "", "The API endpoint for GitHub Enterprise.")
	fs.StringVar(&c.ConfigFile, "config", "", "The config file to use. Defaults to "+ConfigFile+" if it exists.")
	fs.IntVar(&c.NumWorkers, "workers", numWorkers, "Number of parallel checksum workers.")
	fs.DurationVar(&c.Timeout, "timeout", 0, "Global timeout, e.g. 10m. Default is no timeout.")
	fs.BoolVar(&c.Quiet, "quiet", false, "Don't output anything to stdout.")
	fs.BoolVar(&c.Try, "try", false, "Trial run, nothing is sent to GitHub.")
}

// PreInit is called before the flags are parsed.
func (c *Core) PreInit() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error getting working directory: %w", err)
	}

	c.ProjectDir = wd

	return nil
}

// Init sets up logging, reads the config file and validates the
// common flags. Environment fallbacks are resolved here and nowhere else.
func (c *Core) Init() error {
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.ProjectDir == "" {
		if err := c.PreInit(); err != nil {
			return err
		}
	}

	if c.Token == "" {
		c.Token = os.Getenv(TokenEnvVar)
	}
	if c.FakeStateFile == "" {
		c.FakeStateFile = os.Getenv(FakeStateEnvVar)
	}

	stdOut := c.Stdout
	if c.Quiet {
		stdOut = io.Discard
	}

	// Configure logging.
	var logHandler logg.Handler
	if f, ok := stdOut.(*os.File); ok && logging.IsTerminal(f) {
		logHandler = logging.NewDefaultHandler(stdOut, c.Stderr)
	} else {
		logHandler = logging.NewNoColoursHandler(stdOut, c.Stderr)
	}

	// Never log the token.
	logHandler = multi.New(logging.Masker(c.Token), logHandler)

	l := logg.New(
		logg.Options{
			Level:   logg.LevelInfo,
			Handler: logHandler,
		},
	)

	c.InfoLog = l.WithLevel(logg.LevelInfo).WithField("cmd", "core")
	c.WarnLog = l.WithLevel(logg.LevelWarn).WithField("cmd", "core")
	c.ErrorLog = l.WithLevel(logg.LevelError).WithField("cmd", "core")

	if err := c.loadConfig(); err != nil {
		return errorsh.Configuration(err)
	}

	if c.Repository == "" && c.Config.ReleaseSettings.Repository == "" {
		c.Repository = os.Getenv(RepositoryEnvVar)
	}
	if c.Repository != "" {
		if err := c.Config.ReleaseSettings.SetRepository(c.Repository); err != nil {
			return errorsh.Configurationf("flag -repository: %v", err)
		}
	}
	if c.BaseURL != "" {
		c.Config.ReleaseSettings.BaseURL = c.BaseURL
	}

	if c.Tag == "" {
		return errorsh.Configurationf("flag -tag is required")
	}

	if c.NumWorkers < 1 {
		c.NumWorkers = runtime.NumCPU()
	}
	c.Workforce = workers.New(c.NumWorkers)

	return nil
}

func (c *Core) loadConfig() error {
	filename := c.ConfigFile
	explicit := filename != ""
	if !explicit {
		filename = ConfigFile
	}
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(c.ProjectDir, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			c.Config, err = config.DecodeAndApplyDefaults(strings.NewReader(""))
			return err
		}
		return fmt.Errorf("error opening config file %q: %w", filename, err)
	}
	defer f.Close()

	c.ConfigFile = filename
	c.Config, err = config.DecodeAndApplyDefaults(f)

	if err != nil {
		msg := "error decoding config file"
		switch v := err.(type) {
		case *toml.DecodeError:
			line, col := v.Position()
			return fmt.Errorf("%s %q:%d:%d %w:\n%s", msg, filename, line, col, err, v.String())
		case *toml.StrictMissingError:
			return fmt.Errorf("%s %q: %w:\n%s", msg, filename, err, v.String())
		}
		return fmt.Errorf("%s %q: %w", msg, filename, err)
	}

	c.InfoLog.WithField("file", filename).Log(logg.String("Using config"))

	return nil
}

// NewClient creates the release client for the configured repository.
// Missing credentials or repository is a configuration error.
func (c *Core) NewClient(ctx context.Context) (releases.Client, error) {
	settings := c.Config.ReleaseSettings

	if c.Try {
		client, err := releases.NewFakeClient("")
		if err != nil {
			return nil, err
		}
		client.Out = c.Stdout
		if c.Quiet {
			client.Out = io.Discard
		}
		return client, nil
	}

	client, err := releases.NewClient(ctx, releases.Options{
		Type:          settings.TypeParsed,
		Owner:         settings.RepositoryOwner,
		Repository:    settings.Repository,
		Token:         c.Token,
		BaseURL:       settings.BaseURL,
		FakeStateFile: c.FakeStateFile,
	})
	if err != nil {
		return nil, err
	}
	if fc, ok := client.(*releases.FakeClient); ok {
		fc.Out = c.Stdout
		if c.Quiet {
			fc.Out = io.Discard
		}
	}
	return client, nil
}

// WithTimeout returns ctx with the -timeout deadline applied, if any.
func (c *Core) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}
