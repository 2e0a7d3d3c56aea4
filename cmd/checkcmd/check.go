package checkcmd

import (
	"context"
	"flag"

	"github.com/bep/logg"
	"github.com/gohugoio/publishrelease/cmd/corecmd"
	"github.com/gohugoio/publishrelease/internal/common/errorsh"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const commandName = "check"

// New returns a usable ffcli.Command for the check subcommand.
func New(core *corecmd.Core) *ffcli.Command {
	fs := flag.NewFlagSet(corecmd.CommandName+" "+commandName, flag.ExitOnError)

	checker := NewChecker(core)

	core.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       commandName,
		ShortUsage: corecmd.CommandName + " " + commandName + " -tag <tag> [flags]",
		ShortHelp:  "Fail if a release, draft or published, exists for the tag.",
		FlagSet:    fs,
		Options:    corecmd.Options(),
		Exec:       checker.Exec,
	}
}

// NewChecker returns a new Checker.
func NewChecker(core *corecmd.Core) *Checker {
	return &Checker{core: core}
}

// Checker handles the check command.
type Checker struct {
	core    *corecmd.Core
	infoLog logg.LevelLogger
}

func (c *Checker) Init() error {
	c.infoLog = c.core.InfoLog.WithFields(logg.Fields{
		{Name: "cmd", Value: commandName},
		{Name: "tag", Value: c.core.Tag},
	})
	return nil
}

func (c *Checker) Exec(ctx context.Context, args []string) error {
	if err := c.Init(); err != nil {
		return err
	}

	client, err := c.core.NewClient(ctx)
	if err != nil {
		return err
	}

	rel, found, err := client.FindReleaseByTag(ctx, c.core.Tag)
	if err != nil {
		return errorsh.RemoteLookup(err)
	}
	if found {
		c.infoLog.WithFields(logg.Fields{
			{Name: "visibility", Value: rel.Visibility()},
			{Name: "url", Value: rel.URL},
		}).Log(logg.String("Found existing release"))
		return errorsh.ReleaseExists(c.core.Tag)
	}

	c.infoLog.Log(logg.String("No existing release found"))

	return nil
}
