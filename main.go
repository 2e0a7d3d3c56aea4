package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/bep/logg"
	"github.com/gohugoio/publishrelease/cmd/checkcmd"
	"github.com/gohugoio/publishrelease/cmd/corecmd"
	"github.com/gohugoio/publishrelease/cmd/publishcmd"
	"github.com/gohugoio/publishrelease/internal/common/logging"
	"github.com/gohugoio/publishrelease/internal/report"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	os.Exit(runAndReport(os.Args[1:], os.Stdout, os.Stderr))
}

// runAndReport runs the command line in args and reports the outcome,
// returning the exit code.
func runAndReport(args []string, stdout, stderr io.Writer) (code int) {
	var annotations io.Writer
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		annotations = stdout
	}

	errorLog := logg.New(logg.Options{
		Level:   logg.LevelError,
		Handler: logging.NewNoColoursHandler(io.Discard, stderr),
	}).WithLevel(logg.LevelError)

	reporter := report.New(report.Options{
		ErrorLog:    errorLog,
		Diagnostics: stderr,
		Annotations: annotations,
	})

	var failure any
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintln(stderr, "stacktrace from panic: \n"+string(debug.Stack()))
				failure = r
			}
		}()
		if err := parseAndRun(args, stdout, stderr); err != nil {
			failure = err
		}
	}()

	if reporter.Report(failure).Failed {
		return 1
	}
	return 0
}

func parseAndRun(args []string, stdout, stderr io.Writer) (err error) {
	start := time.Now()

	var (
		coreCommand, core = corecmd.New()
		publishCommand    = publishcmd.New(core)
		checkCommand      = checkcmd.New(core)
	)

	core.Stdout = stdout
	core.Stderr = stderr

	coreCommand.Subcommands = []*ffcli.Command{
		publishCommand,
		checkCommand,
	}

	if err := core.PreInit(); err != nil {
		return err
	}

	if err := coreCommand.Parse(args); err != nil {
		return fmt.Errorf("error parsing command line: %w", err)
	}

	if err := core.Init(); err != nil {
		return err
	}

	defer func() {
		elapsed := time.Since(start)
		core.InfoLog.Log(logg.String(fmt.Sprintf("Total in %s …", logging.FormatDuration(elapsed))))
	}()

	ctx, cancel := core.WithTimeout(context.Background())
	defer cancel()

	return coreCommand.Run(ctx)
}
