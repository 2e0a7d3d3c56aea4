package main

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/gohugoio/publishrelease/internal/releases"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestBasic(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testscripts/basic",
		Setup: setup,
	})
}

func setup(env *testscript.Env) error {
	// Multiline inputs, e.g. -files=a.txt${NL}b.txt.
	env.Setenv("NL", "\n")
	return nil
}

func TestMain(m *testing.M) {
	os.Exit(
		testscript.RunMain(m, map[string]func() int{
			// The main program.
			"publishrelease": func() int {
				return runAndReport(os.Args[1:], os.Stdout, os.Stderr)
			},

			// Helpers.
			"checkfile": func() int {
				// The built-in exists does not check for zero size files.
				args := os.Args[1:]
				if len(args) == 0 {
					fatalf("usage: checkfile file...")
				}

				for _, filename := range args {
					fi, err := os.Stat(filename)
					if err != nil {
						fmt.Fprintf(os.Stderr, "stat %s: %v\n", filename, err)
						return -1
					}
					if fi.Size() == 0 {
						fmt.Fprintf(os.Stderr, "%s is empty\n", filename)
						return -1
					}
				}

				return 0
			},

			// fakerelease prints the release for a tag in a fake state file,
			// one field per line, followed by its asset names.
			"fakerelease": func() int {
				if len(os.Args) != 3 {
					fatalf("usage: fakerelease statefile tag")
				}
				b, err := os.ReadFile(os.Args[1])
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return -1
				}
				var state struct {
					Releases []releases.Release         `json:"releases"`
					Assets   map[int64][]releases.Asset `json:"assets"`
				}
				if err := json.Unmarshal(b, &state); err != nil {
					fmt.Fprintln(os.Stderr, err)
					return -1
				}
				for _, rel := range state.Releases {
					if rel.Tag != os.Args[2] {
						continue
					}
					fmt.Printf("visibility: %s\n", rel.Visibility())
					fmt.Printf("latest: %t\n", rel.Latest)
					for _, a := range state.Assets[rel.ID] {
						fmt.Printf("asset: %s %d\n", a.Name, a.Size)
					}
					return 0
				}
				fmt.Fprintf(os.Stderr, "no release with tag %q\n", os.Args[2])
				return -1
			},
		}),
	)
}

func fatalf(format string, a ...any) {
	panic(fmt.Sprintf(format, a...))
}
