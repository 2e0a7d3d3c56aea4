package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/bep/logg"
	"github.com/bep/logg/handlers/multi"
	qt "github.com/frankban/quicktest"
)

func TestNoColoursHandler(t *testing.T) {
	c := qt.New(t)

	var out, errOut bytes.Buffer
	l := logg.New(logg.Options{
		Level:   logg.LevelInfo,
		Handler: multi.New(Masker("s3cret", ""), NewNoColoursHandler(&out, &errOut)),
	})

	core := l.WithLevel(logg.LevelInfo).WithField("cmd", "core")
	core.WithField("cmd", "publish").WithField("tag", "v1.0.0").Log(logg.String("Created draft release"))
	l.WithLevel(logg.LevelError).WithField("cmd", "publish").Log(logg.String("bad token s3cret"))

	c.Assert(out.String(), qt.Equals, "PUBLISH:\tCreated draft release tag v1.0.0\n")
	c.Assert(errOut.String(), qt.Equals, "PUBLISH:\tbad token ***\n")
}

func TestFormatDuration(t *testing.T) {
	c := qt.New(t)

	c.Assert(FormatDuration(150*time.Millisecond), qt.Equals, "150ms")
	c.Assert(FormatDuration(3*time.Second), qt.Equals, "3.00s")
}
