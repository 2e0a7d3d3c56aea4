package report

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/bep/logg"
	qt "github.com/frankban/quicktest"
	"github.com/gohugoio/publishrelease/internal/common/errorsh"
)

type emptyError struct{}

func (emptyError) Error() string { return "" }

func newTestReporter() (*Reporter, *bytes.Buffer, *bytes.Buffer, *[]string) {
	var (
		diagnostics bytes.Buffer
		annotations bytes.Buffer
		logged      []string
	)
	l := logg.New(logg.Options{
		Level: logg.LevelInfo,
		Handler: logg.HandlerFunc(func(e *logg.Entry) error {
			logged = append(logged, e.Message)
			return nil
		}),
	})
	r := New(Options{
		ErrorLog:    l.WithLevel(logg.LevelError),
		Diagnostics: &diagnostics,
		Annotations: &annotations,
	})
	return r, &diagnostics, &annotations, &logged
}

func TestReportSuccess(t *testing.T) {
	c := qt.New(t)

	r, diagnostics, annotations, logged := newTestReporter()
	o := r.Report(nil)
	c.Assert(o.Failed, qt.IsFalse)
	c.Assert(o.Reason, qt.Equals, "")
	c.Assert(diagnostics.Len(), qt.Equals, 0)
	c.Assert(annotations.Len(), qt.Equals, 0)
	c.Assert(*logged, qt.HasLen, 0)
}

func TestReportError(t *testing.T) {
	c := qt.New(t)

	r, diagnostics, annotations, logged := newTestReporter()
	o := r.Report(fmt.Errorf("wrapped: %w", errorsh.ReleaseExists("v1.0.0")))
	c.Assert(o, qt.DeepEquals, Outcome{
		Failed: true,
		Reason: `wrapped: release already exists with tag "v1.0.0"`,
		Kind:   errorsh.KindReleaseExists,
	})
	c.Assert(diagnostics.Len(), qt.Equals, 0)
	c.Assert(annotations.String(), qt.Equals, "::error::wrapped: release already exists with tag \"v1.0.0\"\n")
	c.Assert(*logged, qt.DeepEquals, []string{o.Reason})

	o = r.Report(errors.New("line1\nline2"))
	c.Assert(o.Reason, qt.Equals, "line1\nline2")
	c.Assert(o.Kind, qt.Equals, errorsh.KindUnknown)
	c.Assert(annotations.String(), qt.Contains, "::error::line1%0Aline2\n")
}

func TestReportUnknown(t *testing.T) {
	c := qt.New(t)

	for _, v := range []any{"boom", 42, emptyError{}} {
		r, diagnostics, _, logged := newTestReporter()
		o := r.Report(v)
		c.Assert(o.Failed, qt.IsTrue)
		c.Assert(o.Reason, qt.Equals, UnknownReason)
		c.Assert(o.Kind, qt.Equals, errorsh.KindUnknown)
		c.Assert(diagnostics.String(), qt.Equals, fmt.Sprintf("%#v\n", v))
		c.Assert(*logged, qt.DeepEquals, []string{UnknownReason})
	}
}
