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

// Package report turns the result of a run into one outcome.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bep/logg"
	"github.com/gohugoio/publishrelease/internal/common/errorsh"
)

// UnknownReason is the reason given for failures without a message.
const UnknownReason = "Unknown error"

// Outcome is the result of a run.
type Outcome struct {
	Failed bool
	Reason string
	Kind   errorsh.Kind
}

// Options for a Reporter.
type Options struct {
	// Failure reasons are logged here.
	ErrorLog logg.LevelLogger

	// Unrecognized failure values are dumped here.
	Diagnostics io.Writer

	// If set, failures are also written here as a GitHub Actions error command.
	Annotations io.Writer
}

// Reporter reports outcomes.
type Reporter struct {
	opts Options
}

// New creates a new Reporter.
func New(opts Options) *Reporter {
	if opts.Diagnostics == nil {
		opts.Diagnostics = io.Discard
	}
	return &Reporter{opts: opts}
}

// Report maps v to an Outcome.
// v is nil on success, otherwise an error or any value recovered from a panic.
func (r *Reporter) Report(v any) Outcome {
	if v == nil {
		return Outcome{}
	}

	o := Outcome{Failed: true, Reason: UnknownReason}

	if err, ok := v.(error); ok && err != nil && err.Error() != "" {
		o.Reason = err.Error()
		o.Kind = errorsh.KindOf(err)
	} else {
		fmt.Fprintf(r.opts.Diagnostics, "%#v\n", v)
	}

	if r.opts.ErrorLog != nil {
		l := r.opts.ErrorLog
		if o.Kind != errorsh.KindUnknown {
			l = l.WithField("kind", o.Kind)
		}
		l.Log(logg.String(o.Reason))
	}

	if r.opts.Annotations != nil {
		fmt.Fprintf(r.opts.Annotations, "::error::%s\n", escapeData(o.Reason))
	}

	return o
}

// escapeData escapes s for use as the message of a workflow command.
func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}
