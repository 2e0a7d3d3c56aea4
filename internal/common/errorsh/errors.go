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

// Package errorsh classifies the errors that can end a publish run.
package errorsh

import (
	"errors"
	"fmt"
)

// Kind is the class of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindReleaseExists
	KindRemoteLookup
	KindRemoteWrite
	KindLocalIO
)

var kindString = map[Kind]string{
	KindUnknown:       "unknown",
	KindConfiguration: "configuration",
	KindReleaseExists: "release-exists",
	KindRemoteLookup:  "remote-lookup",
	KindRemoteWrite:   "remote-write",
	KindLocalIO:       "local-io",
}

func (k Kind) String() string {
	return kindString[k]
}

// Error tags a cause with its Kind.
// The message is the message of the cause, unchanged.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
// This allows errors.Is(err, &Error{Kind: KindLocalIO}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

func wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// Configuration marks err as invalid or missing input.
func Configuration(err error) error {
	return wrap(KindConfiguration, err)
}

// Configurationf is Configuration with fmt.Errorf formatting.
func Configurationf(format string, args ...any) error {
	return Configuration(fmt.Errorf(format, args...))
}

// ReleaseExists is returned when a release, draft or published, already exists for tag.
func ReleaseExists(tag string) error {
	return &Error{Kind: KindReleaseExists, Err: fmt.Errorf("release already exists with tag %q", tag)}
}

// RemoteLookup marks err as a failed release lookup that was not a plain "not found".
func RemoteLookup(err error) error {
	return wrap(KindRemoteLookup, err)
}

// RemoteWrite marks err as a failed create, upload or update call.
func RemoteWrite(err error) error {
	return wrap(KindRemoteWrite, err)
}

// LocalIO marks err as a failure to read a local file.
func LocalIO(err error) error {
	return wrap(KindLocalIO, err)
}

// KindOf returns the Kind of err, KindUnknown if err isn't classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
