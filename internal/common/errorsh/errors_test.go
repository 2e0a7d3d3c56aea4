package errorsh

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestKinds(t *testing.T) {
	c := qt.New(t)

	cause := errors.New("boom")

	for _, test := range []struct {
		err  error
		kind Kind
	}{
		{Configuration(cause), KindConfiguration},
		{Configurationf("flag -%s is required", "tag"), KindConfiguration},
		{ReleaseExists("v1.0.0"), KindReleaseExists},
		{RemoteLookup(cause), KindRemoteLookup},
		{RemoteWrite(cause), KindRemoteWrite},
		{LocalIO(cause), KindLocalIO},
		{cause, KindUnknown},
		{nil, KindUnknown},
	} {
		c.Assert(KindOf(test.err), qt.Equals, test.kind, qt.Commentf("%v", test.err))
	}

	c.Assert(Configuration(nil), qt.IsNil)
	c.Assert(ReleaseExists("v1.0.0"), qt.ErrorMatches, `release already exists with tag "v1.0.0"`)
}

func TestMessageIsUnchanged(t *testing.T) {
	c := qt.New(t)

	cause := fmt.Errorf("open a.txt: %w", fs.ErrNotExist)
	err := LocalIO(cause)

	c.Assert(err.Error(), qt.Equals, cause.Error())
	c.Assert(errors.Is(err, fs.ErrNotExist), qt.IsTrue)
	c.Assert(errors.Is(err, &Error{Kind: KindLocalIO}), qt.IsTrue)
	c.Assert(errors.Is(err, &Error{Kind: KindRemoteWrite}), qt.IsFalse)

	// Wrapping twice with the same kind is a no-op.
	c.Assert(LocalIO(err), qt.Equals, err)

	// An outer wrap keeps the classification.
	c.Assert(KindOf(fmt.Errorf("publish: %w", err)), qt.Equals, KindLocalIO)
	c.Assert(KindRemoteLookup.String(), qt.Equals, "remote-lookup")
}
