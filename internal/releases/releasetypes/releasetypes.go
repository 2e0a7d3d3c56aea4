package releasetypes

import (
	"fmt"
	"strings"

	"github.com/gohugoio/publishrelease/internal/common/mapsh"
)

// Type is the kind of host a release is published to.
type Type int

const (
	InvalidType Type = iota
	GitHub
)

var releaseTypeString = map[Type]string{
	GitHub: "github",
}

var stringReleaseType = mapsh.Invert(releaseTypeString)

func (t Type) String() string {
	return releaseTypeString[t]
}

// Parse parses a string into a Type, ignoring case.
// The empty string means GitHub.
func Parse(s string) (Type, error) {
	if s == "" {
		return GitHub, nil
	}
	t := stringReleaseType[strings.ToLower(s)]
	if t == InvalidType {
		return t, fmt.Errorf("invalid release type %q, must be one of %s", s, mapsh.KeysSorted(stringReleaseType))
	}
	return t, nil
}

// MustParse is like Parse, but panics on error.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
