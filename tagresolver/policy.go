package tagresolver

import (
	"fmt"
	"strings"
)

// Policy selects the tagging convention used to filter
// and rank registry tags.
type Policy uint8

const (
	// ReleaseCandidate matches I.M.B.D_RC<n> anywhere in
	// the tag and overrides the highest candidate with one
	// built for the source tag's exact patch pair.
	ReleaseCandidate Policy = iota
	// Simple matches I.M.B.D_CALVIN_TEST at the end of the
	// tag; the highest candidate always wins.
	Simple
)

const (
	rcMarker         = "_RC"
	calvinTestMarker = "_CALVIN_TEST"
)

// String returns a stable textual representation for
// Policy.
func (p Policy) String() string {
	switch p {
	case Simple:
		return "simple"
	default:
		return "release candidate"
	}
}

// ParsePolicy maps free-form tokens to a Policy.
// Supported aliases (case-insensitive):
//
//	release candidate: "rc", "release candidate", "release-candidate",
//	                   "release_candidate"
//	simple:            "simple", "calvin-test", "calvin_test"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rc", "release candidate", "release-candidate", "release_candidate":
		return ReleaseCandidate, nil
	case "simple", "calvin-test", "calvin_test":
		return Simple, nil
	default:
		return 0, fmt.Errorf("unknown tag policy %q", s)
	}
}

// marker is the literal that must follow the patch pair.
func (p Policy) marker() string {
	if p == Simple {
		return calvinTestMarker
	}

	return rcMarker
}

// numbered reports whether the marker is followed by an
// integer that takes part in ranking.
func (p Policy) numbered() bool {
	return p == ReleaseCandidate
}

// anchoredAtEnd reports whether nothing may follow the
// suffix.
func (p Policy) anchoredAtEnd() bool {
	return p == Simple
}

// overridesByPatch reports whether a candidate matching the
// source patch pair replaces the highest-ranked one.
func (p Policy) overridesByPatch() bool {
	return p == ReleaseCandidate
}
