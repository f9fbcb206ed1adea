package tagresolver

import (
	"strconv"
	"strings"
)

// Candidate is a registry tag that belongs to the release
// line under a policy.
type Candidate struct {
	// Tag is the original registry tag.
	Tag string
	// Version holds the four leading components of the
	// tag.
	Version Version
	// Key ranks the candidate: the four version components
	// followed by the RC number under ReleaseCandidate.
	Key VersionKey
}

// ParseCandidate reports whether tag matches the release
// line under policy and returns the parsed candidate.
//
// The literal "I.M." prefix may start anywhere in tag.
// Under ReleaseCandidate anything may follow the RC number;
// under Simple the "_CALVIN_TEST" marker must end the tag.
func ParseCandidate(
	tag string,
	line ReleaseLine,
	policy Policy,
) (Candidate, bool) {
	prefix := strconv.Itoa(line.Infrastructure) + "." +
		strconv.Itoa(line.Major) + "."

	for i := 0; i+len(prefix) <= len(tag); i++ {
		if !strings.HasPrefix(tag[i:], prefix) {
			continue
		}

		patches, rc, ok := parseSuffix(
			tag, i+len(prefix), policy,
		)
		if !ok {
			continue
		}

		ver := Version{
			Infrastructure: line.Infrastructure,
			Major:          line.Major,
			BasePatch:      patches[0],
			DockerPatch:    patches[1],
		}

		key := VersionKey{
			ver.Infrastructure, ver.Major,
			ver.BasePatch, ver.DockerPatch,
		}
		if policy.numbered() {
			key = append(key, rc)
		}

		return Candidate{Tag: tag, Version: ver, Key: key}, true
	}

	return Candidate{}, false
}

// parseSuffix reads "B.D<marker>[n]" at tag[pos:].
func parseSuffix(
	tag string,
	pos int,
	policy Policy,
) (patches []int, rc int, ok bool) {
	patches, end, ok := readDotted(tag, pos, 2)
	if !ok {
		return nil, 0, false
	}

	rest, found := strings.CutPrefix(tag[end:], policy.marker())
	if !found {
		return nil, 0, false
	}

	if policy.numbered() {
		n, _, numOK := readInt(rest, 0)
		if !numOK {
			return nil, 0, false
		}

		rc = n
		rest = ""
	}

	if policy.anchoredAtEnd() && rest != "" {
		return nil, 0, false
	}

	return patches, rc, true
}
