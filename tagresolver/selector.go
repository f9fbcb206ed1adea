package tagresolver

import "slices"

// Candidates returns the tags that belong to the source's
// release line under policy, in the order given.
func Candidates(
	tags []string,
	source Version,
	policy Policy,
) []Candidate {
	line := source.Line()
	out := make([]Candidate, 0, len(tags))

	for _, t := range tags {
		if c, ok := ParseCandidate(t, line, policy); ok {
			out = append(out, c)
		}
	}

	return out
}

// Select picks the current latest tag for source among
// tags.
//
// Candidates are ranked by key in descending order with a
// stable sort, so ties keep their input order. The first
// one is the default. Under ReleaseCandidate the first
// ranked candidate with the source's (basePatch,
// dockerPatch) pair replaces the default when present.
func Select(
	tags []string,
	source Version,
	policy Policy,
) (string, error) {
	cands := Candidates(tags, source, policy)
	if len(cands) == 0 {
		return "", &NoMatchError{
			Line:   source.Line(),
			Policy: policy,
		}
	}

	slices.SortStableFunc(cands, func(a, b Candidate) int {
		return b.Key.Compare(a.Key)
	})

	selected := cands[0]

	if policy.overridesByPatch() {
		for _, c := range cands {
			if c.Version.BasePatch == source.BasePatch &&
				c.Version.DockerPatch == source.DockerPatch {
				selected = c

				break
			}
		}
	}

	return selected.Tag, nil
}
