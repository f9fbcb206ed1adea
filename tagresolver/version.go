package tagresolver

import (
	"cmp"
	"fmt"
	"strconv"
)

// versionParts is the number of dotted integers in a
// source tag version.
const versionParts = 4

// ReleaseLine identifies a family of releases.
type ReleaseLine struct {
	Infrastructure int
	Major          int
}

// String renders the line as "I.M".
func (l ReleaseLine) String() string {
	return fmt.Sprintf("%d.%d", l.Infrastructure, l.Major)
}

// Version is the normalized form of a source tag.
type Version struct {
	Infrastructure int
	Major          int
	BasePatch      int
	DockerPatch    int
}

// Line returns the release line of the version.
func (v Version) Line() ReleaseLine {
	return ReleaseLine{
		Infrastructure: v.Infrastructure,
		Major:          v.Major,
	}
}

// String renders the version as "I.M.B.D".
func (v Version) String() string {
	return fmt.Sprintf(
		"%d.%d.%d.%d",
		v.Infrastructure, v.Major, v.BasePatch, v.DockerPatch,
	)
}

// VersionKey is an ordered tuple of integers used for
// ranking candidates.
type VersionKey []int

// Compare orders keys lexicographically, component by
// component, as integers.
func (k VersionKey) Compare(o VersionKey) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		if c := cmp.Compare(k[i], o[i]); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(k), len(o))
}

// Normalize extracts the first dotted four-part integer
// version found anywhere in sourceTag, e.g. "v1.14.0.0"
// or "release-2.0.5.9-final".
func Normalize(sourceTag string) (Version, error) {
	for i := 0; i < len(sourceTag); i++ {
		// A match starting inside a digit run can only
		// succeed if one starting at the run does.
		if !isDigit(sourceTag[i]) ||
			(i > 0 && isDigit(sourceTag[i-1])) {
			continue
		}

		parts, _, ok := readDotted(sourceTag, i, versionParts)
		if !ok {
			continue
		}

		return Version{
			Infrastructure: parts[0],
			Major:          parts[1],
			BasePatch:      parts[2],
			DockerPatch:    parts[3],
		}, nil
	}

	return Version{}, &InvalidTagError{Tag: sourceTag}
}

// readInt reads the maximal run of ASCII digits at s[i:].
// A run that does not fit in an int is rejected.
func readInt(s string, i int) (n, end int, ok bool) {
	end = i
	for end < len(s) && isDigit(s[end]) {
		end++
	}

	if end == i {
		return 0, i, false
	}

	n, err := strconv.Atoi(s[i:end])
	if err != nil {
		return 0, i, false
	}

	return n, end, true
}

// readDotted reads count dot-separated integers at s[i:]
// and returns them with the index just past the last one.
func readDotted(s string, i, count int) ([]int, int, bool) {
	parts := make([]int, 0, count)
	pos := i

	for idx := 0; idx < count; idx++ {
		if idx > 0 {
			if pos >= len(s) || s[pos] != '.' {
				return nil, i, false
			}

			pos++
		}

		n, end, ok := readInt(s, pos)
		if !ok {
			return nil, i, false
		}

		parts = append(parts, n)
		pos = end
	}

	return parts, pos, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
