package tagresolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beluga-ci/release-tools/tagresolver"
)

var line114 = tagresolver.ReleaseLine{Infrastructure: 1, Major: 14}

func TestParseCandidate_release_candidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag     string
		wantKey tagresolver.VersionKey
		ok      bool
	}{
		{"1.14.0.0_RC1", tagresolver.VersionKey{1, 14, 0, 0, 1}, true},
		{"v1.14.2.3_RC12", tagresolver.VersionKey{1, 14, 2, 3, 12}, true},
		{"1.14.0.1_RC2-amd64", tagresolver.VersionKey{1, 14, 0, 1, 2}, true},
		{"11.14.0.0_RC1", tagresolver.VersionKey{1, 14, 0, 0, 1}, true},
		{"2.0.0.0_RC1", nil, false},
		{"1.15.0.0_RC1", nil, false},
		{"1.140.0.0_RC1", nil, false},
		{"1.14.0.0", nil, false},
		{"1.14.0.0_RC", nil, false},
		{"1.14.0_RC1", nil, false},
		{"1.14.0.0_CALVIN_TEST", nil, false},
	}

	for _, tc := range tests {
		got, ok := tagresolver.ParseCandidate(
			tc.tag, line114, tagresolver.ReleaseCandidate,
		)

		require.Equal(t, tc.ok, ok, "tag %q", tc.tag)

		if tc.ok {
			assert.Equal(t, tc.tag, got.Tag)
			assert.Equal(t, tc.wantKey, got.Key, "tag %q", tc.tag)
		}
	}
}

func TestParseCandidate_simple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag     string
		wantKey tagresolver.VersionKey
		ok      bool
	}{
		{"1.14.0.0_CALVIN_TEST", tagresolver.VersionKey{1, 14, 0, 0}, true},
		{"v1.14.3.7_CALVIN_TEST", tagresolver.VersionKey{1, 14, 3, 7}, true},
		{"1.14.0.1_CALVIN_TEST_EXTRA", nil, false},
		{"1.14.0.1_CALVIN_TEST ", nil, false},
		{"1.14.0.1_RC1", nil, false},
		{"1.13.0.1_CALVIN_TEST", nil, false},
	}

	for _, tc := range tests {
		got, ok := tagresolver.ParseCandidate(
			tc.tag, line114, tagresolver.Simple,
		)

		require.Equal(t, tc.ok, ok, "tag %q", tc.tag)

		if tc.ok {
			assert.Equal(t, tc.wantKey, got.Key, "tag %q", tc.tag)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]tagresolver.Policy{
		"rc":                tagresolver.ReleaseCandidate,
		" Release-Candidate": tagresolver.ReleaseCandidate,
		"simple":            tagresolver.Simple,
		"CALVIN_TEST":       tagresolver.Simple,
	} {
		got, err := tagresolver.ParsePolicy(in)

		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := tagresolver.ParsePolicy("latest")
	assert.ErrorContains(t, err, "unknown tag policy")
}

func TestParsePolicy_accepts_String(t *testing.T) {
	t.Parallel()

	for _, policy := range []tagresolver.Policy{
		tagresolver.ReleaseCandidate,
		tagresolver.Simple,
	} {
		got, err := tagresolver.ParsePolicy(policy.String())

		require.NoError(t, err, "policy %s", policy)
		assert.Equal(t, policy, got)
	}
}

func FuzzParseCandidate(f *testing.F) {
	f.Add("1.14.0.0_RC1")
	f.Add("1.14.0.1_CALVIN_TEST")
	f.Add("11.14.0.0_RC")
	f.Add("1.14.")

	f.Fuzz(func(t *testing.T, tag string) {
		for _, policy := range []tagresolver.Policy{
			tagresolver.ReleaseCandidate,
			tagresolver.Simple,
		} {
			got, ok := tagresolver.ParseCandidate(tag, line114, policy)
			if !ok {
				continue
			}

			assert.Equal(t, line114, got.Version.Line())
		}
	})
}
