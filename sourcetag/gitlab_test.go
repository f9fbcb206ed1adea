package sourcetag_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beluga-ci/release-tools/sourcetag"
)

func newServer(tb testing.TB, handler http.HandlerFunc) *sourcetag.Provider {
	tb.Helper()

	srv := httptest.NewServer(handler)
	tb.Cleanup(srv.Close)

	pv, err := sourcetag.NewProvider(sourcetag.Config{
		BaseURL: srv.URL,
		Project: "beluga/ping-cloud-docker",
		Token:   "tok",
	})
	require.NoError(tb, err)

	return pv
}

func TestNewProvider_rejects_project(t *testing.T) {
	t.Parallel()

	for _, project := range []string{
		"", "ping-cloud-docker", "/ping-cloud-docker", "beluga/", "12a",
	} {
		pv, err := sourcetag.NewProvider(sourcetag.Config{Project: project})

		assert.Nil(t, pv, "project %q", project)
		assert.ErrorContains(t, err, "namespace/name path or numeric id", "project %q", project)
	}
}

func TestNewProvider_accepts_project(t *testing.T) {
	t.Parallel()

	for _, project := range []string{
		"beluga/ping-cloud-docker", "beluga/docker/ping-cloud", "4242",
	} {
		pv, err := sourcetag.NewProvider(sourcetag.Config{Project: project})

		require.NoError(t, err, "project %q", project)
		assert.NotNil(t, pv)
	}
}

func TestNewProvider_rejects_base_url(t *testing.T) {
	t.Parallel()

	pv, err := sourcetag.NewProvider(sourcetag.Config{
		BaseURL: "gitlab.example.com",
		Project: "beluga/ping-cloud-docker",
	})

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "must be http or https")
}

func TestProvider_Latest(t *testing.T) {
	t.Parallel()

	var query string

	pv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/repository/tags") {
			http.NotFound(w, r)

			return
		}

		query = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte( //nolint:errcheck // test server
			`[{"name":"nightly"},{"name":"v1.14.0.2"},{"name":"v1.14.0.1"}]`,
		))
	})

	got, err := pv.Latest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "v1.14.0.2", got)
	assert.Contains(t, query, "order_by=updated")
	assert.Contains(t, query, "sort=desc")
}

func TestProvider_Latest_none(t *testing.T) {
	t.Parallel()

	pv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"nightly"}]`)) //nolint:errcheck // test server
	})

	_, err := pv.Latest(context.Background())

	assert.ErrorIs(t, err, sourcetag.ErrNoReleaseTag)
}

func TestProvider_Exists(t *testing.T) {
	t.Parallel()

	pv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.HasSuffix(r.URL.Path, "/repository/tags/v1.14.0.0") {
			_, _ = w.Write([]byte(`{"name":"v1.14.0.0"}`)) //nolint:errcheck // test server

			return
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"404 Tag Not Found"}`)) //nolint:errcheck // test server
	})

	ok, err := pv.Exists(context.Background(), "v1.14.0.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pv.Exists(context.Background(), "v9.9.9.9")
	require.NoError(t, err)
	assert.False(t, ok)
}
