package clusterhealth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beluga-ci/release-tools/config"
	"github.com/beluga-ci/release-tools/testing/clusterhealth"
)

const healthBody = `{
  "health": {
    "cluster-health": {
      "tests": {
        "cluster-members": {
          "namespace ping-cloud exists": "OK",
          "node ip-10-0-1-1 is ready": "OK",
          "node ip-10-0-1-2 is ready": "OK",
          "statefulset pingdirectory replicas ready": "OK"
        }
      }
    }
  }
}`

func httpConfig() config.HTTPConfig {
	return config.HTTPConfig{InsecureSkipVerify: true, RetryMax: 2}
}

func TestFetchHealth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(healthBody))
		},
	))
	defer srv.Close()

	report, err := clusterhealth.NewHTTPClient(httpConfig()).
		FetchHealth(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, report.HasSuite("cluster-health"))
	assert.False(t, report.HasSuite("pod-health"))
	assert.Equal(t,
		[]string{"node ip-10-0-1-1 is ready", "node ip-10-0-1-2 is ready"},
		report.Members("cluster-health", "cluster-members", "node"),
	)
	assert.Empty(t, report.Members("cluster-health", "absent", "node"))
	assert.Empty(t, report.Members("absent", "cluster-members", "node"))

	require.NoError(t, report.Verify(
		"cluster-health", "cluster-members",
		clusterhealth.DefaultHealthCheck().Kinds,
	))
	assert.ErrorContains(t,
		report.Verify("cluster-health", "cluster-members", []string{"deployment"}),
		"no deployment checks",
	)
	assert.ErrorContains(t,
		report.Verify("pod-health", "cluster-members", nil),
		"no pod-health in health check results",
	)
}

func TestFetchHealth_bad_json(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		},
	))
	defer srv.Close()

	_, err := clusterhealth.NewHTTPClient(httpConfig()).
		FetchHealth(context.Background(), srv.URL)

	assert.ErrorContains(t, err, "decoding report")
}

func TestProbeOK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing" {
				w.WriteHeader(http.StatusNotFound)

				return
			}
		},
	))
	defer srv.Close()

	client := clusterhealth.NewHTTPClient(httpConfig())

	require.NoError(t, client.ProbeOK(context.Background(), srv.URL))
	assert.ErrorContains(t,
		client.ProbeOK(context.Background(), srv.URL+"/missing"),
		"answered 404",
	)
}

func TestProbeOK_retries_unavailable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)

				return
			}
		},
	))
	defer srv.Close()

	err := clusterhealth.NewHTTPClient(httpConfig()).
		ProbeOK(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProbeOK_TLS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(
		func(http.ResponseWriter, *http.Request) {},
	))
	defer srv.Close()

	err := clusterhealth.NewHTTPClient(httpConfig()).
		ProbeOK(context.Background(), srv.URL)

	assert.NoError(t, err)
}
