package clusterhealth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/beluga-ci/release-tools/config"
)

// HealthReport is the document served by the aggregated
// health check endpoint.
type HealthReport struct {
	Health map[string]HealthSuite `json:"health"`
}

// HealthSuite holds the results of one suite keyed by test
// group and then by check name.
type HealthSuite struct {
	Tests map[string]map[string]interface{} `json:"tests"`
}

// HasSuite reports whether the report carries results for
// suite.
func (r *HealthReport) HasSuite(suite string) bool {
	_, ok := r.Health[suite]

	return ok
}

// Members returns, sorted, the check names of group in
// suite that contain substring.
func (r *HealthReport) Members(
	suite string,
	group string,
	substring string,
) []string {
	var out []string

	for name := range r.Health[suite].Tests[group] {
		if strings.Contains(name, substring) {
			out = append(out, name)
		}
	}

	slices.Sort(out)

	return out
}

// Verify checks that suite is reported and that group holds
// at least one check per substring.
func (r *HealthReport) Verify(
	suite string,
	group string,
	substrings []string,
) error {
	if !r.HasSuite(suite) {
		return fmt.Errorf("no %s in health check results", suite)
	}

	var errs []error

	for _, sub := range substrings {
		if len(r.Members(suite, group, sub)) == 0 {
			errs = append(errs, fmt.Errorf(
				"no %s checks found in %s results", sub, suite,
			))
		}
	}

	return errors.Join(errs...)
}

// HTTPClient polls cluster endpoints, retrying transient
// failures.
type HTTPClient struct {
	client *retryablehttp.Client
}

// NewHTTPClient builds an HTTPClient from cfg. Cluster
// endpoints in test environments use self-signed
// certificates, so verification follows
// cfg.InsecureSkipVerify.
func NewHTTPClient(cfg config.HTTPConfig) *HTTPClient {
	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // test clusters
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: transport}
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = slog.Default()

	return &HTTPClient{client: rc}
}

func (h *HTTPClient) get(
	ctx context.Context,
	url string,
) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodGet, url, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	return resp, nil
}

// ProbeOK requires url to answer 200 OK.
func (h *HTTPClient) ProbeOK(ctx context.Context, url string) error {
	const errCtx = "probing route"

	resp, err := h.get(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"%s: %s answered %d, want %d",
			errCtx, url, resp.StatusCode, http.StatusOK,
		)
	}

	return nil
}

// FetchHealth reads the health report served at url.
func (h *HTTPClient) FetchHealth(
	ctx context.Context,
	url string,
) (*HealthReport, error) {
	const errCtx = "fetching health"

	resp, err := h.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"%s: %s answered %d", errCtx, url, resp.StatusCode,
		)
	}

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf(
			"%s: decoding report: %w", errCtx, err,
		)
	}

	return &report, nil
}
