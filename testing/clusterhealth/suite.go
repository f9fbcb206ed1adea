package clusterhealth

import (
	"context"
	"fmt"
	"log/slog"
)

// Names used by the cluster health cron job and the
// aggregated health endpoint it feeds.
const (
	HealthCronJob       = "healthcheck-cluster-health"
	HealthIngress       = "healthcheck"
	ClusterHealthSuite  = "cluster-health"
	ClusterMembersGroup = "cluster-members"
)

// HealthCheck describes one run of the cluster health
// suite.
type HealthCheck struct {
	// CronJob produces the results.
	CronJob string
	// Ingress is a substring of the endpoint host. The
	// report is served at the root of that host.
	Ingress string
	Suite   string
	Group   string
	// Kinds each need at least one check in Group.
	Kinds []string
}

// DefaultHealthCheck checks that namespaces, nodes and
// stateful sets are covered by the cluster-members group.
func DefaultHealthCheck() HealthCheck {
	return HealthCheck{
		CronJob: HealthCronJob,
		Ingress: HealthIngress,
		Suite:   ClusterHealthSuite,
		Group:   ClusterMembersGroup,
		Kinds:   []string{"namespace", "node", "statefulset"},
	}
}

// RunHealthCheck starts the health cron job, waits for its
// pod, then fetches the report from the health ingress and
// verifies it against hc.
func (c *Checker) RunHealthCheck(
	ctx context.Context,
	client *HTTPClient,
	hc HealthCheck,
) error {
	const errCtx = "checking cluster health"

	ok, err := c.CronJobExists(ctx, hc.CronJob)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if !ok {
		return fmt.Errorf(
			"%s: %q: %w", errCtx, hc.CronJob, ErrCronJobNotFound,
		)
	}

	if _, err := c.RunCronJob(ctx, hc.CronJob, true); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	url, err := c.IngressHost(ctx, hc.Ingress)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	report, err := client.FetchHealth(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := report.Verify(hc.Suite, hc.Group, hc.Kinds); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"cluster is healthy",
		"suite", hc.Suite,
		"group", hc.Group,
	)

	return nil
}
