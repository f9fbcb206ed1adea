package logdelivery

import (
	"github.com/valyala/fasttemplate"

	"github.com/beluga-ci/release-tools/config"
)

// Target identifies the container whose logs are checked.
type Target struct {
	Cluster   string
	Pod       string
	Namespace string
	Container string
}

// DefaultTarget is the logging cluster's hot Elasticsearch
// node, which always runs and logs steadily.
func DefaultTarget(cluster string) Target {
	return Target{
		Cluster:   cluster,
		Pod:       "es-cluster-hot-0",
		Namespace: "elastic-stack-logging",
		Container: "elasticsearch",
	}
}

func (t Target) vars() map[string]interface{} {
	return map[string]interface{}{
		"cluster":   t.Cluster,
		"pod":       t.Pod,
		"namespace": t.Namespace,
		"container": t.Container,
	}
}

// Naming renders log group and stream names from
// single-brace {var} templates. Known variables are
// cluster, pod, namespace and container; unknown ones are
// preserved as-is.
type Naming struct {
	GroupTemplate  string
	StreamTemplate string
}

// NamingFrom returns the Naming configured in cfg.
func NamingFrom(cfg config.LogsConfig) Naming {
	return Naming{
		GroupTemplate:  cfg.GroupTemplate,
		StreamTemplate: cfg.StreamTemplate,
	}
}

// Group returns the log group of t.
func (n Naming) Group(t Target) string {
	return fasttemplate.ExecuteStringStd(
		n.GroupTemplate, "{", "}", t.vars(),
	)
}

// Stream returns the log stream of t.
func (n Naming) Stream(t Target) string {
	return fasttemplate.ExecuteStringStd(
		n.StreamTemplate, "{", "}", t.vars(),
	)
}
