// Package main provides the logdelivery CLI that checks a
// container's logs reach CloudWatch Logs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/beluga-ci/release-tools/config"
	"github.com/beluga-ci/release-tools/testing/kubeclient"
	"github.com/beluga-ci/release-tools/testing/logdelivery"
)

type options struct {
	Config     string        `short:"c" long:"config" env:"RELEASE_TOOLS_CONFIG" description:"Path to the YAML config file"`
	Kubeconfig string        `long:"kubeconfig" env:"KUBECONFIG" description:"Path to the kubeconfig file"`
	Pod        string        `long:"pod" description:"Pod whose logs are checked (default es-cluster-hot-0)"`
	Namespace  string        `long:"namespace" description:"Namespace of the pod (default elastic-stack-logging)"`
	Container  string        `long:"container" description:"Container of the pod (default elasticsearch)"`
	Timeout    time.Duration `long:"timeout" default:"60s" description:"Bound on the whole check"`
}

// target overlays the flags given on the default target
// of cluster.
func (o options) target(cluster string) logdelivery.Target {
	t := logdelivery.DefaultTarget(cluster)

	if o.Pod != "" {
		t.Pod = o.Pod
	}

	if o.Namespace != "" {
		t.Namespace = o.Namespace
	}

	if o.Container != "" {
		t.Container = o.Container
	}

	return t
}

func run() error {
	const errCtx = "logdelivery"

	var opt options

	if _, err := flags.Parse(&opt); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	cfg, err := config.Load(opt.Config)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if cfg.Logs.Cluster == "" {
		return fmt.Errorf("%s: TENANT_NAME must be set", errCtx)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opt.Timeout)
	defer cancel()

	cw, err := logdelivery.NewCloudWatchForRegion(ctx, cfg.Logs.Region)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	kube, err := kubeclient.New(opt.Kubeconfig)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	target := opt.target(cfg.Logs.Cluster)

	checker := logdelivery.NewChecker(
		cw, kube, logdelivery.NamingFrom(cfg.Logs), cfg.Logs.Lines,
	)

	if err := checker.Verify(ctx, target); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"logs delivered",
		"pod", target.Pod,
		"namespace", target.Namespace,
	)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
