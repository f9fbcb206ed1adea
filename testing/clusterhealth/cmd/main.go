// Package main provides the clusterhealth CLI used by the
// integration stage to check a freshly deployed cluster.
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
	"github.com/beluga-ci/release-tools/testing/clusterhealth"
	"github.com/beluga-ci/release-tools/testing/kubeclient"
)

type globalOptions struct {
	Kubeconfig string        `long:"kubeconfig" env:"KUBECONFIG" description:"Path to the kubeconfig file"`
	Config     string        `short:"c" long:"config" env:"RELEASE_TOOLS_CONFIG" description:"Path to the YAML config file"`
	Timeout    time.Duration `long:"timeout" default:"60s" description:"Bound on waiting for job pods"`
}

var global globalOptions

type healthCommand struct {
	CronJob string `long:"cronjob" description:"Cron job that runs the checks (default healthcheck-cluster-health)"`
	Ingress string `long:"ingress" description:"Substring of the health endpoint host (default healthcheck)"`
	Group   string `long:"group" description:"Test group of the cluster-health suite holding the checks (default cluster-members)"`
}

// check overlays the flags given on the default health
// check.
func (c *healthCommand) check() clusterhealth.HealthCheck {
	hc := clusterhealth.DefaultHealthCheck()

	if c.CronJob != "" {
		hc.CronJob = c.CronJob
	}

	if c.Ingress != "" {
		hc.Ingress = c.Ingress
	}

	if c.Group != "" {
		hc.Group = c.Group
	}

	return hc
}

type routeCommand struct {
	Ingress string `long:"ingress" required:"yes" description:"Substring of the route host"`
	Path    string `long:"path" description:"Path appended to the route"`
}

type podCommand struct {
	Prefix    string `long:"prefix" required:"yes" description:"Pod name prefix"`
	Container string `long:"container" description:"Container name prefix, defaults to the pod prefix"`
	Completed bool   `long:"completed" description:"Require the container to have terminated as Completed"`
}

func setup() (*clusterhealth.Checker, *config.Config, error) {
	cfg, err := config.Load(global.Config)
	if err != nil {
		return nil, nil, err
	}

	client, err := kubeclient.New(global.Kubeconfig)
	if err != nil {
		return nil, nil, err
	}

	return clusterhealth.NewChecker(client), cfg, nil
}

func (c *healthCommand) Execute([]string) error {
	checker, cfg, err := setup()
	if err != nil {
		return fmt.Errorf("checking cluster health: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), global.Timeout)
	defer cancel()

	return checker.RunHealthCheck(
		ctx, clusterhealth.NewHTTPClient(cfg.HTTP), c.check(),
	)
}

func (c *routeCommand) Execute([]string) error {
	const errCtx = "checking route"

	checker, cfg, err := setup()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), global.Timeout)
	defer cancel()

	host, err := checker.IngressHost(ctx, c.Ingress)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	url := host + c.Path
	if err := clusterhealth.NewHTTPClient(cfg.HTTP).
		ProbeOK(ctx, url); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("route is up", "url", url)

	return nil
}

func (c *podCommand) Execute([]string) error {
	const errCtx = "checking pod"

	checker, _, err := setup()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), global.Timeout)
	defer cancel()

	ok, err := checker.PodExists(ctx, c.Prefix)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if !ok {
		return fmt.Errorf(
			"%s: %q: %w", errCtx, c.Prefix, clusterhealth.ErrPodNotFound,
		)
	}

	if !c.Completed {
		slog.Info("pod exists", "prefix", c.Prefix)

		return nil
	}

	container := c.Container
	if container == "" {
		container = c.Prefix
	}

	reason, err := checker.ContainerTerminationReason(ctx, c.Prefix, container)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if reason != "Completed" {
		return fmt.Errorf(
			"%s: container %s terminated with %q, want Completed",
			errCtx, container, reason,
		)
	}

	slog.Info("pod completed", "prefix", c.Prefix)

	return nil
}

func run() error {
	parser := flags.NewParser(&global, flags.Default)

	commands := []struct {
		name  string
		short string
		cmd   interface{}
	}{
		{"health", "Run the health cron job and check its report", &healthCommand{}},
		{"route", "Require an ingress route to answer 200", &routeCommand{}},
		{"pod", "Require a pod to exist, optionally completed", &podCommand{}},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, "", c.cmd); err != nil {
			return fmt.Errorf("registering %s: %w", c.name, err)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		return err
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
