// Package main provides the latest-image CLI that prints
// the registry tag a pipeline should promote for a source
// tag.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/beluga-ci/release-tools/config"
	"github.com/beluga-ci/release-tools/registry"
	"github.com/beluga-ci/release-tools/sourcetag"
	"github.com/beluga-ci/release-tools/tagresolver"
)

type options struct {
	Config       string `short:"c" long:"config"         env:"RELEASE_TOOLS_CONFIG" description:"Path to the YAML config file"`
	SourceTag    string `short:"t" long:"source-tag"     env:"CI_COMMIT_TAG"        description:"Source tag containing an N.N.N.N version"`
	Repository   string `short:"r" long:"repository"     required:"yes"             description:"Registry repository, e.g. pingcloud-apps/pingaccess"`
	Policy       string `short:"p" long:"policy"         default:"rc"               description:"Tag selection policy" choice:"rc" choice:"simple"`
	VerifySource bool   `long:"verify-source"            description:"Fail when the source tag is missing from the GitLab project"`
}

// sourceTag returns the tag given on the command line or,
// when there is none, the latest tag of the GitLab project.
func sourceTag(
	ctx context.Context,
	opt options,
	cfg config.GitLabConfig,
) (string, error) {
	const errCtx = "source tag"

	if opt.SourceTag != "" && !opt.VerifySource {
		return opt.SourceTag, nil
	}

	if cfg.Project == "" {
		if opt.SourceTag != "" {
			return "", fmt.Errorf(
				"%s: --verify-source needs a gitlab project", errCtx,
			)
		}

		return "", fmt.Errorf(
			"%s: no --source-tag and no gitlab project configured",
			errCtx,
		)
	}

	pv, err := sourcetag.NewProvider(sourcetag.Config{
		BaseURL: cfg.Host,
		Project: cfg.Project,
		Token:   cfg.Token,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if opt.SourceTag == "" {
		return pv.Latest(ctx)
	}

	ok, err := pv.Exists(ctx, opt.SourceTag)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if !ok {
		return "", fmt.Errorf(
			"%s: %q not found in %s",
			errCtx, opt.SourceTag, cfg.Project,
		)
	}

	return opt.SourceTag, nil
}

func run() error {
	const errCtx = "latest-image"

	var opt options

	parser := flags.NewParser(&opt, flags.Default)
	parser.LongDescription = `Prints the latest image tag of a repository for the
release line of the source tag.`

	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	policy, err := tagresolver.ParsePolicy(opt.Policy)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	cfg, err := config.Load(opt.Config)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx := context.Background()

	tag, err := sourceTag(ctx, opt, cfg.GitLab)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	reg, err := registry.NewPublic(ctx, cfg.Registry)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	latest, err := tagresolver.New(reg, policy).
		Resolve(ctx, opt.Repository, tag)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	//nolint:forbidigo // protocol output
	fmt.Println(latest)

	return nil
}

func main() {
	// Logs go to stderr so stdout carries only the tag.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
