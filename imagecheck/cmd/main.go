// Package main provides the checkimage CLI that exits 0
// when an image tag does not exist yet in a repository and
// 1 otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/beluga-ci/release-tools/config"
	"github.com/beluga-ci/release-tools/imagecheck"
	"github.com/beluga-ci/release-tools/registry"
)

type options struct {
	Config string `short:"c" long:"config" env:"RELEASE_TOOLS_CONFIG" description:"Path to the YAML config file"`

	Args struct {
		RepoType   string `positional-arg-name:"REPO_TYPE" description:"public or private"`
		Repository string `positional-arg-name:"REPO_TO_CHECK" description:"Repository name, not the full URI"`
		Tag        string `positional-arg-name:"TAG_TO_CHECK" description:"Image tag to check"`
	} `positional-args:"yes" required:"yes"`
}

func run() error {
	const errCtx = "checkimage"

	var opt options

	parser := flags.NewParser(&opt, flags.Default)
	parser.LongDescription = "Fails when the image tag already exists in the repository."

	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	repoType, err := registry.ParseRepoType(opt.Args.RepoType)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	cfg, err := config.Load(opt.Config)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx := context.Background()

	describer, err := registry.New(ctx, repoType, cfg.Registry)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := imagecheck.EnsureTagAbsent(
		ctx, describer, opt.Args.Repository, opt.Args.Tag,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		slog.Info("exiting", "code", 1)
		os.Exit(1)
	}

	slog.Info("exiting", "code", 0)
}
