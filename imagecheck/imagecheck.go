package imagecheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beluga-ci/release-tools/registry"
)

// ErrTagExists is returned when the tag is already present
// in the repository.
var ErrTagExists = errors.New("tag already exists")

// EnsureTagAbsent returns nil only when the registry reports
// that tag does not exist in repository.
func EnsureTagAbsent(
	ctx context.Context,
	describer registry.ImageDescriber,
	repository string,
	tag string,
) error {
	const errCtx = "checking image tag"

	err := describer.DescribeImage(ctx, repository, tag)
	switch {
	case err == nil:
		slog.Warn(
			"found tag already exists for this repo",
			"repository", repository,
			"tag", tag,
		)

		return fmt.Errorf(
			"%s %s:%s: %w", errCtx, repository, tag, ErrTagExists,
		)
	case registry.IsImageNotFound(err):
		slog.Info(
			"tag does not exist yet",
			"repository", repository,
			"tag", tag,
		)

		return nil
	default:
		return fmt.Errorf("%s: unexpected error: %w", errCtx, err)
	}
}
