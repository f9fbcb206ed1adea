package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecrpublic"
	"github.com/aws/smithy-go"

	"github.com/beluga-ci/release-tools/config"
)

// imageNotFoundCode is the API error code both ECR flavors
// return for an unknown image tag.
const imageNotFoundCode = "ImageNotFoundException"

// RepoType selects the public or private registry.
type RepoType uint8

const (
	// Public is ECR Public.
	Public RepoType = iota
	// Private is regional ECR.
	Private
)

// String returns the textual form accepted by
// ParseRepoType.
func (r RepoType) String() string {
	if r == Private {
		return "private"
	}

	return "public"
}

// ParseRepoType accepts "public" or "private".
func ParseRepoType(s string) (RepoType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "private":
		return Private, nil
	default:
		return 0, fmt.Errorf(
			"must provide either 'private' or 'public' as repo type, got %q",
			s,
		)
	}
}

// ImageDescriber looks up a single image by tag. It
// returns an error satisfying IsImageNotFound when the tag
// is unknown.
type ImageDescriber interface {
	DescribeImage(
		ctx context.Context,
		repository string,
		tag string,
	) error
}

// IsImageNotFound reports whether err is the registry's
// ImageNotFoundException.
func IsImageNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.ErrorCode() == imageNotFoundCode
}

// New builds the describer for repoType using the default
// AWS credential chain. Public registries always talk to
// cfg.PublicRegion.
func New(
	ctx context.Context,
	repoType RepoType,
	cfg config.RegistryConfig,
) (ImageDescriber, error) {
	if repoType == Private {
		priv, err := NewPrivate(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return priv, nil
	}

	pub, err := NewPublic(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return pub, nil
}

func loadAWSConfig(
	ctx context.Context,
	region string,
) (aws.Config, error) {
	const errCtx = "loading aws config"

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx, awsconfig.WithRegion(region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return awsCfg, nil
}

// NewPublic returns a PublicRegistry client for cfg.
func NewPublic(
	ctx context.Context,
	cfg config.RegistryConfig,
) (*PublicRegistry, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.PublicRegion)
	if err != nil {
		return nil, err
	}

	return NewPublicFromAPI(
		ecrpublic.NewFromConfig(awsCfg), cfg,
	), nil
}

// NewPrivate returns a PrivateRegistry client for cfg.
func NewPrivate(
	ctx context.Context,
	cfg config.RegistryConfig,
) (*PrivateRegistry, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	return NewPrivateFromAPI(ecr.NewFromConfig(awsCfg)), nil
}
