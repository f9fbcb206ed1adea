package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecrpublic"
	"github.com/aws/aws-sdk-go-v2/service/ecrpublic/types"

	"github.com/beluga-ci/release-tools/config"
	"github.com/beluga-ci/release-tools/tagresolver"
)

// PublicAPI is the subset of the ECR Public client used
// here.
type PublicAPI interface {
	DescribeImageTags(
		ctx context.Context,
		params *ecrpublic.DescribeImageTagsInput,
		optFns ...func(*ecrpublic.Options),
	) (*ecrpublic.DescribeImageTagsOutput, error)
	DescribeImages(
		ctx context.Context,
		params *ecrpublic.DescribeImagesInput,
		optFns ...func(*ecrpublic.Options),
	) (*ecrpublic.DescribeImagesOutput, error)
}

// PublicRegistry lists and describes images in ECR Public.
type PublicRegistry struct {
	api        PublicAPI
	accountID  string
	maxResults int32
}

// NewPublicFromAPI wraps an existing ECR Public client.
func NewPublicFromAPI(
	api PublicAPI,
	cfg config.RegistryConfig,
) *PublicRegistry {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = config.DefaultMaxResults
	}

	return &PublicRegistry{
		api:        api,
		accountID:  cfg.AccountID,
		maxResults: maxResults,
	}
}

// ListTags returns the tag details of repository in
// registry order. Only the first page of at most maxResults
// entries is read; repositories with more tags are not
// fully listed.
func (p *PublicRegistry) ListTags(
	ctx context.Context,
	repository string,
) ([]tagresolver.TagRecord, error) {
	in := &ecrpublic.DescribeImageTagsInput{
		RepositoryName: aws.String(repository),
		MaxResults:     aws.Int32(p.maxResults),
	}
	if p.accountID != "" {
		in.RegistryId = aws.String(p.accountID)
	}

	out, err := p.api.DescribeImageTags(ctx, in)
	if err != nil {
		return nil, err
	}

	recs := make([]tagresolver.TagRecord, 0, len(out.ImageTagDetails))
	for _, d := range out.ImageTagDetails {
		recs = append(recs, tagresolver.TagRecord{Tag: d.ImageTag})
	}

	return recs, nil
}

// DescribeImage implements ImageDescriber.
func (p *PublicRegistry) DescribeImage(
	ctx context.Context,
	repository string,
	tag string,
) error {
	const errCtx = "describing public image"

	in := &ecrpublic.DescribeImagesInput{
		RepositoryName: aws.String(repository),
		ImageIds: []types.ImageIdentifier{
			{ImageTag: aws.String(tag)},
		},
	}
	if p.accountID != "" {
		in.RegistryId = aws.String(p.accountID)
	}

	if _, err := p.api.DescribeImages(ctx, in); err != nil {
		return fmt.Errorf(
			"%s %s:%s: %w", errCtx, repository, tag, err,
		)
	}

	return nil
}
