package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// PrivateAPI is the subset of the ECR client used here.
type PrivateAPI interface {
	DescribeImages(
		ctx context.Context,
		params *ecr.DescribeImagesInput,
		optFns ...func(*ecr.Options),
	) (*ecr.DescribeImagesOutput, error)
}

// PrivateRegistry describes images in regional ECR.
type PrivateRegistry struct {
	api PrivateAPI
}

// NewPrivateFromAPI wraps an existing ECR client.
func NewPrivateFromAPI(api PrivateAPI) *PrivateRegistry {
	return &PrivateRegistry{api: api}
}

// DescribeImage implements ImageDescriber.
func (p *PrivateRegistry) DescribeImage(
	ctx context.Context,
	repository string,
	tag string,
) error {
	const errCtx = "describing private image"

	_, err := p.api.DescribeImages(ctx, &ecr.DescribeImagesInput{
		RepositoryName: aws.String(repository),
		ImageIds: []types.ImageIdentifier{
			{ImageTag: aws.String(tag)},
		},
	})
	if err != nil {
		return fmt.Errorf(
			"%s %s:%s: %w", errCtx, repository, tag, err,
		)
	}

	return nil
}
