package registry

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// List returns every image in the repository, following pagination.
func (s Service) List(ctx context.Context, registryId, repository string) ([]types.ImageDetail, error) {
	var images []types.ImageDetail

	paginator := ecr.NewDescribeImagesPaginator(s.Client.Ecr, &ecr.DescribeImagesInput{
		RegistryId:     aws.String(registryId),
		RepositoryName: aws.String(repository),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		images = append(images, page.ImageDetails...)
	}

	return images, nil
}

func (s Service) Delete(ctx context.Context, registryId, repository string, imageDigests []string) error {
	if len(imageDigests) == 0 {
		return nil
	}

	input := ecr.BatchDeleteImageInput{
		RegistryId:     aws.String(registryId),
		RepositoryName: aws.String(repository),
	}

	for _, digest := range imageDigests {
		input.ImageIds = append(input.ImageIds, types.ImageIdentifier{
			ImageDigest: aws.String(digest),
		})
	}

	_, err := s.Client.Ecr.BatchDeleteImage(ctx, &input)
	return err
}

func (s Service) Untag(ctx context.Context, registryId, repository, tag string) error {
	_, err := s.Client.Ecr.BatchDeleteImage(ctx, &ecr.BatchDeleteImageInput{
		RegistryId:     aws.String(registryId),
		RepositoryName: aws.String(repository),
		ImageIds: []types.ImageIdentifier{
			{ImageTag: aws.String(tag)},
		},
	})
	return err
}
