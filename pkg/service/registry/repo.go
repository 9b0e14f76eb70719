package registry

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
)

// Repository is an ECR repository together with its tags.
type Repository struct {
	types.Repository
	Tags map[string]string
}

func ecrTags(tags map[string]string) []types.Tag {
	var out []types.Tag
	for key, value := range tags {
		out = append(out, types.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return out
}

// InspectRepository returns nil without error when the repository does not exist.
func (s Service) InspectRepository(ctx context.Context, registryId, name string) (*Repository, error) {
	var apiErr smithy.APIError

	described, err := s.Client.Ecr.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RegistryId:      aws.String(registryId),
		RepositoryNames: []string{name},
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "RepositoryNotFoundException" {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if len(described.Repositories) == 0 {
		return nil, nil
	}

	repo := &Repository{Repository: described.Repositories[0], Tags: map[string]string{}}

	listed, err := s.Client.Ecr.ListTagsForResource(ctx, &ecr.ListTagsForResourceInput{
		ResourceArn: repo.RepositoryArn,
	})
	if err != nil {
		return nil, err
	}

	for _, tag := range listed.Tags {
		repo.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}

	return repo, nil
}

// PutRepository creates the repository, or retags it when it already exists.
func (s Service) PutRepository(ctx context.Context, registryId, name string, tags map[string]string) (*Repository, error) {
	existing, err := s.InspectRepository(ctx, registryId, name)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		_, err = s.Client.Ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
			RegistryId:     aws.String(registryId),
			RepositoryName: aws.String(name),
			Tags:           ecrTags(tags),
			ImageScanningConfiguration: &types.ImageScanningConfiguration{
				ScanOnPush: true,
			},
		})

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "RepositoryAlreadyExistsException" {
			err = nil
		}

		if err != nil {
			return nil, err
		}
	} else {
		_, err = s.Client.Ecr.TagResource(ctx, &ecr.TagResourceInput{
			ResourceArn: existing.RepositoryArn,
			Tags:        ecrTags(tags),
		})

		if err != nil {
			return nil, err
		}
	}

	return s.InspectRepository(ctx, registryId, name)
}

// DeleteRepository removes the repository and every image in it. Missing repositories are not an error.
func (s Service) DeleteRepository(ctx context.Context, registryId, name string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Ecr.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RegistryId:     aws.String(registryId),
		RepositoryName: aws.String(name),
		Force:          true,
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "RepositoryNotFoundException" {
		return nil
	}

	return err
}
