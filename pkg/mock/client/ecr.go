package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/stretchr/testify/mock"
)

type MockECRClient struct {
	mock.Mock
}

func (c *MockECRClient) BatchGetImage(ctx context.Context, params *ecr.BatchGetImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchGetImageOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.BatchGetImageOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) GetDownloadUrlForLayer(ctx context.Context, params *ecr.GetDownloadUrlForLayerInput, optFns ...func(*ecr.Options)) (*ecr.GetDownloadUrlForLayerOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.GetDownloadUrlForLayerOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.DescribeImagesOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.GetAuthorizationTokenOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) BatchDeleteImage(ctx context.Context, params *ecr.BatchDeleteImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.BatchDeleteImageOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.DescribeRepositoriesOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.CreateRepositoryOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) DeleteRepository(ctx context.Context, params *ecr.DeleteRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.DeleteRepositoryOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.DeleteRepositoryOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) ListTagsForResource(ctx context.Context, params *ecr.ListTagsForResourceInput, optFns ...func(*ecr.Options)) (*ecr.ListTagsForResourceOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.ListTagsForResourceOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) TagResource(ctx context.Context, params *ecr.TagResourceInput, optFns ...func(*ecr.Options)) (*ecr.TagResourceOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.TagResourceOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockECRClient) DescribeRegistry(ctx context.Context, params *ecr.DescribeRegistryInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRegistryOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*ecr.DescribeRegistryOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
