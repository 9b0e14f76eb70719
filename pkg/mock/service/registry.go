package mock

import (
	"context"
	"time"

	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/declare"
	"github.com/linecard/launch/pkg/service/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/mock"
)

type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) InspectRepository(ctx context.Context, registryId, name string) (*registry.Repository, error) {
	args := m.Called(ctx, registryId, name)
	if out, ok := args.Get(0).(*registry.Repository); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistryService) PutRepository(ctx context.Context, registryId, name string, tags map[string]string) (*registry.Repository, error) {
	args := m.Called(ctx, registryId, name, tags)
	if out, ok := args.Get(0).(*registry.Repository); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistryService) DeleteRepository(ctx context.Context, registryId, name string) error {
	args := m.Called(ctx, registryId, name)
	return args.Error(0)
}

func (m *MockRegistryService) Token(ctx context.Context, registryId string) (string, error) {
	args := m.Called(ctx, registryId)
	return args.String(0), args.Error(1)
}

func (m *MockRegistryService) Digest(ctx context.Context, registryId, repository string, id ecrtypes.ImageIdentifier) (string, error) {
	args := m.Called(ctx, registryId, repository, id)
	return args.String(0), args.Error(1)
}

func (m *MockRegistryService) Inspect(ctx context.Context, registryId, repository string, id ecrtypes.ImageIdentifier) (dockertypes.ImageInspect, error) {
	args := m.Called(ctx, registryId, repository, id)
	return args.Get(0).(dockertypes.ImageInspect), args.Error(1)
}

func (m *MockRegistryService) List(ctx context.Context, registryId, repository string) ([]ecrtypes.ImageDetail, error) {
	args := m.Called(ctx, registryId, repository)
	if out, ok := args.Get(0).([]ecrtypes.ImageDetail); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistryService) Delete(ctx context.Context, registryId, repository string, imageDigests []string) error {
	args := m.Called(ctx, registryId, repository, imageDigests)
	return args.Error(0)
}

func (m *MockRegistryService) Untag(ctx context.Context, registryId, repository, tag string) error {
	args := m.Called(ctx, registryId, repository, tag)
	return args.Error(0)
}

// Mock Responses

func MockRepository(c config.Config, service string) *registry.Repository {
	return &registry.Repository{
		Repository: ecrtypes.Repository{
			RegistryId:     aws.String(c.Registry.Id),
			RepositoryName: aws.String(c.RepositoryName(service)),
			RepositoryArn:  aws.String("arn:aws:ecr:" + c.Registry.Region + ":" + c.Registry.Id + ":repository/" + c.RepositoryName(service)),
			RepositoryUri:  aws.String(c.RepositoryUrl(service)),
		},
		Tags: map[string]string{},
	}
}

// MockImageInspect is a release of s as the registry reports it, labels included.
func MockImageInspect(c config.Config, s declare.Service, digest string) dockertypes.ImageInspect {
	labels, err := c.Labels(s)
	if err != nil {
		panic(err)
	}

	return dockertypes.ImageInspect{
		ID: digest,
		RepoTags: []string{
			c.ImageTag(s.Name, c.Git.Branch),
			c.ImageTag(s.Name, c.Git.Sha),
		},
		RepoDigests: []string{
			c.ImageUri(s.Name, digest),
		},
		Created:      time.Now().Format(time.RFC3339Nano),
		Architecture: "amd64",
		Os:           "linux",
		Config: &container.Config{
			Labels: labels,
		},
	}
}

func MockImageDetails(now time.Time) []ecrtypes.ImageDetail {
	return []ecrtypes.ImageDetail{
		{
			ImageDigest: aws.String("sha256:branch"),
			ImageTags: []string{
				"main",
				"1f3509a373489706fdf88d67b115905bffe92e1b",
			},
			ImagePushedAt: aws.Time(now.Add(-90 * 24 * time.Hour)),
		},
		{
			ImageDigest: aws.String("sha256:recent"),
			ImageTags: []string{
				"03a4e4574a80273760663456e0a6bef6945d6abd",
			},
			ImagePushedAt: aws.Time(now.Add(-24 * time.Hour)),
		},
		{
			ImageDigest: aws.String("sha256:stale"),
			ImageTags: []string{
				"9c1f7f2d6a6b5e4d3c2b1a0f9e8d7c6b5a4f3e2d",
			},
			ImagePushedAt: aws.Time(now.Add(-60 * 24 * time.Hour)),
		},
		{
			ImageDigest:   aws.String("sha256:untagged"),
			ImagePushedAt: aws.Time(now.Add(-time.Hour)),
		},
	}
}
