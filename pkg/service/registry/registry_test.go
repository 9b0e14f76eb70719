package registry

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	clientmock "github.com/linecard/launch/pkg/mock/client"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	registryId = "123456789012"
	repoName   = "remix/web"
	repoArn    = "arn:aws:ecr:us-west-2:123456789012:repository/remix/web"
)

func describedRepository() *ecr.DescribeRepositoriesOutput {
	return &ecr.DescribeRepositoriesOutput{
		Repositories: []types.Repository{{
			RepositoryArn:  aws.String(repoArn),
			RepositoryName: aws.String(repoName),
			RepositoryUri:  aws.String("123456789012.dkr.ecr.us-west-2.amazonaws.com/remix/web"),
		}},
	}
}

func TestPutRepository(t *testing.T) {
	ctx := context.Background()
	tags := map[string]string{"launch:service": "web"}

	tests := []struct {
		name  string
		setup func(*clientmock.MockECRClient)
		test  func(*testing.T, *clientmock.MockECRClient, *Repository, error)
	}{
		{
			name: "creates missing repository",
			setup: func(m *clientmock.MockECRClient) {
				m.On("DescribeRepositories", ctx, mock.Anything).Return(nil, &types.RepositoryNotFoundException{Message: aws.String("missing")}).Once()
				m.On("CreateRepository", ctx, mock.MatchedBy(func(in *ecr.CreateRepositoryInput) bool {
					return aws.ToString(in.RepositoryName) == repoName && len(in.Tags) == 1
				})).Return(&ecr.CreateRepositoryOutput{}, nil)
				m.On("DescribeRepositories", ctx, mock.Anything).Return(describedRepository(), nil).Once()
				m.On("ListTagsForResource", ctx, mock.Anything).Return(&ecr.ListTagsForResourceOutput{
					Tags: []types.Tag{{Key: aws.String("launch:service"), Value: aws.String("web")}},
				}, nil)
			},
			test: func(t *testing.T, m *clientmock.MockECRClient, repo *Repository, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				assert.Equal(t, repoArn, aws.ToString(repo.RepositoryArn))
				assert.Equal(t, "web", repo.Tags["launch:service"])
				m.AssertNotCalled(t, "TagResource", mock.Anything, mock.Anything)
			},
		},
		{
			name: "retags existing repository",
			setup: func(m *clientmock.MockECRClient) {
				m.On("DescribeRepositories", ctx, mock.Anything).Return(describedRepository(), nil)
				m.On("ListTagsForResource", ctx, mock.Anything).Return(&ecr.ListTagsForResourceOutput{}, nil)
				m.On("TagResource", ctx, mock.MatchedBy(func(in *ecr.TagResourceInput) bool {
					return aws.ToString(in.ResourceArn) == repoArn
				})).Return(&ecr.TagResourceOutput{}, nil)
			},
			test: func(t *testing.T, m *clientmock.MockECRClient, repo *Repository, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				m.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything)
				m.AssertCalled(t, "TagResource", ctx, mock.Anything)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &clientmock.MockECRClient{}
			tc.setup(m)

			repo, err := FromClients(m).PutRepository(ctx, registryId, repoName, tags)
			tc.test(t, m, repo, err)
		})
	}
}

func TestInspectRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	m := &clientmock.MockECRClient{}
	m.On("DescribeRepositories", ctx, mock.Anything).Return(nil, &types.RepositoryNotFoundException{})

	repo, err := FromClients(m).InspectRepository(ctx, registryId, repoName)
	assert.NoError(t, err)
	assert.Nil(t, repo)
}

func TestDeleteRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	m := &clientmock.MockECRClient{}
	m.On("DeleteRepository", ctx, mock.Anything).Return(nil, &types.RepositoryNotFoundException{})

	assert.NoError(t, FromClients(m).DeleteRepository(ctx, registryId, repoName))
}

func TestToken(t *testing.T) {
	ctx := context.Background()
	m := &clientmock.MockECRClient{}
	m.On("GetAuthorizationToken", ctx, mock.Anything).Return(&ecr.GetAuthorizationTokenOutput{
		AuthorizationData: []types.AuthorizationData{{
			AuthorizationToken: aws.String(base64.StdEncoding.EncodeToString([]byte("AWS:s3cr3t:with:colons"))),
		}},
	}, nil)

	token, err := FromClients(m).Token(ctx, registryId)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t:with:colons", token)
}

func TestInspect(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"architecture":"amd64","config":{"Labels":{"launch.sha":"8f4e1b2"}}}`))
	}))
	defer server.Close()

	m := &clientmock.MockECRClient{}
	m.On("BatchGetImage", ctx, mock.MatchedBy(func(in *ecr.BatchGetImageInput) bool {
		return aws.ToString(in.ImageIds[0].ImageTag) == "main"
	})).Return(&ecr.BatchGetImageOutput{
		Images: []types.Image{{
			ImageId:       &types.ImageIdentifier{ImageDigest: aws.String("sha256:feed"), ImageTag: aws.String("main")},
			ImageManifest: aws.String(`{"schemaVersion":2,"config":{"digest":"sha256:c0nf"}}`),
		}},
	}, nil)
	m.On("GetDownloadUrlForLayer", ctx, mock.MatchedBy(func(in *ecr.GetDownloadUrlForLayerInput) bool {
		return aws.ToString(in.LayerDigest) == "sha256:c0nf"
	})).Return(&ecr.GetDownloadUrlForLayerOutput{DownloadUrl: aws.String(server.URL)}, nil)

	svc := FromClients(m)

	inspect, err := svc.Inspect(ctx, registryId, repoName, ByTag("main"))
	require.NoError(t, err)
	assert.Equal(t, "sha256:feed", inspect.ID)
	assert.Equal(t, "8f4e1b2", inspect.Config.Labels["launch.sha"])

	digest, err := svc.Digest(ctx, registryId, repoName, ByTag("main"))
	require.NoError(t, err)
	assert.Equal(t, "sha256:feed", digest)
}

func TestByDigest(t *testing.T) {
	assert.Equal(t, "sha256:feed", aws.ToString(ByDigest("feed").ImageDigest))
	assert.Equal(t, "sha256:feed", aws.ToString(ByDigest("sha256:feed").ImageDigest))
}
