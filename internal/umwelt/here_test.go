package umwelt

import (
	"context"
	"testing"

	clientmock "github.com/linecard/launch/pkg/mock/client"

	"github.com/linecard/launch/internal/gitlib"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func defaultSetup(ctx context.Context, mockSTS *clientmock.MockSTSClient, mockECR *clientmock.MockECRClient, mockApiGateway *clientmock.MockApiGatewayClient) {
	mockSTS.On("GetCallerIdentity", ctx, mock.Anything).Return(&sts.GetCallerIdentityOutput{
		UserId:  aws.String("user-123"),
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/test"),
	}, nil)

	mockECR.On("DescribeRegistry", ctx, mock.Anything).Return(&ecr.DescribeRegistryOutput{
		RegistryId: aws.String("123456789013"),
	}, nil)

	mockApiGateway.On("GetApis", ctx, mock.Anything).Return(&apigatewayv2.GetApisOutput{
		Items: []types.Api{
			{ApiId: aws.String("ApiGatewayIdFromEnv"), Tags: map[string]string{DiscoveryTag: "true"}},
		},
	}, nil)
}

func TestFromCwd(t *testing.T) {
	ctx := context.Background()
	awsConfig := aws.Config{Region: "us-west-2"}
	git := gitlib.DotGit{Branch: "main", Sha: "8f4e1b2c3d4e5f60718293a4b5c6d7e8f9012345", Root: "/src/remix"}

	cases := []struct {
		name     string
		settings Settings
		test     func(*testing.T, Here, error)
	}{
		{
			name:     "defaults discovered from account",
			settings: Settings{Environment: "development"},
			test: func(t *testing.T, here Here, err error) {
				require.NoError(t, err)
				assert.Equal(t, "123456789012", here.Caller.Account)
				assert.Equal(t, "us-west-2", here.Caller.Region)
				assert.Equal(t, "123456789013", here.Registry.Id)
				assert.Equal(t, "us-west-2", here.Registry.Region)
				assert.Empty(t, here.ApiGateway.Id)
				assert.Equal(t, git, here.Git)
				assert.Nil(t, here.Image)
			},
		},
		{
			name:     "settings override discovery",
			settings: Settings{RegistryId: "999999999999", RegistryRegion: "us-east-1", ApiGatewayId: "ApiGatewayIdFromEnv"},
			test: func(t *testing.T, here Here, err error) {
				require.NoError(t, err)
				assert.Equal(t, "999999999999", here.Registry.Id)
				assert.Equal(t, "us-east-1", here.Registry.Region)
				assert.Equal(t, "ApiGatewayIdFromEnv", here.ApiGateway.Id)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msts := &clientmock.MockSTSClient{}
			mecr := &clientmock.MockECRClient{}
			mgw := &clientmock.MockApiGatewayClient{}
			defaultSetup(ctx, msts, mecr, mgw)

			here, err := FromCwd(ctx, tc.settings, git, awsConfig, mecr, msts, mgw)
			tc.test(t, here, err)
		})
	}
}

func TestFromEvent(t *testing.T) {
	ctx := context.Background()
	awsConfig := aws.Config{Region: "us-west-2"}

	cases := []struct {
		name string
		tag  string
		test func(*testing.T, Here)
	}{
		{
			name: "branch tag",
			tag:  "main",
			test: func(t *testing.T, here Here) {
				assert.Equal(t, "main", here.Git.Branch)
				assert.Empty(t, here.Git.Sha)
			},
		},
		{
			name: "sha tag",
			tag:  "8f4e1b2c3d4e5f60718293a4b5c6d7e8f9012345",
			test: func(t *testing.T, here Here) {
				assert.Empty(t, here.Git.Branch)
				assert.Equal(t, "8f4e1b2c3d4e5f60718293a4b5c6d7e8f9012345", here.Git.Sha)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msts := &clientmock.MockSTSClient{}
			mecr := &clientmock.MockECRClient{}
			mgw := &clientmock.MockApiGatewayClient{}
			defaultSetup(ctx, msts, mecr, mgw)

			event := events.ECRImageActionEvent{}
			event.Detail.ActionType = "PUSH"
			event.Detail.RepositoryName = "remix/web"
			event.Detail.ImageTag = tc.tag
			event.Detail.ImageDigest = "sha256:feed"

			here, err := FromEvent(ctx, Settings{Environment: "production"}, event, awsConfig, mecr, msts)
			require.NoError(t, err)
			require.NotNil(t, here.Image)
			assert.Equal(t, "remix", here.Image.Project())
			assert.Equal(t, "web", here.Image.Service())
			assert.Equal(t, "sha256:feed", here.Image.Digest)
			assert.Equal(t, "production", here.Settings.Environment)
			tc.test(t, here)
		})
	}
}
