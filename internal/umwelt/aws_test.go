package umwelt

import (
	"context"
	"testing"

	clientmock "github.com/linecard/launch/pkg/mock/client"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/stretchr/testify/assert"
)

func TestAWSPerception(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(*clientmock.MockECRClient, *clientmock.MockApiGatewayClient)
		test  func(*testing.T, *clientmock.MockECRClient, *clientmock.MockApiGatewayClient)
	}{
		{
			name: "ECR discovery: from account",
			setup: func(mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				mecr.On("DescribeRegistry", ctx, &ecr.DescribeRegistryInput{}).Return(&ecr.DescribeRegistryOutput{
					RegistryId: aws.String("fetched_default_registry_id_from_account"),
				}, nil)
			},
			test: func(t *testing.T, mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				registryID, err := GetRegistryId(ctx, "", mecr)
				assert.NoError(t, err)
				assert.Equal(t, "fetched_default_registry_id_from_account", registryID)
			},
		},
		{
			name:  "ECR discovery: from settings",
			setup: func(mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {},
			test: func(t *testing.T, mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				registryID, err := GetRegistryId(ctx, "env_registry_id", mecr)
				assert.NoError(t, err)
				assert.Equal(t, "env_registry_id", registryID)
				mecr.AssertNotCalled(t, "DescribeRegistry", ctx, &ecr.DescribeRegistryInput{})
			},
		},
		{
			name:  "ECR region: falls back to aws config",
			setup: func(mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {},
			test: func(t *testing.T, mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				assert.Equal(t, "us-west-2", GetRegistryRegion("", aws.Config{Region: "us-west-2"}))
				assert.Equal(t, "us-east-1", GetRegistryRegion("us-east-1", aws.Config{Region: "us-west-2"}))
			},
		},
		{
			name: "API Gateway discovery: two tagged gateways available",
			setup: func(mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				mgw.On("GetApis", ctx, &apigatewayv2.GetApisInput{}).Return(&apigatewayv2.GetApisOutput{
					Items: []types.Api{
						{ApiId: aws.String("CorrectlyConfiguredButWrongId"), Tags: map[string]string{DiscoveryTag: "true"}},
						{ApiId: aws.String("ApiGatewayIdFromEnv"), Tags: map[string]string{DiscoveryTag: "true"}},
					},
				}, nil)
			},
			test: func(t *testing.T, mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				apiID, err := GetApiGatewayId(ctx, "ApiGatewayIdFromEnv", mgw)
				assert.NoError(t, err)
				assert.Equal(t, "ApiGatewayIdFromEnv", apiID)
			},
		},
		{
			name: "API Gateway discovery: gateway not tagged",
			setup: func(mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				mgw.On("GetApis", ctx, &apigatewayv2.GetApisInput{}).Return(&apigatewayv2.GetApisOutput{
					Items: []types.Api{{ApiId: aws.String("ApiGatewayIdFromEnv")}},
				}, nil)
			},
			test: func(t *testing.T, mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				_, err := GetApiGatewayId(ctx, "ApiGatewayIdFromEnv", mgw)
				assert.EqualError(t, err, "no api found with id ApiGatewayIdFromEnv and tagged with LaunchDiscovery")
			},
		},
		{
			name:  "API Gateway discovery: unset",
			setup: func(mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {},
			test: func(t *testing.T, mecr *clientmock.MockECRClient, mgw *clientmock.MockApiGatewayClient) {
				apiID, err := GetApiGatewayId(ctx, "", mgw)
				assert.NoError(t, err)
				assert.Empty(t, apiID)
				mgw.AssertNotCalled(t, "GetApis", ctx, &apigatewayv2.GetApisInput{})
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mecr := &clientmock.MockECRClient{}
			mgw := &clientmock.MockApiGatewayClient{}

			tc.setup(mecr, mgw)
			tc.test(t, mecr, mgw)
		})
	}
}

func TestParseSettings(t *testing.T) {
	t.Setenv("LAUNCH_ENVIRONMENT", "production")
	t.Setenv("AWS_API_GATEWAY_ID", "a1b2c3")

	s, err := ParseSettings()
	assert.NoError(t, err)
	assert.Equal(t, "production", s.Environment)
	assert.Equal(t, "a1b2c3", s.ApiGatewayId)
	assert.Equal(t, "launch.yaml", s.Manifest)
	assert.Equal(t, ".launch/state.db", s.StatePath)
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		dir      string
		expected string
	}{
		{"relative default", ".launch/state.db", "/work/remix", "/work/remix/.launch/state.db"},
		{"lambda runtime", ".launch/state.db", "/tmp", "/tmp/.launch/state.db"},
		{"absolute stays", "/var/lib/launch/state.db", "/work/remix", "/var/lib/launch/state.db"},
		{"unset stays unset", "", "/work/remix", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Settings{StatePath: tc.path}.Anchor(tc.dir)
			assert.Equal(t, tc.expected, s.StatePath)
		})
	}
}
