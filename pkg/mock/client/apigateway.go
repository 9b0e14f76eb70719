package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/stretchr/testify/mock"
)

type MockApiGatewayClient struct {
	mock.Mock
}

func (c *MockApiGatewayClient) GetApis(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.GetApisOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) GetApi(ctx context.Context, params *apigatewayv2.GetApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.GetApiOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) CreateIntegration(ctx context.Context, params *apigatewayv2.CreateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateIntegrationOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.CreateIntegrationOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) DeleteIntegration(ctx context.Context, params *apigatewayv2.DeleteIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.DeleteIntegrationOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.DeleteIntegrationOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) GetIntegrations(ctx context.Context, params *apigatewayv2.GetIntegrationsInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetIntegrationsOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.GetIntegrationsOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) UpdateIntegration(ctx context.Context, params *apigatewayv2.UpdateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateIntegrationOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.UpdateIntegrationOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) CreateRoute(ctx context.Context, params *apigatewayv2.CreateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateRouteOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.CreateRouteOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) GetRoutes(ctx context.Context, params *apigatewayv2.GetRoutesInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetRoutesOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.GetRoutesOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) DeleteRoute(ctx context.Context, params *apigatewayv2.DeleteRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.DeleteRouteOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.DeleteRouteOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockApiGatewayClient) UpdateRoute(ctx context.Context, params *apigatewayv2.UpdateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateRouteOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*apigatewayv2.UpdateRouteOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
