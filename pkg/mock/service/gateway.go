package mock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/stretchr/testify/mock"
)

type MockGatewayService struct {
	mock.Mock
}

func (m *MockGatewayService) PutIntegration(ctx context.Context, apiId, functionArn, prefix string) (string, error) {
	args := m.Called(ctx, apiId, functionArn, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockGatewayService) PutRoute(ctx context.Context, apiId, integrationId, routeKey string, auth types.AuthorizationType) (string, error) {
	args := m.Called(ctx, apiId, integrationId, routeKey, auth)
	return args.String(0), args.Error(1)
}

func (m *MockGatewayService) PutLambdaPermission(ctx context.Context, apiId, functionArn, prefix string) error {
	args := m.Called(ctx, apiId, functionArn, prefix)
	return args.Error(0)
}

func (m *MockGatewayService) DeleteLambdaPermission(ctx context.Context, functionArn, prefix string) error {
	args := m.Called(ctx, functionArn, prefix)
	return args.Error(0)
}

func (m *MockGatewayService) DeleteRoute(ctx context.Context, apiId string, route types.Route) error {
	args := m.Called(ctx, apiId, route)
	return args.Error(0)
}

func (m *MockGatewayService) Endpoint(ctx context.Context, apiId string) (string, error) {
	args := m.Called(ctx, apiId)
	return args.String(0), args.Error(1)
}

func (m *MockGatewayService) GetRouteByRouteKey(ctx context.Context, apiId, routeKey string) (*types.Route, error) {
	args := m.Called(ctx, apiId, routeKey)
	if out, ok := args.Get(0).(*types.Route); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
