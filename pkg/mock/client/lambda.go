package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/mock"
)

type MockLambdaClient struct {
	mock.Mock
}

func (c *MockLambdaClient) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.GetFunctionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.CreateFunctionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.UpdateFunctionConfigurationOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.UpdateFunctionCodeOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) TagResource(ctx context.Context, params *lambda.TagResourceInput, optFns ...func(*lambda.Options)) (*lambda.TagResourceOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.TagResourceOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.DeleteFunctionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) GetFunctionUrlConfig(ctx context.Context, params *lambda.GetFunctionUrlConfigInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionUrlConfigOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.GetFunctionUrlConfigOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) CreateFunctionUrlConfig(ctx context.Context, params *lambda.CreateFunctionUrlConfigInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionUrlConfigOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.CreateFunctionUrlConfigOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) UpdateFunctionUrlConfig(ctx context.Context, params *lambda.UpdateFunctionUrlConfigInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionUrlConfigOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.UpdateFunctionUrlConfigOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) DeleteFunctionUrlConfig(ctx context.Context, params *lambda.DeleteFunctionUrlConfigInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionUrlConfigOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.DeleteFunctionUrlConfigOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.AddPermissionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockLambdaClient) RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*lambda.RemovePermissionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
