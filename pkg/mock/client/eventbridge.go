package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/stretchr/testify/mock"
)

type MockEventBridgeClient struct {
	mock.Mock
}

func (c *MockEventBridgeClient) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*eventbridge.PutEventsOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockEventBridgeClient) DescribeEventBus(ctx context.Context, params *eventbridge.DescribeEventBusInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DescribeEventBusOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*eventbridge.DescribeEventBusOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
