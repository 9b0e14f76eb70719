package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

const Source = "launch"

type EventBridgeClient interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
	DescribeEventBus(ctx context.Context, params *eventbridge.DescribeEventBusInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DescribeEventBusOutput, error)
}

type Client struct {
	EventBridge EventBridgeClient
}

type Service struct {
	Client Client
}

func FromClients(eventBridge EventBridgeClient) Service {
	return Service{
		Client: Client{
			EventBridge: eventBridge,
		},
	}
}

// Arn returns the bus arn, failing when the bus does not exist.
func (s Service) Arn(ctx context.Context, busName string) (string, error) {
	output, err := s.Client.EventBridge.DescribeEventBus(ctx, &eventbridge.DescribeEventBusInput{
		Name: aws.String(busName),
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(output.Arn), nil
}

// Publish puts one event whose detail is the JSON encoding of detail.
func (s Service) Publish(ctx context.Context, busName, detailType string, resources []string, detail any) (string, error) {
	encoded, err := json.Marshal(detail)
	if err != nil {
		return "", err
	}

	output, err := s.Client.EventBridge.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(busName),
				Source:       aws.String(Source),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(encoded)),
				Resources:    resources,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if output.FailedEntryCount > 0 && len(output.Entries) > 0 {
		entry := output.Entries[0]
		return "", fmt.Errorf("publishing %s to %s: %s %s", detailType, busName, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
	}

	if len(output.Entries) == 0 {
		return "", nil
	}

	return aws.ToString(output.Entries[0].EventId), nil
}
