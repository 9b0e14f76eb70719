package event

import (
	"context"
	"testing"

	clientmock "github.com/linecard/launch/pkg/mock/client"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		output *eventbridge.PutEventsOutput
		test   func(*testing.T, string, error)
	}{
		{
			name:   "accepted",
			output: &eventbridge.PutEventsOutput{Entries: []types.PutEventsResultEntry{{EventId: aws.String("evt-1")}}},
			test: func(t *testing.T, id string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "evt-1", id)
			},
		},
		{
			name: "rejected",
			output: &eventbridge.PutEventsOutput{
				FailedEntryCount: 1,
				Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("AccessDenied"), ErrorMessage: aws.String("nope")}},
			},
			test: func(t *testing.T, id string, err error) {
				assert.EqualError(t, err, "publishing launch.deploy to platform: AccessDenied nope")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &clientmock.MockEventBridgeClient{}
			m.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
				entry := in.Entries[0]
				return aws.ToString(entry.Source) == Source &&
					aws.ToString(entry.DetailType) == "launch.deploy" &&
					aws.ToString(entry.Detail) == `{"service":"web"}`
			})).Return(tc.output, nil)

			id, err := FromClients(m).Publish(ctx, "platform", "launch.deploy", nil, map[string]string{"service": "web"})
			tc.test(t, id, err)
		})
	}
}
