package mock

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Publish(ctx context.Context, busName, detailType string, resources []string, detail any) (string, error) {
	args := m.Called(ctx, busName, detailType, resources, detail)
	return args.String(0), args.Error(1)
}
