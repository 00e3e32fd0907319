package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"intakedocs/internal/schema"
)

// MockConfigProvider is a mock implementation of port.ConfigProvider.
type MockConfigProvider struct {
	mock.Mock
}

func (m *MockConfigProvider) Load(ctx context.Context) (*schema.ExtractionConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.ExtractionConfig), args.Error(1)
}
