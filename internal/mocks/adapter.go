package mocks

import (
	"context"

	"github.com/brettbedarf/filetree"
	"github.com/stretchr/testify/mock"
)

// MockContentProvider implements filetree.ContentProvider for testing across packages
type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) Content(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(context.Context) []byte); ok {
		return fn(ctx), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ filetree.ContentProvider = (*MockContentProvider)(nil)

// MockProviderFactory implements adapters.ProviderFactory for testing across packages
type MockProviderFactory struct {
	mock.Mock
}

func (m *MockProviderFactory) NewProvider(raw []byte) (filetree.ContentProvider, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(filetree.ContentProvider), args.Error(1)
}
