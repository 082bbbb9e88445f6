// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
	Provider entity.Provider
}

func (m *MockRateProvider) Name() entity.Provider {
	return m.Provider
}

func (m *MockRateProvider) FetchRates(ctx context.Context, credential string) (*entity.RateSet, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSet), args.Error(1)
}

// MockRateFetcher mocks the RateFetcher interface
type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) Fetch(ctx context.Context, selection entity.ProviderSelection) (*entity.RateSet, error) {
	args := m.Called(ctx, selection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSet), args.Error(1)
}

// MockCredentialRepository mocks the CredentialRepository interface
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Load(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, credential string) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}
