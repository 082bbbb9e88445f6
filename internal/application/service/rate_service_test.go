// internal/application/service/rate_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	domainservice "github.com/damon-houk/viable-rate-calculator/internal/domain/service"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/metrics"
	"github.com/damon-houk/viable-rate-calculator/internal/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateService(providers ...*mocks.MockRateProvider) (*RateService, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)

	registered := make([]domainservice.RateProvider, 0, len(providers))
	for _, p := range providers {
		registered = append(registered, p)
	}

	return NewRateService(log, m, registered...), m
}

func TestRateService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Dispatches to the selected provider", func(t *testing.T) {
		public := &mocks.MockRateProvider{Provider: entity.ExchangeRateAPI}
		wise := &mocks.MockRateProvider{Provider: entity.Wise}
		svc, m := newTestRateService(public, wise)

		direct := 28.1
		expected := &entity.RateSet{BaseToSecondary: 5.7, BaseToTertiary: 160, SecondaryToTertiary: &direct}
		wise.On("FetchRates", ctx, "key").Return(expected, nil).Once()

		rates, err := svc.Fetch(ctx, entity.ProviderSelection{Provider: entity.Wise, Credential: "key"})

		require.NoError(t, err)
		assert.Equal(t, expected, rates)
		wise.AssertExpectations(t)
		public.AssertNotCalled(t, "FetchRates")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RateFetchTotal.WithLabelValues("Wise", metrics.OutcomeSuccess)))
	})

	t.Run("Typed failures pass through", func(t *testing.T) {
		wise := &mocks.MockRateProvider{Provider: entity.Wise}
		svc, m := newTestRateService(wise)

		authErr := entity.NewFetchError(entity.KindAuthentication, entity.Wise, "Wise API authentication error (401): Please check your API key.")
		wise.On("FetchRates", ctx, "bad").Return(nil, authErr).Once()

		rates, err := svc.Fetch(ctx, entity.ProviderSelection{Provider: entity.Wise, Credential: "bad"})

		assert.Nil(t, rates)
		assert.Same(t, authErr, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RateFetchTotal.WithLabelValues("Wise", string(entity.KindAuthentication))))
	})

	t.Run("Untyped failures are wrapped naming the provider", func(t *testing.T) {
		public := &mocks.MockRateProvider{Provider: entity.ExchangeRateAPI}
		svc, _ := newTestRateService(public)

		cause := errors.New("boom")
		public.On("FetchRates", ctx, "").Return(nil, cause).Once()

		_, err := svc.Fetch(ctx, entity.ProviderSelection{Provider: entity.ExchangeRateAPI})

		fe, ok := entity.AsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, entity.KindUnexpected, fe.Kind)
		assert.Equal(t, "An unknown error occurred while fetching from ExchangeRate-API.", fe.Message)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Invalid rate set is malformed", func(t *testing.T) {
		public := &mocks.MockRateProvider{Provider: entity.ExchangeRateAPI}
		svc, _ := newTestRateService(public)

		public.On("FetchRates", ctx, "").Return(&entity.RateSet{BaseToSecondary: 5.7}, nil).Once()

		rates, err := svc.Fetch(ctx, entity.ProviderSelection{Provider: entity.ExchangeRateAPI})

		assert.Nil(t, rates)
		assert.True(t, entity.IsKind(err, entity.KindMalformedResponse))
	})

	t.Run("Unknown provider", func(t *testing.T) {
		svc, _ := newTestRateService()

		_, err := svc.Fetch(ctx, entity.ProviderSelection{Provider: "Acme"})

		assert.True(t, entity.IsKind(err, entity.KindProvider))
		assert.Contains(t, err.Error(), "Acme")
	})
}

func TestRateService_Providers(t *testing.T) {
	wise := &mocks.MockRateProvider{Provider: entity.Wise}
	public := &mocks.MockRateProvider{Provider: entity.ExchangeRateAPI}

	svc := NewRateService(nil, nil, wise, public)

	assert.Equal(t, []entity.Provider{entity.ExchangeRateAPI, entity.Wise}, svc.Providers())
}
