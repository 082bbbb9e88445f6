// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	domainservice "github.com/damon-houk/viable-rate-calculator/internal/domain/service"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/metrics"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/middleware"
)

// RateFetcher resolves a provider selection into a complete rate set
type RateFetcher interface {
	Fetch(ctx context.Context, selection entity.ProviderSelection) (*entity.RateSet, error)
}

// RateService dispatches fetches to the provider named by the selection
type RateService struct {
	providers map[entity.Provider]domainservice.RateProvider
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewRateService creates a rate service over the given providers
func NewRateService(log logger.Logger, m *metrics.Metrics, providers ...domainservice.RateProvider) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	registry := make(map[entity.Provider]domainservice.RateProvider, len(providers))
	for _, p := range providers {
		registry[p.Name()] = p
	}

	return &RateService{
		providers: registry,
		metrics:   m,
		logger:    log,
	}
}

// Providers returns the registered provider names in display order
func (s *RateService) Providers() []entity.Provider {
	var out []entity.Provider
	for _, p := range entity.Providers() {
		if _, ok := s.providers[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Fetch performs a single fetch attempt. Every failure is a *entity.FetchError.
func (s *RateService) Fetch(ctx context.Context, selection entity.ProviderSelection) (*entity.RateSet, error) {
	requestID := middleware.GetRequestID(ctx)

	provider, ok := s.providers[selection.Provider]
	if !ok {
		return nil, entity.NewFetchError(entity.KindProvider, selection.Provider,
			fmt.Sprintf("Unsupported rate provider: %s", selection.Provider))
	}

	s.logger.Info("Fetching exchange rates", map[string]interface{}{
		"request_id":     requestID,
		"provider":       selection.Provider,
		"has_credential": selection.Credential != "",
	})

	start := time.Now()
	rates, err := provider.FetchRates(ctx, selection.Credential)
	if err == nil {
		if rates == nil {
			err = entity.NewFetchError(entity.KindMalformedResponse, selection.Provider,
				fmt.Sprintf("No rates received from %s.", selection.Provider))
		} else if verr := rates.Validate(); verr != nil {
			err = &entity.FetchError{
				Kind:     entity.KindMalformedResponse,
				Provider: selection.Provider,
				Message:  fmt.Sprintf("Invalid rates received from %s.", selection.Provider),
				Err:      verr,
			}
		}
	}

	if err != nil {
		fe, ok := entity.AsFetchError(err)
		if !ok {
			fe = entity.UnexpectedError(selection.Provider, err)
		}

		s.metrics.ObserveFetch(string(selection.Provider), string(fe.Kind), time.Since(start))
		fields := map[string]interface{}{
			"request_id": requestID,
			"provider":   selection.Provider,
			"kind":       fe.Kind,
			"pair":       fe.Pair,
			"error":      fe.Error(),
		}
		if fe.Kind == entity.KindMissingCredential {
			s.logger.Info("Rate fetch waiting for credential", fields)
		} else {
			s.logger.Error("Failed to fetch exchange rates", fields)
		}
		return nil, fe
	}

	s.metrics.ObserveFetch(string(selection.Provider), metrics.OutcomeSuccess, time.Since(start))
	s.logger.Info("Fetched exchange rates", map[string]interface{}{
		"request_id":  requestID,
		"provider":    selection.Provider,
		"gbp_to_myr":  rates.BaseToSecondary,
		"gbp_to_bdt":  rates.BaseToTertiary,
		"direct_rate": rates.SecondaryToTertiary != nil,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return rates, nil
}
