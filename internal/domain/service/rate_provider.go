package service

import (
	"context"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
)

// RateProvider fetches a complete rate set from a single source
type RateProvider interface {
	// Name identifies the provider
	Name() entity.Provider

	// FetchRates returns a full rate set or a *entity.FetchError
	FetchRates(ctx context.Context, credential string) (*entity.RateSet, error)
}
