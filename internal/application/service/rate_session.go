// Package service internal/application/service/rate_session.go
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/domain/repository"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/metrics"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/middleware"
)

// Status describes where the session is in its fetch lifecycle
type Status string

// Session statuses
const (
	StatusIdle               Status = "idle"
	StatusLoading            Status = "loading"
	StatusReady              Status = "ready"
	StatusAwaitingCredential Status = "awaiting_credential"
	StatusFailed             Status = "failed"
)

// RateState is an immutable snapshot of the session
type RateState struct {
	Status    Status                `json:"status"`
	Provider  entity.Provider       `json:"provider"`
	Rates     *entity.RateSet       `json:"rates,omitempty"`
	Error     string                `json:"error,omitempty"`
	ErrorKind entity.FetchErrorKind `json:"error_kind,omitempty"`
	Sequence  uint64                `json:"sequence"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// RateSession owns the provider selection, the credential and the outcome of
// the latest fetch. Any selection or credential change triggers a fetch; a
// fetch result is applied only if no newer fetch was started in the meantime.
type RateSession struct {
	fetcher     RateFetcher
	credentials repository.CredentialRepository
	metrics     *metrics.Metrics
	logger      logger.Logger

	// credMu serializes credential writes so the stored and in-memory keys agree
	credMu sync.Mutex

	mu         sync.Mutex
	provider   entity.Provider
	credential string
	seq        uint64
	state      RateState
}

// NewRateSession creates a session for the given provider, restoring the
// persisted credential. No fetch is started until Refresh is called.
func NewRateSession(ctx context.Context, fetcher RateFetcher, credentials repository.CredentialRepository, provider entity.Provider, m *metrics.Metrics, log logger.Logger) (*RateSession, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	credential, err := credentials.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore credential: %w", err)
	}

	return &RateSession{
		fetcher:     fetcher,
		credentials: credentials,
		metrics:     m,
		logger:      log,
		provider:    provider,
		credential:  credential,
		state: RateState{
			Status:    StatusIdle,
			Provider:  provider,
			UpdatedAt: time.Now(),
		},
	}, nil
}

// State returns the current snapshot
func (s *RateSession) State() RateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Provider returns the selected provider
func (s *RateSession) Provider() entity.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// HasCredential reports whether a credential is set
func (s *RateSession) HasCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != ""
}

// SelectProvider switches provider and refetches
func (s *RateSession) SelectProvider(ctx context.Context, provider entity.Provider) RateState {
	s.mu.Lock()
	s.provider = provider
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// SetCredential persists the credential, then refetches
func (s *RateSession) SetCredential(ctx context.Context, credential string) (RateState, error) {
	credential = strings.TrimSpace(credential)

	s.credMu.Lock()
	if err := s.credentials.Save(ctx, credential); err != nil {
		s.credMu.Unlock()
		return s.State(), fmt.Errorf("failed to save credential: %w", err)
	}

	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
	s.credMu.Unlock()

	return s.Refresh(ctx), nil
}

// Refresh fetches rates for the current selection and returns the resulting
// state. If a newer Refresh started while this one was in flight, the newer
// request's state is returned and this result is discarded. The fetch outlives
// cancellation of ctx and is bounded by the provider HTTP client timeout.
func (s *RateSession) Refresh(ctx context.Context) RateState {
	requestID := middleware.GetRequestID(ctx)

	s.mu.Lock()
	s.seq++
	token := s.seq
	selection := entity.ProviderSelection{Provider: s.provider, Credential: s.credential}

	if selection.AwaitingCredential() {
		s.state = RateState{
			Status:    StatusAwaitingCredential,
			Provider:  selection.Provider,
			Error:     fmt.Sprintf("A %s API key is required to fetch rates.", selection.Provider),
			ErrorKind: entity.KindMissingCredential,
			Sequence:  token,
			UpdatedAt: time.Now(),
		}
		state := s.state
		s.mu.Unlock()

		s.logger.Info("Waiting for credential before fetching", map[string]interface{}{
			"request_id": requestID,
			"provider":   selection.Provider,
			"sequence":   token,
		})
		return state
	}

	s.state = RateState{
		Status:    StatusLoading,
		Provider:  selection.Provider,
		Sequence:  token,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()

	rates, err := s.fetcher.Fetch(context.WithoutCancel(ctx), selection)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		s.metrics.ObserveStale(string(selection.Provider))
		s.logger.Warn("Discarding stale rate fetch", map[string]interface{}{
			"request_id": requestID,
			"provider":   selection.Provider,
			"sequence":   token,
			"current":    s.seq,
		})
		return s.state
	}

	next := RateState{
		Provider:  selection.Provider,
		Sequence:  token,
		UpdatedAt: time.Now(),
	}

	switch {
	case err == nil:
		next.Status = StatusReady
		next.Rates = rates
	case entity.IsKind(err, entity.KindMissingCredential):
		next.Status = StatusAwaitingCredential
		next.Error = entity.UserMessage(err)
		next.ErrorKind = entity.KindMissingCredential
	default:
		next.Status = StatusFailed
		next.Error = entity.UserMessage(err)
		next.ErrorKind = entity.KindOf(err)
	}

	s.state = next
	return next
}

// Convert computes a conversion against the current rates
func (s *RateSession) Convert(input entity.ConversionInput, incentive entity.IncentiveConfig) (entity.ConversionResult, RateState) {
	state := s.State()
	return Compute(input, state.Rates, incentive), state
}
