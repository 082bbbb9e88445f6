package handler

import (
	"time"

	"github.com/damon-houk/viable-rate-calculator/internal/application/service"
	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
)

// SelectProviderRequest represents the request body for switching provider
type SelectProviderRequest struct {
	Provider string `json:"provider"`
}

// SetCredentialRequest represents the request body for storing the Wise API key
type SetCredentialRequest struct {
	Credential string `json:"credential"`
}

// SettingsResponse represents the current provider settings. The credential
// itself is never returned.
type SettingsResponse struct {
	Provider      entity.Provider   `json:"provider"`
	CredentialSet bool              `json:"credential_set"`
	Providers     []entity.Provider `json:"providers"`
}

// RatesResponse represents the session state returned by the rate endpoints
type RatesResponse struct {
	Status          service.Status        `json:"status"`
	Provider        entity.Provider       `json:"provider"`
	Rates           *entity.RateSet       `json:"rates,omitempty"`
	MarketCrossRate float64               `json:"market_myr_bdt_rate"`
	Attribution     string                `json:"attribution"`
	Error           string                `json:"error,omitempty"`
	ErrorKind       entity.FetchErrorKind `json:"error_kind,omitempty"`
	Sequence        uint64                `json:"sequence"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ConvertResponse represents the response for the convert endpoint
type ConvertResponse struct {
	Amount         string                  `json:"amount"`
	SourceCurrency entity.Currency         `json:"source_currency"`
	Incentive      entity.IncentiveConfig  `json:"incentive"`
	Result         entity.ConversionResult `json:"result"`
	Display        service.Display         `json:"display"`
	Status         service.Status          `json:"status"`
	Error          string                  `json:"error,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newRatesResponse(state service.RateState) RatesResponse {
	return RatesResponse{
		Status:          state.Status,
		Provider:        state.Provider,
		Rates:           state.Rates,
		MarketCrossRate: service.MarketCrossRate(state.Rates),
		Attribution:     service.Attribution(state.Provider),
		Error:           state.Error,
		ErrorKind:       state.ErrorKind,
		Sequence:        state.Sequence,
		UpdatedAt:       state.UpdatedAt,
	}
}
