package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
)

// ExchangeRateAPIURL returns rates relative to GBP
const ExchangeRateAPIURL = "https://open.er-api.com/v6/latest/GBP"

// ExchangeRateAPIClient implements the public, unauthenticated rate provider
type ExchangeRateAPIClient struct {
	url        string
	httpClient *http.Client
	logger     logger.Logger
}

// NewExchangeRateAPIClient creates a new ExchangeRate-API client
func NewExchangeRateAPIClient(url string, httpClient *http.Client, log logger.Logger) *ExchangeRateAPIClient {
	if url == "" {
		url = ExchangeRateAPIURL
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateAPIClient{
		url:        url,
		httpClient: newHTTPClient(httpClient),
		logger:     log,
	}
}

// ExchangeRateAPIResponse is the subset of the open.er-api.com payload we read.
// Rates are decoded loosely so non-numeric values can be reported as malformed.
type ExchangeRateAPIResponse struct {
	Result    string                 `json:"result"`
	ErrorType string                 `json:"error-type"`
	BaseCode  string                 `json:"base_code"`
	Rates     map[string]interface{} `json:"rates"`
}

// Name identifies the provider
func (c *ExchangeRateAPIClient) Name() entity.Provider {
	return entity.ExchangeRateAPI
}

// FetchRates retrieves GBP->MYR and GBP->BDT in a single request.
// The credential is ignored; this provider cannot supply MYR->BDT directly.
func (c *ExchangeRateAPIClient) FetchRates(ctx context.Context, _ string) (*entity.RateSet, error) {
	resp, err := doGet(ctx, c.httpClient, c.logger, c.Name(), "", c.url, nil)
	if err != nil {
		return nil, err
	}

	if !resp.ok() {
		return nil, entity.NewFetchError(entity.KindProvider, c.Name(),
			fmt.Sprintf("Network response was not ok: %s", resp.statusText()))
	}

	var payload ExchangeRateAPIResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, &entity.FetchError{
			Kind:     entity.KindMalformedResponse,
			Provider: c.Name(),
			Message:  "Invalid data structure from ExchangeRate-API.",
			Err:      err,
		}
	}

	if payload.Result != "success" {
		if payload.Result == "error" || payload.ErrorType != "" {
			msg := payload.ErrorType
			if msg == "" {
				msg = "API returned an error"
			}
			return nil, entity.NewFetchError(entity.KindProvider, c.Name(), msg)
		}
		return nil, entity.NewFetchError(entity.KindMalformedResponse, c.Name(),
			"ExchangeRate-API response did not report success.")
	}

	myr, okMYR := numericRate(payload.Rates, entity.MYR)
	bdt, okBDT := numericRate(payload.Rates, entity.BDT)
	if !okMYR || !okBDT {
		return nil, entity.NewFetchError(entity.KindMalformedResponse, c.Name(),
			"Required currency rates (MYR, BDT) not found in API response.")
	}

	c.logger.Debug("Fetched ExchangeRate-API rates", map[string]interface{}{
		"base":       payload.BaseCode,
		"gbp_to_myr": myr,
		"gbp_to_bdt": bdt,
	})

	return &entity.RateSet{
		BaseToSecondary: myr,
		BaseToTertiary:  bdt,
	}, nil
}

// numericRate reads a strictly positive, finite JSON number from the rate map
func numericRate(rates map[string]interface{}, currency entity.Currency) (float64, bool) {
	v, ok := rates[string(currency)].(float64)
	if !ok || !entity.IsPositiveFinite(v) {
		return 0, false
	}
	return v, true
}
