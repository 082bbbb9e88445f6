package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
)

// WiseRatesURL is the authenticated per-pair rate endpoint
const WiseRatesURL = "https://api.wise.com/v1/rates"

// WiseAPIClient implements the credentialed rate provider
type WiseAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewWiseAPIClient creates a new Wise client
func NewWiseAPIClient(baseURL string, httpClient *http.Client, log logger.Logger) *WiseAPIClient {
	if baseURL == "" {
		baseURL = WiseRatesURL
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &WiseAPIClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(httpClient),
		logger:     log,
	}
}

// WiseRateRecord is one element of the /v1/rates response array
type WiseRateRecord struct {
	Rate   interface{} `json:"rate"`
	Source string      `json:"source"`
	Target string      `json:"target"`
	Time   string      `json:"time"`
}

// Name identifies the provider
func (c *WiseAPIClient) Name() entity.Provider {
	return entity.Wise
}

// FetchRates looks up GBP->MYR, GBP->BDT and MYR->BDT concurrently.
// The first failing lookup fails the whole fetch and cancels the others.
func (c *WiseAPIClient) FetchRates(ctx context.Context, credential string) (*entity.RateSet, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, entity.MissingCredentialError(c.Name())
	}

	var gbpToMYR, gbpToBDT, myrToBDT float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gbpToMYR, err = c.fetchRate(gctx, credential, entity.GBP, entity.MYR)
		return err
	})
	g.Go(func() error {
		var err error
		gbpToBDT, err = c.fetchRate(gctx, credential, entity.GBP, entity.BDT)
		return err
	})
	g.Go(func() error {
		var err error
		myrToBDT, err = c.fetchRate(gctx, credential, entity.MYR, entity.BDT)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &entity.RateSet{
		BaseToSecondary:     gbpToMYR,
		BaseToTertiary:      gbpToBDT,
		SecondaryToTertiary: &myrToBDT,
	}, nil
}

func (c *WiseAPIClient) fetchRate(ctx context.Context, credential string, source, target entity.Currency) (float64, error) {
	pair := fmt.Sprintf("%s->%s", source, target)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		fe := entity.UnexpectedError(c.Name(), fmt.Errorf("invalid Wise URL: %w", err))
		fe.Pair = pair
		return 0, fe
	}
	q := u.Query()
	q.Set("source", string(source))
	q.Set("target", string(target))
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)

	resp, err := doGet(ctx, c.httpClient, c.logger, c.Name(), pair, u.String(), header)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return 0, &entity.FetchError{
			Kind:     entity.KindAuthentication,
			Provider: c.Name(),
			Pair:     pair,
			Message:  fmt.Sprintf("Wise API authentication error (%d): Please check your API key.", resp.StatusCode),
		}
	}

	if !resp.ok() {
		return 0, &entity.FetchError{
			Kind:     entity.KindProvider,
			Provider: c.Name(),
			Pair:     pair,
			Message:  fmt.Sprintf("Wise API error for %s: %s", pair, resp.statusText()),
		}
	}

	malformed := func(cause error) error {
		return &entity.FetchError{
			Kind:     entity.KindMalformedResponse,
			Provider: c.Name(),
			Pair:     pair,
			Message:  fmt.Sprintf("Invalid data structure from Wise API for %s", pair),
			Err:      cause,
		}
	}

	var records []WiseRateRecord
	if err := json.Unmarshal(resp.Body, &records); err != nil {
		return 0, malformed(err)
	}

	if len(records) == 0 {
		return 0, malformed(nil)
	}

	rate, ok := records[0].Rate.(float64)
	if !ok || !entity.IsPositiveFinite(rate) {
		return 0, malformed(nil)
	}

	return rate, nil
}
