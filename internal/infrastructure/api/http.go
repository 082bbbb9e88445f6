package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
)

// DefaultTimeout bounds a single provider request
const DefaultTimeout = 10 * time.Second

func newHTTPClient(httpClient *http.Client) *http.Client {
	if httpClient != nil {
		return httpClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// getResponse is a completed GET with its body already read
type getResponse struct {
	StatusCode int
	Body       []byte
}

// statusText mirrors the reason phrase a browser reports for a status code
func (r *getResponse) statusText() string {
	if text := http.StatusText(r.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", r.StatusCode)
}

func (r *getResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// doGet issues a single GET attempt. Transport failures come back as network
// fetch errors tagged with the provider and pair.
func doGet(ctx context.Context, client *http.Client, log logger.Logger, provider entity.Provider, pair, reqURL string, header http.Header) (*getResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		fe := entity.UnexpectedError(provider, fmt.Errorf("failed to create request: %w", err))
		fe.Pair = pair
		return nil, fe
	}

	req.Header.Add("Accept", "application/json")
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		fe := entity.NetworkError(provider, fmt.Errorf("failed to execute request: %w", err))
		fe.Pair = pair
		return nil, fe
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Error closing response body", map[string]interface{}{
				"url":   reqURL,
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fe := entity.NetworkError(provider, fmt.Errorf("failed to read response body: %w", err))
		fe.Pair = pair
		return nil, fe
	}

	log.Debug("Provider response received", map[string]interface{}{
		"provider": provider,
		"pair":     pair,
		"status":   resp.StatusCode,
		"bytes":    len(body),
	})

	return &getResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
