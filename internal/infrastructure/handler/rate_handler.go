// Package handler internal/infrastructure/handler/rate_handler.go
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/damon-houk/viable-rate-calculator/internal/application/service"
	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RateHandler handles HTTP requests for rates and provider settings
type RateHandler struct {
	session   *service.RateSession
	providers []entity.Provider
	logger    logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(session *service.RateSession, providers []entity.Provider, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		session:   session,
		providers: providers,
		logger:    log,
	}
}

// Health reports that the server is up
func (h *RateHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
}

// GetRates returns the current session state
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	state := h.session.State()

	h.logger.Debug("Returning rate state", map[string]interface{}{
		"request_id": requestID,
		"status":     state.Status,
		"provider":   state.Provider,
	})

	sendJSON(w, h.logger, http.StatusOK, newRatesResponse(state), requestID)
}

// RefreshRates re-runs the fetch for the current selection
func (h *RateHandler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling refresh request", map[string]interface{}{
		"request_id": requestID,
	})

	state := h.session.Refresh(r.Context())
	sendJSON(w, h.logger, http.StatusOK, newRatesResponse(state), requestID)
}

// GetSettings returns the provider selection and whether a credential is stored
func (h *RateHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, http.StatusOK, h.settings(), middleware.GetRequestID(r.Context()))
}

// SelectProvider switches provider and refetches
func (h *RateHandler) SelectProvider(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req SelectProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	provider, ok := entity.ParseProvider(strings.TrimSpace(req.Provider))
	if !ok {
		h.logger.Warn("Unsupported provider", map[string]interface{}{
			"request_id": requestID,
			"provider":   req.Provider,
		})
		sendErrorResponse(w, h.logger, "Unsupported provider",
			fmt.Sprintf("Provider must be one of %s", h.providerNames()), http.StatusBadRequest, requestID)
		return
	}

	h.logger.Info("Switching provider", map[string]interface{}{
		"request_id": requestID,
		"provider":   provider,
	})

	state := h.session.SelectProvider(r.Context(), provider)
	sendJSON(w, h.logger, http.StatusOK, newRatesResponse(state), requestID)
}

// SetCredential stores the Wise API key and refetches
func (h *RateHandler) SetCredential(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req SetCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	state, err := h.session.SetCredential(r.Context(), req.Credential)
	if err != nil {
		h.logger.Error("Failed to store credential", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Failed to store credential",
			"The API key could not be saved. Please try again.", http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Credential updated", map[string]interface{}{
		"request_id":     requestID,
		"credential_set": h.session.HasCredential(),
		"status":         state.Status,
	})

	sendJSON(w, h.logger, http.StatusOK, newRatesResponse(state), requestID)
}

func (h *RateHandler) settings() SettingsResponse {
	return SettingsResponse{
		Provider:      h.session.Provider(),
		CredentialSet: h.session.HasCredential(),
		Providers:     h.providers,
	}
}

func (h *RateHandler) providerNames() string {
	names := make([]string, 0, len(h.providers))
	for _, p := range h.providers {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/rates", h.GetRates).Methods(http.MethodGet)
	router.HandleFunc("/rates/refresh", h.RefreshRates).Methods(http.MethodPost)
	router.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	router.HandleFunc("/settings/provider", h.SelectProvider).Methods(http.MethodPut)
	router.HandleFunc("/settings/credential", h.SetCredential).Methods(http.MethodPut)

	h.logger.Info("Rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /health",
			"GET /rates",
			"POST /rates/refresh",
			"GET /settings",
			"PUT /settings/provider",
			"PUT /settings/credential",
		},
	})
}
