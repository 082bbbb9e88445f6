package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/damon-houk/viable-rate-calculator/internal/application/service"
	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// DefaultAmount is used when the amount parameter is absent
const DefaultAmount = "100"

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	session *service.RateSession
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(session *service.RateSession, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		session: session,
		logger:  log,
	}
}

// Convert converts an amount against the current session rates.
// Missing parameters fall back to 100 GBP with a 2.5% incentive.
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	amount := DefaultAmount
	if query.Has("amount") {
		amount = query.Get("amount")
	}

	source := entity.GBP
	if code := query.Get("currency"); code != "" {
		c, ok := entity.ParseCurrency(strings.ToUpper(code))
		if !ok || !c.IsPrimary() {
			h.logger.Warn("Invalid currency", map[string]interface{}{
				"request_id": requestID,
				"currency":   code,
			})
			sendErrorResponse(w, h.logger, "Invalid currency",
				"Currency must be GBP or MYR", http.StatusBadRequest, requestID)
			return
		}
		source = c
	}

	incentive := entity.DefaultIncentive
	if query.Has("incentive") {
		incentive.Percentage = query.Get("incentive")
		if !entity.ValidIncentiveInput(incentive.Percentage) {
			h.logger.Warn("Invalid incentive", map[string]interface{}{
				"request_id": requestID,
				"incentive":  incentive.Percentage,
			})
			sendErrorResponse(w, h.logger, "Invalid incentive",
				"Incentive must be a number with up to 4 digits and 2 decimal places", http.StatusBadRequest, requestID)
			return
		}
	}

	if raw := query.Get("incentive_enabled"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("Invalid incentive_enabled", map[string]interface{}{
				"request_id":        requestID,
				"incentive_enabled": raw,
			})
			sendErrorResponse(w, h.logger, "Invalid incentive_enabled",
				"incentive_enabled must be true or false", http.StatusBadRequest, requestID)
			return
		}
		incentive.Enabled = enabled
	}

	input := entity.ConversionInput{Amount: amount, Source: source}
	result, state := h.session.Convert(input, incentive)

	h.logger.Debug("Conversion computed", map[string]interface{}{
		"request_id":    requestID,
		"amount":        amount,
		"currency":      source,
		"status":        state.Status,
		"target_amount": result.TargetAmount,
	})

	resp := ConvertResponse{
		Amount:         amount,
		SourceCurrency: source,
		Incentive:      incentive,
		Result:         result,
		Display:        service.Describe(result, incentive, state.Provider),
		Status:         state.Status,
		Error:          state.Error,
	}

	sendJSON(w, h.logger, http.StatusOK, resp, requestID)
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods(http.MethodGet)

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /convert",
		},
	})
}
