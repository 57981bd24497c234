// src/handlers/price_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/username/billfolio/backend/src/logger"
	"github.com/username/billfolio/backend/src/services"
	"github.com/username/billfolio/backend/src/utils"
)

type PriceHandler struct {
	priceService services.FundPriceService
}

func NewPriceHandler(service services.FundPriceService) *PriceHandler {
	return &PriceHandler{
		priceService: service,
	}
}

// HandleGetLatestPrice serves the latest NAV for ?ticker=.
func (h *PriceHandler) HandleGetLatestPrice(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		utils.SendJSONError(w, "Missing 'ticker' query parameter.", http.StatusBadRequest)
		return
	}

	quote, err := h.priceService.LatestPrice(ticker)
	if err != nil {
		h.sendQuoteError(w, ticker, err)
		return
	}
	h.sendQuote(w, quote)
}

// HandleGetHistoricalPrice serves the NAV at ?date=YYYY-MM-DD for ?ticker=.
func (h *PriceHandler) HandleGetHistoricalPrice(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		utils.SendJSONError(w, "Missing 'ticker' query parameter.", http.StatusBadRequest)
		return
	}
	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.SendJSONError(w, "Invalid or missing 'date' query parameter, expected YYYY-MM-DD.", http.StatusBadRequest)
		return
	}

	quote, err := h.priceService.HistoricalPrice(ticker, date)
	if err != nil {
		h.sendQuoteError(w, ticker, err)
		return
	}
	h.sendQuote(w, quote)
}

func (h *PriceHandler) sendQuote(w http.ResponseWriter, quote *services.FundQuote) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(quote); err != nil {
		logger.L.Error("Error encoding JSON response for fund quote", "error", err)
	}
}

func (h *PriceHandler) sendQuoteError(w http.ResponseWriter, ticker string, err error) {
	if errors.Is(err, services.ErrQuoteUnavailable) {
		logger.L.Warn("Fund quote unavailable", "ticker", ticker, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Quote unavailable for %s: %v", ticker, err), http.StatusBadGateway)
		return
	}
	logger.L.Error("Internal error fetching fund quote", "ticker", ticker, "error", err)
	utils.SendJSONError(w, "An internal error occurred while fetching the quote.", http.StatusInternalServerError)
}
