// src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/billfolio/backend/src/logger"
	"github.com/username/billfolio/backend/src/models"
	"github.com/username/billfolio/backend/src/services"
	"github.com/username/billfolio/backend/src/utils"
)

type TransactionHandler struct {
	importService services.ImportService
}

func NewTransactionHandler(service services.ImportService) *TransactionHandler {
	return &TransactionHandler{
		importService: service,
	}
}

// HandleGetTransactions serves the stored journal, optionally filtered by
// ?source=. Responses carry an ETag so unchanged journals return 304.
func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	txns, err := h.importService.GetTransactions(source)
	if err != nil {
		logger.L.Error("Error retrieving transactions from service", "source", source, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving transactions: %v", err), http.StatusInternalServerError)
		return
	}
	if txns == nil {
		txns = []models.NormalizedTransaction{}
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, etagErr := utils.GenerateETag(txns)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(txns); err != nil {
		logger.L.Error("Error encoding JSON response for transactions", "error", err)
	}
}

// HandleGetSummary serves aggregate counts over the stored journal.
func (h *TransactionHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.importService.GetSummary()
	if err != nil {
		logger.L.Error("Error retrieving ledger summary", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving summary: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		logger.L.Error("Error encoding JSON response for summary", "error", err)
	}
}
