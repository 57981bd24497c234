package services

import (
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/billfolio/backend/src/models"
)

var (
	ErrParsingFailed = errors.New("statement parsing failed")
	ErrUnknownSource = errors.New("unknown statement source")
)

// ImportResult summarizes one processed statement upload.
type ImportResult struct {
	BatchID           string                         `json:"batch_id"`
	Source            string                         `json:"source"`
	TransactionCount  int                            `json:"transaction_count"`
	ReviewCount       int                            `json:"review_count"`
	SkippedDuplicates int                            `json:"skipped_duplicates"`
	Transactions      []models.NormalizedTransaction `json:"transactions"`
}

// LedgerSummary aggregates the stored journal.
type LedgerSummary struct {
	TransactionCount int            `json:"transaction_count"`
	ReviewCount      int            `json:"review_count"`
	BySource         map[string]int `json:"by_source"`
}

// ImportService defines the core statement processing logic: normalize an
// uploaded export, persist the result, and serve it back.
type ImportService interface {
	ProcessStatement(fileReader io.Reader, fileName string, source string) (*ImportResult, error)
	GetTransactions(source string) ([]models.NormalizedTransaction, error)
	GetSummary() (*LedgerSummary, error)
}

// FundQuote is one net-asset-value observation for a fund.
type FundQuote struct {
	Price    decimal.Decimal `json:"price"`
	AsOf     time.Time       `json:"as_of"`
	Currency string          `json:"currency"`
}

// FundPriceService fetches fund net asset values from the public quotation
// API. Retries, if desired, are the caller's responsibility.
type FundPriceService interface {
	LatestPrice(ticker string) (*FundQuote, error)
	HistoricalPrice(ticker string, date time.Time) (*FundQuote, error)
}
