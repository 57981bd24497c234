package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction flags follow ledger conventions: "*" for entries whose account
// was resolved automatically, "!" for entries a human still has to review.
const (
	FlagCleared = "*"
	FlagReview  = "!"
)

// Amount pairs an exact decimal magnitude with its currency code. Monetary
// values never pass through floating point anywhere in the pipeline.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Value: a.Value.Neg(), Currency: a.Currency}
}

// BillRecord is the canonical intermediate representation of one statement
// row. Each importer populates it straight from the source file. Amount holds
// the non-negative magnitude; direction lives in IsOutflow.
type BillRecord struct {
	TradeTime       time.Time
	TradeType       string
	Counterparty    string
	Description     string
	IsOutflow       bool
	Amount          Amount
	PaySource       string
	Status          string
	TransactionID   string
	MerchantOrderID string
	Category        string
}

// AccountRule maps a payment-source substring to a ledger account. Rules are
// evaluated in order and the first match wins, so specific tokens (a numbered
// card label) must come before generic ones (a bare balance label).
type AccountRule struct {
	Match   string `json:"match"`
	Account string `json:"account"`
}

// ResolvedAccount is the outcome of running a payment source through the
// account rules. Matched is false when the fallback placeholder was used.
type ResolvedAccount struct {
	Account string
	Matched bool
}

// Posting is one leg of a transaction: an account and a signed amount.
type Posting struct {
	Account string `json:"account"`
	Amount  Amount `json:"amount"`
}

// NormalizedTransaction is the output unit of an importer: one statement row
// turned into a dated, flagged entry with one or two balanced posting legs.
// When two legs are present their signed amounts sum to zero; a single leg is
// left for the downstream ledger to balance.
type NormalizedTransaction struct {
	Date            time.Time         `json:"date"`
	Payee           *string           `json:"payee,omitempty"`
	Narration       string            `json:"narration"`
	Tags            []string          `json:"tags,omitempty"`
	Postings        []Posting         `json:"postings"`
	Flag            string            `json:"flag"`
	SourceFile      string            `json:"source_file"`
	SourceLine      int               `json:"source_line"`
	TransactionID   string            `json:"transaction_id,omitempty"`
	MerchantOrderID string            `json:"merchant_order_id,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}
