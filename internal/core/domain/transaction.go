package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies an entry in the ledger's transaction feed.
type TransactionType string

const (
	TransactionCard     TransactionType = "CARD"
	TransactionTransfer TransactionType = "TRANSFER"
	TransactionDeposit  TransactionType = "DEPOSIT"
)

// Transaction is one settled entry in a cash account's history. Amount is
// signed: credits are positive, debits negative.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	ThirdParty    string          `json:"thirdParty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// TransferRequest describes a single fund movement between two ledger
// endpoints. The ledger service provides at-least-once delivery; the core
// never assumes atomicity across multiple requests.
type TransferRequest struct {
	Source AccountRef
	Target AccountRef
	Amount decimal.Decimal
	// SourceCurrencyAmount marks Amount as denominated in the source
	// account's currency rather than the target's.
	SourceCurrencyAmount bool
	Reference            string
}

// TransferResult is the ledger service's acknowledgement of a transfer.
type TransferResult struct {
	TransferID string          `json:"transferID"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Quote is an ephemeral point-in-time FX quotation. FromAmount is the
// source-currency cost of acquiring ToAmount in the target currency.
type Quote struct {
	QuoteID          string          `json:"quoteID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	Rate             decimal.Decimal `json:"rate"`
}
