package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WiseWebhookPayload mirrors the balance-update envelope the ledger service
// delivers. All fields come from a trusted source; malformed payloads are
// logged and suppressed rather than rejected.
type WiseWebhookPayload struct {
	Data           WiseWebhookData `json:"data"`
	SubscriptionID string          `json:"subscription_id"`
	EventType      string          `json:"event_type"`
	SchemaVersion  string          `json:"schema_version"`
	SentAt         string          `json:"sent_at"`
}

// WiseWebhookData is the balance-update body of a webhook envelope.
type WiseWebhookData struct {
	Resource          WiseWebhookResource `json:"resource"`
	Amount            decimal.Decimal     `json:"amount"`
	Currency          string              `json:"currency"`
	TransactionType   string              `json:"transaction_type"`
	OccurredAt        time.Time           `json:"occurred_at"`
	TransferReference string              `json:"transfer_reference"`
}

// WiseWebhookResource identifies the account the update applies to.
type WiseWebhookResource struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	ProfileID int64  `json:"profile_id"`
	AccountID int64  `json:"account_id"`
}
