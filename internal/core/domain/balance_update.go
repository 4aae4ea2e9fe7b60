package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceUpdateKind is the tagged variant of a normalized webhook payload.
// Exactly one parse step produces it; everything downstream switches on it
// exhaustively.
type BalanceUpdateKind string

const (
	BalanceUpdateCredit     BalanceUpdateKind = "CREDIT"
	BalanceUpdateDebit      BalanceUpdateKind = "DEBIT"
	BalanceUpdateUnparsable BalanceUpdateKind = "UNPARSABLE"
)

// BalanceUpdate is the normalized form of an inbound account-update
// delivery from the ledger service.
type BalanceUpdate struct {
	Kind         BalanceUpdateKind
	Amount       decimal.Decimal
	CurrencyCode string
	// Counterparty is the raw statement line for the other side of the
	// movement, empty when the ledger did not report one.
	Counterparty string
	Reference    string
	OccurredAt   time.Time
	DeliveryID   string
}

// ReconcileOutcome is the terminal state of one webhook delivery.
type ReconcileOutcome string

const (
	OutcomeSuppressed    ReconcileOutcome = "SUPPRESSED"
	OutcomeLoggedUnknown ReconcileOutcome = "LOGGED_UNKNOWN"
	OutcomeProcessed     ReconcileOutcome = "PROCESSED"
)
