package ports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitaops/vita/internal/core/domain"
)

// LedgerService is the banking API the core moves money through. Transfer
// delivery is at-least-once; nothing here is atomic across calls, so every
// operation re-reads balances at its start.
type LedgerService interface {
	GetCashAccount(ctx context.Context, currencyCode string) (*domain.CashAccount, error)
	// GetOrCreateReserveAccount looks a reserve up by exact name, creating it
	// on first reference. Idempotent.
	GetOrCreateReserveAccount(ctx context.Context, name string, currencyCode string) (*domain.ReserveAccount, error)
	GetRecipient(ctx context.Context, accountNumber string) (*domain.Recipient, error)
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
	GetTransactions(ctx context.Context, currencyCode string, since time.Time) ([]domain.Transaction, error)
	GetQuote(ctx context.Context, fromCurrencyCode, toCurrencyCode string, targetAmount decimal.Decimal) (*domain.Quote, error)
}

// Row is one record of a configuration table, keyed by column header.
type Row map[string]string

// String returns the trimmed cell value for a column, empty when absent.
func (r Row) String(column string) string {
	return strings.TrimSpace(r[column])
}

// Decimal parses a column as an exact decimal amount.
func (r Row) Decimal(column string) (decimal.Decimal, error) {
	raw := r.String(column)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("column %q is empty", column)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q is not a decimal: %w", column, err)
	}
	return d, nil
}

// Bool reports whether a column holds an affirmative marker.
func (r Row) Bool(column string) bool {
	switch strings.ToLower(r.String(column)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// ConfigurationSource returns budget settings and tabular configuration,
// keyed by sheet name. Loaded fresh on every planning or reconciliation run.
type ConfigurationSource interface {
	GetTable(ctx context.Context, sheet string) ([]Row, error)
	GetSettings(ctx context.Context) (map[string]string, error)
}

// Notifier is the human-readable status channel. Implementations must be
// non-blocking; callers ignore the returned error beyond logging it.
type Notifier interface {
	Send(ctx context.Context, channel domain.Channel, message string) error
}

// WebhookDeliveryRepository is the persistent set of processed delivery
// identifiers gating the reconciler. Append-only within core scope.
type WebhookDeliveryRepository interface {
	Exists(ctx context.Context, deliveryID string) (bool, error)
	Record(ctx context.Context, deliveryID string) error
}
