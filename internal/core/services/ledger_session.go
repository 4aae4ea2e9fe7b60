package services

import (
	"context"

	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
)

// ledgerSession memoizes reserve-account lookups for the lifetime of a
// single operation. Balances read through it can go stale once the
// operation starts transferring; callers re-read through the ledger when
// freshness matters. Never shared across operations.
type ledgerSession struct {
	ledger   ports.LedgerService
	reserves map[string]*domain.ReserveAccount
}

func newLedgerSession(ledger ports.LedgerService) *ledgerSession {
	return &ledgerSession{
		ledger:   ledger,
		reserves: make(map[string]*domain.ReserveAccount),
	}
}

// Reserve returns the named reserve account, creating it on first
// reference and caching it for the rest of the operation.
func (s *ledgerSession) Reserve(ctx context.Context, name, currencyCode string) (*domain.ReserveAccount, error) {
	key := name + "|" + currencyCode
	if account, ok := s.reserves[key]; ok {
		return account, nil
	}

	account, err := s.ledger.GetOrCreateReserveAccount(ctx, name, currencyCode)
	if err != nil {
		return nil, err
	}
	s.reserves[key] = account
	return account, nil
}
