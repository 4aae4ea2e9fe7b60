package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitaops/vita/internal/core/domain"
)

// PlannerSvc derives budget plans from configuration. MonthlyPlan is a
// read-only projection with no side effects.
type PlannerSvc interface {
	MonthlyPlan(ctx context.Context, month time.Time) (*domain.MonthlyPlan, error)
	ExpectedParties(ctx context.Context) ([]domain.ExpectedParty, error)
	Tenants(ctx context.Context) ([]domain.Tenant, error)
	// DailyBudgetState is pure arithmetic over current balances and the
	// calendar; it never touches an external collaborator.
	DailyBudgetState(monthlyBudget, cashBalance, reserveBalance decimal.Decimal, today time.Time) domain.DailyBudgetState
}

// MonthlyOrganizerSvc is the narrow facade the reconciler triggers when a
// salary credit arrives.
type MonthlyOrganizerSvc interface {
	OrganizeMonthlyFinances(ctx context.Context, month time.Time) (*domain.MonthlySummary, error)
}

// RentReserverSvc reserves an incoming rent credit against the matching
// tenant. Split out so the reconciler depends on nothing wider.
type RentReserverSvc interface {
	ReserveIncomingRent(ctx context.Context, tx domain.Transaction) error
}

// FinancesOrganizerSvc executes the money-movement sequences exposed by the
// finances API.
type FinancesOrganizerSvc interface {
	MonthlyOrganizerSvc
	RentReserverSvc
	OrganizeDailyFinances(ctx context.Context) (*domain.DailyBudgetState, error)
	MonthlyPlan(ctx context.Context, month time.Time) (*domain.MonthlyPlan, error)
	OrganizeRent(ctx context.Context) (*domain.RentSummary, error)
}

// ReconcilerSvc classifies and routes inbound balance updates exactly once
// per delivery id.
type ReconcilerSvc interface {
	HandlePrimaryBalanceUpdate(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error)
	HandleSecondaryBalanceUpdate(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error)
	// OrganizeTransactions sweeps the recent transaction feed: card debits
	// through the debit path, salary credits into the monthly organization.
	OrganizeTransactions(ctx context.Context) error
}
