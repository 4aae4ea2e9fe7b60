package services

import (
	"github.com/vitaops/vita/internal/core/ports"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
	"github.com/vitaops/vita/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	ledger ports.LedgerService,
	household ports.LedgerService,
	configSource ports.ConfigurationSource,
	notifier ports.Notifier,
	deliveries ports.WebhookDeliveryRepository,
) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Initialize the planner first since the other services depend on it
	container.Planner = NewPlannerService(ledger, household, configSource, cfg.PrimaryCurrency)

	container.Organizer = NewOrchestratorService(
		ledger,
		household,
		container.Planner,
		notifier,
		cfg.MonthlyBudget,
		cfg.PrimaryCurrency,
	)

	container.Reconciler = NewReconcilerService(
		ledger,
		household,
		container.Planner,
		container.Organizer,
		container.Organizer,
		configSource,
		deliveries,
		notifier,
		cfg.MonthlyBudget,
		cfg.PrimaryCurrency,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.PlannerSvc           = (*plannerService)(nil)
	_ portssvc.FinancesOrganizerSvc = (*orchestratorService)(nil)
	_ portssvc.ReconcilerSvc        = (*reconcilerService)(nil)
)
