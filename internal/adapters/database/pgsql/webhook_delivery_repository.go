package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vitaops/vita/internal/core/ports"
)

type webhookDeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewWebhookDeliveryRepository creates the persistent processed-delivery set.
func NewWebhookDeliveryRepository(pool *pgxpool.Pool) ports.WebhookDeliveryRepository {
	return &webhookDeliveryRepository{pool: pool}
}

// Exists reports whether the delivery id was already processed.
func (r *webhookDeliveryRepository) Exists(ctx context.Context, deliveryID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM webhook_deliveries WHERE delivery_id = $1);`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, deliveryID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check delivery %s: %w", deliveryID, err)
	}
	return exists, nil
}

// Record marks a delivery id as processed. Recording the same id twice is
// a no-op so a retried recording never fails the operation.
func (r *webhookDeliveryRepository) Record(ctx context.Context, deliveryID string) error {
	query := `
		INSERT INTO webhook_deliveries (delivery_id, processed_at)
		VALUES ($1, $2)
		ON CONFLICT (delivery_id) DO NOTHING;
	`

	if _, err := r.pool.Exec(ctx, query, deliveryID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record delivery %s: %w", deliveryID, err)
	}
	return nil
}
