package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/vitaops/vita/internal/core/domain"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
	"github.com/vitaops/vita/internal/middleware"
)

// deliveryIDHeader carries the sender's unique id per webhook delivery.
// Retries reuse the same id.
const deliveryIDHeader = "X-Delivery-Id"

// webhookHandler receives account-update deliveries from the ledger service
type webhookHandler struct {
	reconciler portssvc.ReconcilerSvc
}

// newWebhookHandler creates a new webhookHandler
func newWebhookHandler(reconciler portssvc.ReconcilerSvc) *webhookHandler {
	return &webhookHandler{reconciler: reconciler}
}

// registerWebhookRoutes registers the ledger webhook endpoints
func registerWebhookRoutes(r *gin.Engine, reconciler portssvc.ReconcilerSvc) {
	h := newWebhookHandler(reconciler)

	// Webhooks are unauthenticated; rate-limit by IP to blunt abuse.
	rate, _ := limiter.NewRateFromFormatted("120-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	webhooks := r.Group("/webhooks/wise", middleware.RateLimit(ipLimiter))
	{
		webhooks.POST("/primary-account-update", h.primaryAccountUpdate)
		webhooks.POST("/secondary-account-update", h.secondaryAccountUpdate)
	}
}

type balanceUpdateFunc func(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error)

// primaryAccountUpdate godoc
// @Summary Receive a personal-profile balance update
// @Description Reconciles one balance update against the budget, routing funds to the matching reserve
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Delivery-Id header string false "Sender delivery id, stable across retries"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string "Transient failure, retry expected"
// @Router /webhooks/wise/primary-account-update [post]
func (h *webhookHandler) primaryAccountUpdate(c *gin.Context) {
	h.handle(c, h.reconciler.HandlePrimaryBalanceUpdate)
}

// secondaryAccountUpdate godoc
// @Summary Receive a household-profile balance update
// @Description Reserves incoming rent credits against the matching tenant
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Delivery-Id header string false "Sender delivery id, stable across retries"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string "Transient failure, retry expected"
// @Router /webhooks/wise/secondary-account-update [post]
func (h *webhookHandler) secondaryAccountUpdate(c *gin.Context) {
	h.handle(c, h.reconciler.HandleSecondaryBalanceUpdate)
}

// handle runs the shared webhook flow. Malformed payloads still return 200
// so the sender stops retrying; only transient processing failures return
// 500 and invite a retry.
func (h *webhookHandler) handle(c *gin.Context, process balanceUpdateFunc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Error("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read request body"})
		return
	}

	deliveryID := c.GetHeader(deliveryIDHeader)
	if deliveryID == "" {
		// No sender id means no dedupe across retries; synthesize one so
		// the delivery is still recorded.
		deliveryID = uuid.NewString()
		logger.Warn("Webhook delivery missing delivery id header")
	}

	outcome, err := process(c.Request.Context(), payload, deliveryID)
	if err != nil {
		logger.Error("Failed to process balance update",
			slog.String("delivery_id", deliveryID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process balance update"})
		return
	}

	logger.Info("Balance update handled",
		slog.String("delivery_id", deliveryID),
		slog.String("outcome", string(outcome)))
	c.JSON(http.StatusOK, gin.H{"outcome": string(outcome)})
}
