package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitaops/vita/internal/apperrors"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
	"github.com/vitaops/vita/internal/dto"
	"github.com/vitaops/vita/internal/middleware"
)

// financesHandler handles HTTP requests that trigger financial organization
type financesHandler struct {
	organizer  portssvc.FinancesOrganizerSvc
	reconciler portssvc.ReconcilerSvc
}

// newFinancesHandler creates a new financesHandler
func newFinancesHandler(organizer portssvc.FinancesOrganizerSvc, reconciler portssvc.ReconcilerSvc) *financesHandler {
	return &financesHandler{
		organizer:  organizer,
		reconciler: reconciler,
	}
}

// registerFinancesRoutes registers the scheduler-facing finances routes
func registerFinancesRoutes(rg *gin.RouterGroup, organizer portssvc.FinancesOrganizerSvc, reconciler portssvc.ReconcilerSvc) {
	h := newFinancesHandler(organizer, reconciler)

	finances := rg.Group("/finances")
	{
		finances.POST("/organize_daily", h.organizeDaily)
		finances.POST("/organize_monthly", h.organizeMonthly)
		finances.GET("/monthly", h.getMonthlyPlan)
		finances.POST("/organize_rent", h.organizeRent)
		finances.POST("/organize_transactions", h.organizeTransactions)
	}
}

// respondWithServiceError maps service errors to HTTP statuses. Budget
// misconfiguration and salary shortfalls are caller-visible 400s; anything
// else is a 500.
func respondWithServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrConfiguration),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Rejected "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// organizeDaily godoc
// @Summary Run the daily budget organization
// @Description Reconciles the cash balance against the daily budget and moves the difference to or from the daily-expenses reserve
// @Tags finances
// @Produce json
// @Success 200 {object} dto.DailyFinancesResponse
// @Failure 400 {object} map[string]string "Budget configuration invalid"
// @Failure 500 {object} map[string]string "Organization failed"
// @Security ApiKeyAuth
// @Router /finances/organize_daily [post]
func (h *financesHandler) organizeDaily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to organize daily finances")

	state, err := h.organizer.OrganizeDailyFinances(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, logger, err, "organize daily finances")
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyFinancesResponse(state))
}

// organizeMonthly godoc
// @Summary Run the monthly financial organization
// @Description Distributes the salary across needs, wants, scheduled transfers and savings for the given month
// @Tags finances
// @Produce json
// @Param month query string false "Month to organize (YYYY-MM)" default(next month)
// @Success 200 {object} dto.MonthlySummaryResponse
// @Failure 400 {object} map[string]string "Invalid month, configuration mismatch or insufficient salary"
// @Failure 500 {object} map[string]string "Organization failed"
// @Security ApiKeyAuth
// @Router /finances/organize_monthly [post]
func (h *financesHandler) organizeMonthly(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := dto.ParseMonth(c.Query("month"))
	if err != nil {
		logger.Warn("Invalid month query parameter", slog.String("month", c.Query("month")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format. Use YYYY-MM"})
		return
	}

	logger.Info("Received request to organize monthly finances", slog.String("month", c.Query("month")))

	summary, err := h.organizer.OrganizeMonthlyFinances(c.Request.Context(), month)
	if err != nil {
		respondWithServiceError(c, logger, err, "organize monthly finances")
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthlySummaryResponse(summary))
}

// getMonthlyPlan godoc
// @Summary Preview the monthly budget plan
// @Description Derives the monthly plan from configuration without moving any funds
// @Tags finances
// @Produce json
// @Param month query string false "Month to plan (YYYY-MM)" default(next month)
// @Success 200 {object} dto.MonthlyPlanResponse
// @Failure 400 {object} map[string]string "Invalid month or configuration mismatch"
// @Failure 500 {object} map[string]string "Planning failed"
// @Security ApiKeyAuth
// @Router /finances/monthly [get]
func (h *financesHandler) getMonthlyPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := dto.ParseMonth(c.Query("month"))
	if err != nil {
		logger.Warn("Invalid month query parameter", slog.String("month", c.Query("month")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format. Use YYYY-MM"})
		return
	}
	if month.IsZero() {
		now := time.Now()
		month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	}

	plan, err := h.organizer.MonthlyPlan(c.Request.Context(), month)
	if err != nil {
		respondWithServiceError(c, logger, err, "derive monthly plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthlyPlanResponse(plan))
}

// organizeRent godoc
// @Summary Run the weekly rent collection
// @Description Collects one week of rent from each tenant's household reserve
// @Tags finances
// @Produce json
// @Success 200 {object} dto.RentSummaryResponse
// @Failure 400 {object} map[string]string "Tenant configuration invalid"
// @Failure 500 {object} map[string]string "Collection failed"
// @Security ApiKeyAuth
// @Router /finances/organize_rent [post]
func (h *financesHandler) organizeRent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to organize rent")

	summary, err := h.organizer.OrganizeRent(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, logger, err, "organize rent")
		return
	}

	c.JSON(http.StatusOK, dto.ToRentSummaryResponse(summary))
}

// organizeTransactions godoc
// @Summary Sweep recent transactions
// @Description Classifies the last hour of transactions, settling card purchases and reacting to salary credits
// @Tags finances
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Budget configuration invalid"
// @Failure 500 {object} map[string]string "Sweep failed"
// @Security ApiKeyAuth
// @Router /finances/organize_transactions [post]
func (h *financesHandler) organizeTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to organize transactions")

	if err := h.reconciler.OrganizeTransactions(c.Request.Context()); err != nil {
		respondWithServiceError(c, logger, err, "organize transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
