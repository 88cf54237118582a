package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/dto"
	"github.com/rentledger/rentledger/internal/middleware"
)

// recurringHandler handles HTTP requests for recurring rules and for the
// catch-up posting run.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
	postingService   portssvc.PostingSvc
}

// registerRecurringRoutes registers routes related to recurring rules.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade, postingService portssvc.PostingSvc) {
	h := &recurringHandler{recurringService: recurringService, postingService: postingService}

	recurring := rg.Group("/recurring")
	{
		recurring.POST("", h.createRecurring)
		recurring.GET("/:recurringID", h.getRecurringByID)
		recurring.PUT("/:recurringID", h.updateRecurring)
		recurring.DELETE("/:recurringID", h.deactivateRecurring)
	}

	rg.POST("/postings", h.postUpToMonth)
}

// createRecurring godoc
// @Summary Create a recurring rule
// @Description Adds a standing monthly charge rule for a property
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRecurringRequest true "Rule details"
// @Success 201 {object} dto.RecurringResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Property or category not found"
// @Failure 500 {object} map[string]string "Failed to create rule"
// @Security BearerAuth
// @Router /recurring [post]
func (h *recurringHandler) createRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurring", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.recurringService.CreateRecurring(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create recurring rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recurring rule"})
		}
		return
	}

	logger.Info("Recurring rule created", slog.String("recurring_id", created.RecurringID))
	c.JSON(http.StatusCreated, dto.ToRecurringResponse(created))
}

// getRecurringByID godoc
// @Summary Get a recurring rule
// @Tags recurring
// @Produce  json
// @Param   recurringID path string true "Recurring rule ID"
// @Success 200 {object} dto.RecurringResponse
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to retrieve rule"
// @Security BearerAuth
// @Router /recurring/{recurringID} [get]
func (h *recurringHandler) getRecurringByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("recurringID")

	rule, err := h.recurringService.GetRecurringByID(c.Request.Context(), recurringID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recurring rule not found"})
		} else {
			logger.Error("Failed to get recurring rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recurring rule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringResponse(rule))
}

// updateRecurring godoc
// @Summary Update a recurring rule
// @Description Updating a rule never rewrites months already posted
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   recurringID path string true "Recurring rule ID"
// @Param   rule body dto.UpdateRecurringRequest true "Fields to update"
// @Success 200 {object} dto.RecurringResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to update rule"
// @Security BearerAuth
// @Router /recurring/{recurringID} [put]
func (h *recurringHandler) updateRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("recurringID")

	var req dto.UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRecurring", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.recurringService.UpdateRecurring(c.Request.Context(), recurringID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update recurring rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recurring rule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringResponse(updated))
}

// deactivateRecurring godoc
// @Summary Deactivate a recurring rule
// @Description Stops the rule from producing further postings; history is kept
// @Tags recurring
// @Produce  json
// @Param   recurringID path string true "Recurring rule ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to deactivate rule"
// @Security BearerAuth
// @Router /recurring/{recurringID} [delete]
func (h *recurringHandler) deactivateRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("recurringID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurringService.DeactivateRecurring(c.Request.Context(), recurringID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recurring rule not found"})
		} else {
			logger.Error("Failed to deactivate recurring rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate recurring rule"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// postUpToMonth godoc
// @Summary Run the catch-up posting scheduler
// @Description Materializes every unposted (rule, month) pair for the property up to the target month; safe to re-run
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   run body object true "Run payload {propertyID: string, targetMonth?: YYYY-MM}"
// @Success 200 {object} dto.PostingSummaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Posting run failed"
// @Security BearerAuth
// @Router /postings [post]
func (h *recurringHandler) postUpToMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req struct {
		PropertyID  string  `json:"propertyID" binding:"required"`
		TargetMonth *string `json:"targetMonth" binding:"omitempty,month"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for posting run", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var target *domain.Month
	if req.TargetMonth != nil {
		m, err := domain.ParseMonth(*req.TargetMonth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid targetMonth, want YYYY-MM"})
			return
		}
		target = &m
	}

	summary, err := h.postingService.PostUpToMonth(c.Request.Context(), req.PropertyID, target, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Posting run failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Posting run failed"})
		}
		return
	}

	logger.Info("Posting run complete",
		slog.String("property_id", req.PropertyID),
		slog.Int("posted", summary.PostedCount),
		slog.Int("skipped", summary.SkippedCount))
	c.JSON(http.StatusOK, dto.ToPostingSummaryResponse(summary))
}
