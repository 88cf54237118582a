package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentledger/rentledger/internal/apperrors"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/dto"
	"github.com/rentledger/rentledger/internal/middleware"
)

// ledgerHandler handles HTTP requests for annual amounts and loan snapshots.
type ledgerHandler struct {
	annualService portssvc.AnnualAmountSvc
	loanService   portssvc.LoanSnapshotSvc
}

// registerLedgerRoutes registers routes for annual amounts and loan
// snapshots. Listing happens under /properties; mutations live here.
func registerLedgerRoutes(rg *gin.RouterGroup, annualService portssvc.AnnualAmountSvc, loanService portssvc.LoanSnapshotSvc) {
	h := &ledgerHandler{annualService: annualService, loanService: loanService}

	annual := rg.Group("/annual-amounts")
	{
		annual.PUT("", h.upsertAnnualAmount)
		annual.DELETE("/:annualAmountID", h.deleteAnnualAmount)
	}

	loans := rg.Group("/loan-snapshots")
	{
		loans.POST("", h.createLoanSnapshot)
		loans.DELETE("/:snapshotID", h.deleteLoanSnapshot)
	}
}

// upsertAnnualAmount godoc
// @Summary Set an annual amount
// @Description Inserts or replaces one (property, category, year) cell; the sign follows the category's convention
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   amount body dto.UpsertAnnualAmountRequest true "Annual amount"
// @Success 200 {object} dto.AnnualAmountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Property or category not found"
// @Failure 500 {object} map[string]string "Failed to set annual amount"
// @Security BearerAuth
// @Router /annual-amounts [put]
func (h *ledgerHandler) upsertAnnualAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertAnnualAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertAnnualAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	amount, err := h.annualService.UpsertAnnualAmount(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to upsert annual amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set annual amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAnnualAmountResponse(amount))
}

// deleteAnnualAmount godoc
// @Summary Delete an annual amount
// @Tags ledger
// @Produce  json
// @Param   annualAmountID path string true "Annual amount ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Annual amount not found"
// @Failure 500 {object} map[string]string "Failed to delete annual amount"
// @Security BearerAuth
// @Router /annual-amounts/{annualAmountID} [delete]
func (h *ledgerHandler) deleteAnnualAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	annualAmountID := c.Param("annualAmountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.annualService.DeleteAnnualAmount(c.Request.Context(), annualAmountID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Annual amount not found"})
		} else {
			logger.Error("Failed to delete annual amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete annual amount"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// createLoanSnapshot godoc
// @Summary Record a loan balance snapshot
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   snapshot body dto.CreateLoanSnapshotRequest true "Snapshot details"
// @Success 201 {object} dto.LoanSnapshotResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to create snapshot"
// @Security BearerAuth
// @Router /loan-snapshots [post]
func (h *ledgerHandler) createLoanSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoanSnapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.loanService.CreateLoanSnapshot(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create loan snapshot", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create loan snapshot"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanSnapshotResponse(snapshot))
}

// deleteLoanSnapshot godoc
// @Summary Delete a loan snapshot
// @Tags ledger
// @Produce  json
// @Param   snapshotID path string true "Snapshot ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Snapshot not found"
// @Failure 500 {object} map[string]string "Failed to delete snapshot"
// @Security BearerAuth
// @Router /loan-snapshots/{snapshotID} [delete]
func (h *ledgerHandler) deleteLoanSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshotID := c.Param("snapshotID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.loanService.DeleteLoanSnapshot(c.Request.Context(), snapshotID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan snapshot not found"})
		} else {
			logger.Error("Failed to delete loan snapshot", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete loan snapshot"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
