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

// propertyHandler handles HTTP requests for properties and their nested
// sub-resources (recurring rules, annual amounts, loan snapshots).
type propertyHandler struct {
	propertyService  portssvc.PropertySvcFacade
	recurringService portssvc.RecurringSvcFacade
	annualService    portssvc.AnnualAmountSvc
	loanService      portssvc.LoanSnapshotSvc
}

// registerPropertyRoutes registers routes related to properties.
func registerPropertyRoutes(
	rg *gin.RouterGroup,
	propertyService portssvc.PropertySvcFacade,
	recurringService portssvc.RecurringSvcFacade,
	annualService portssvc.AnnualAmountSvc,
	loanService portssvc.LoanSnapshotSvc,
) {
	h := &propertyHandler{
		propertyService:  propertyService,
		recurringService: recurringService,
		annualService:    annualService,
		loanService:      loanService,
	}

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("", h.listProperties)
		properties.GET("/:propertyID", h.getPropertyByID)
		properties.PUT("/:propertyID", h.updateProperty)
		properties.PUT("/:propertyID/status", h.setPropertyStatus)
		properties.GET("/:propertyID/recurring", h.listRecurringForProperty)
		properties.GET("/:propertyID/annual-amounts", h.listAnnualAmounts)
		properties.GET("/:propertyID/loan-snapshots", h.listLoanSnapshots)
	}
}

// createProperty godoc
// @Summary Create a new property
// @Description Adds a rental property to the portfolio
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   property body dto.CreatePropertyRequest true "Property details"
// @Success 201 {object} dto.PropertyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create property"
// @Security BearerAuth
// @Router /properties [post]
func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.propertyService.CreateProperty(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		}
		return
	}

	logger.Info("Property created", slog.String("property_id", created.PropertyID))
	c.JSON(http.StatusCreated, dto.ToPropertyResponse(created))
}

// listProperties godoc
// @Summary List properties
// @Description Retrieves properties ordered by label
// @Tags properties
// @Produce  json
// @Param   includeInactive query bool false "Include inactive properties"
// @Success 200 {array} dto.PropertyResponse
// @Failure 500 {object} map[string]string "Failed to list properties"
// @Security BearerAuth
// @Router /properties [get]
func (h *propertyHandler) listProperties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive := c.Query("includeInactive") == "true"

	properties, err := h.propertyService.ListProperties(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list properties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPropertyResponse(properties))
}

// getPropertyByID godoc
// @Summary Get a property
// @Description Retrieves one property by id
// @Tags properties
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Success 200 {object} dto.PropertyResponse
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to retrieve property"
// @Security BearerAuth
// @Router /properties/{propertyID} [get]
func (h *propertyHandler) getPropertyByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")

	property, err := h.propertyService.GetPropertyByID(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			logger.Error("Failed to get property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

// updateProperty godoc
// @Summary Update a property
// @Description Updates a property's details and valuation estimates
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   property body dto.UpdatePropertyRequest true "Fields to update"
// @Success 200 {object} dto.PropertyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to update property"
// @Security BearerAuth
// @Router /properties/{propertyID} [put]
func (h *propertyHandler) updateProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")

	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.propertyService.UpdateProperty(c.Request.Context(), propertyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(updated))
}

// setPropertyStatus godoc
// @Summary Set property status
// @Description Flips a property between ACTIVE and INACTIVE
// @Tags properties
// @Accept  json
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   status body object true "Status payload {status: ACTIVE|INACTIVE}"
// @Success 204 "Status updated"
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to update status"
// @Security BearerAuth
// @Router /properties/{propertyID}/status [put]
func (h *propertyHandler) setPropertyStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")

	var req struct {
		Status domain.PropertyStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.propertyService.SetPropertyStatus(c.Request.Context(), propertyID, req.Status, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			logger.Error("Failed to set property status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listRecurringForProperty godoc
// @Summary List a property's recurring rules
// @Tags properties
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   activeOnly query bool false "Only active rules"
// @Success 200 {array} dto.RecurringResponse
// @Failure 500 {object} map[string]string "Failed to list rules"
// @Security BearerAuth
// @Router /properties/{propertyID}/recurring [get]
func (h *propertyHandler) listRecurringForProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")
	activeOnly := c.Query("activeOnly") == "true"

	rules, err := h.recurringService.ListRecurringByProperty(c.Request.Context(), propertyID, activeOnly)
	if err != nil {
		logger.Error("Failed to list recurring rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recurring rules"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRecurringResponse(rules))
}

// listAnnualAmounts godoc
// @Summary List a property's annual amounts
// @Tags properties
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Success 200 {array} dto.AnnualAmountResponse
// @Failure 500 {object} map[string]string "Failed to list annual amounts"
// @Security BearerAuth
// @Router /properties/{propertyID}/annual-amounts [get]
func (h *propertyHandler) listAnnualAmounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")

	amounts, err := h.annualService.ListAnnualAmounts(c.Request.Context(), propertyID)
	if err != nil {
		logger.Error("Failed to list annual amounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list annual amounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAnnualAmountResponse(amounts))
}

// listLoanSnapshots godoc
// @Summary List a property's loan snapshots
// @Tags properties
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Success 200 {array} dto.LoanSnapshotResponse
// @Failure 500 {object} map[string]string "Failed to list loan snapshots"
// @Security BearerAuth
// @Router /properties/{propertyID}/loan-snapshots [get]
func (h *propertyHandler) listLoanSnapshots(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")

	snapshots, err := h.loanService.ListLoanSnapshots(c.Request.Context(), propertyID)
	if err != nil {
		logger.Error("Failed to list loan snapshots", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loan snapshots"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoanSnapshotResponse(snapshots))
}
