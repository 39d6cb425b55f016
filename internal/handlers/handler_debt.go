package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// DebtHandler handles debt CRUD, payments and transactions.
type DebtHandler struct {
	debtService portssvc.DebtSvcFacade
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService portssvc.DebtSvcFacade) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// ListDebts godoc
// @Summary List the user's debts
// @Tags debts
// @Produce json
// @Success 200 {array} dto.DebtResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [get]
func (h *DebtHandler) ListDebts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	debts, err := h.debtService.ListDebts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListDebtResponse(debts))
}

// CreateDebt godoc
// @Summary Add a debt
// @Description Creates a debt and generates its monthly installment schedule.
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	debt, err := h.debtService.CreateDebt(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// UpdateDebt godoc
// @Summary Update a debt
// @Description Rewrites the debt's fields and regenerates its still-pending installments.
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.UpdateDebtRequest true "Updated debt"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/update [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	debt, err := h.debtService.UpdateDebt(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// DeleteDebt godoc
// @Summary Delete a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.DeleteDebtRequest true "Debt to delete"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/delete-debt [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.DeleteDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.debtService.DeleteDebt(c.Request.Context(), userID, req.DebtID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Debt deleted"})
}

// RecordPayment godoc
// @Summary Mark a scheduled installment paid
// @Description Marks the installment at paymentIndex paid and updates the debt totals.
// @Tags debts
// @Accept json
// @Produce json
// @Param payment body dto.PayRequest true "Installment to pay"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/payment [post]
func (h *DebtHandler) RecordPayment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	debt, err := h.debtService.RecordPayment(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// SaveTransaction godoc
// @Summary Record a transaction against a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param transaction body dto.SaveTransactionRequest true "Transaction details"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/transactions [post]
func (h *DebtHandler) SaveTransaction(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.SaveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	debt, err := h.debtService.SaveTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}
