package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	userService portssvc.UserSvcFacade
	debtService portssvc.DebtSvcFacade
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService portssvc.UserSvcFacade, debtService portssvc.DebtSvcFacade) *UserHandler {
	return &UserHandler{userService: userService, debtService: debtService}
}

// GetUser godoc
// @Summary Get the current user with their debts
// @Description Returns the authenticated user's profile and full debts list.
// @Tags user
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /user [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	debts, err := h.debtService.ListDebts(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user, debts))
}
