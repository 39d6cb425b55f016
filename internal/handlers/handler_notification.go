package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// NotificationHandler serves the derived notification inbox and its
// read/selection mutations.
type NotificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
	userService         portssvc.UserSvcFacade
	reminderService     portssvc.ReminderSvcFacade
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(
	notificationService portssvc.NotificationSvcFacade,
	userService portssvc.UserSvcFacade,
	reminderService portssvc.ReminderSvcFacade,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		userService:         userService,
		reminderService:     reminderService,
	}
}

// GetInbox godoc
// @Summary Get the notification inbox
// @Description Re-derives notifications from the user's debts, merged with stored read/selection state.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.NotificationListResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) GetInbox(c *gin.Context) {
	h.respondWithList(c, h.notificationService.RefreshInbox)
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body dto.NotificationIDRequest true "Notification id"
// @Success 200 {object} dto.NotificationListResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.respondWithIDMutation(c, h.notificationService.MarkRead)
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.NotificationListResponse
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	h.respondWithList(c, h.notificationService.MarkAllRead)
}

// MarkSelectedRead godoc
// @Summary Mark the selected notifications read
// @Description Marks every selected notification read and clears the selection.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.NotificationListResponse
// @Security BearerAuth
// @Router /notifications/read-selected [post]
func (h *NotificationHandler) MarkSelectedRead(c *gin.Context) {
	h.respondWithList(c, h.notificationService.MarkSelectedRead)
}

// ToggleSelect godoc
// @Summary Toggle one notification's selection
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body dto.NotificationIDRequest true "Notification id"
// @Success 200 {object} dto.NotificationListResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/select [post]
func (h *NotificationHandler) ToggleSelect(c *gin.Context) {
	h.respondWithIDMutation(c, h.notificationService.ToggleSelect)
}

// ToggleSelectAll godoc
// @Summary Select or deselect every notification
// @Description Selects all when any notification is unselected, deselects all otherwise.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.NotificationListResponse
// @Security BearerAuth
// @Router /notifications/select-all [post]
func (h *NotificationHandler) ToggleSelectAll(c *gin.Context) {
	h.respondWithList(c, h.notificationService.ToggleSelectAll)
}

// DeleteSelected godoc
// @Summary Delete the selected notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.NotificationListResponse
// @Security BearerAuth
// @Router /notifications/selected [delete]
func (h *NotificationHandler) DeleteSelected(c *gin.Context) {
	h.respondWithList(c, h.notificationService.DeleteSelected)
}

// EmailSummary godoc
// @Summary Email the user their unread payment reminders
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/email-summary [post]
func (h *NotificationHandler) EmailSummary(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if !h.reminderService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Reminder emails are not configured"})
		return
	}
	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	list, err := h.notificationService.RefreshInbox(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.reminderService.SendDueSummary(ctx, user, list); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder summary sent"})
}

func (h *NotificationHandler) respondWithList(c *gin.Context, op func(ctx context.Context, userID string) (domain.NotificationList, error)) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	list, err := op(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToNotificationListResponse(list))
}

func (h *NotificationHandler) respondWithIDMutation(c *gin.Context, op func(ctx context.Context, userID, id string) (domain.NotificationList, error)) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.NotificationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	list, err := op(c.Request.Context(), userID, req.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToNotificationListResponse(list))
}
