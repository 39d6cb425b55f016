package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// BackupHandler stores and serves client data snapshots.
type BackupHandler struct {
	backupService portssvc.BackupSvcFacade
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService portssvc.BackupSvcFacade) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// CreateBackup godoc
// @Summary Upload a backup snapshot
// @Description Stores an opaque snapshot of the client's local data.
// @Tags backup
// @Accept json
// @Produce json
// @Param backup body dto.CreateBackupRequest true "Snapshot"
// @Success 201 {object} dto.BackupResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /backup [post]
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.CreateBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	backup, err := h.backupService.CreateBackup(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBackupResponse(backup))
}

// LatestBackup godoc
// @Summary Get the most recent backup
// @Tags backup
// @Produce json
// @Success 200 {object} dto.BackupResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /backup/latest [get]
func (h *BackupHandler) LatestBackup(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	backup, err := h.backupService.LatestBackup(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBackupResponse(backup))
}
