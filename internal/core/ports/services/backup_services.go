package services

import (
	"context"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// BackupSvcFacade stores and retrieves client data snapshots.
type BackupSvcFacade interface {
	CreateBackup(ctx context.Context, userID string, req dto.CreateBackupRequest) (*domain.Backup, error)
	LatestBackup(ctx context.Context, userID string) (*domain.Backup, error)
}

// ReminderSvcFacade sends payment-reminder emails when SMTP is configured.
type ReminderSvcFacade interface {
	Enabled() bool
	SendDueSummary(ctx context.Context, user *domain.User, list domain.NotificationList) error
}
