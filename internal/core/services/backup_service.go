package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
)

// backupService stores opaque client snapshots. The server never inspects
// the payload.
type backupService struct {
	BaseService
	backupRepo portsrepo.BackupRepository
	now        func() time.Time
}

// NewBackupService creates the backup service. now is injectable for tests;
// pass nil for the wall clock.
func NewBackupService(backupRepo portsrepo.BackupRepository, now func() time.Time) portssvc.BackupSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &backupService{backupRepo: backupRepo, now: now}
}

var _ portssvc.BackupSvcFacade = (*backupService)(nil)

func (s *backupService) CreateBackup(ctx context.Context, userID string, req dto.CreateBackupRequest) (*domain.Backup, error) {
	timestamp := dto.ParseWireDate(req.Timestamp)
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	backup := domain.Backup{
		BackupID:    uuid.NewString(),
		UserID:      userID,
		IsAutomatic: req.IsAutomatic,
		Timestamp:   timestamp,
		Payload:     []byte(req.Data),
		CreatedAt:   s.now(),
	}
	if err := s.backupRepo.SaveBackup(ctx, backup); err != nil {
		s.LogError(ctx, err, "Failed to save backup")
		return nil, fmt.Errorf("failed to save backup: %w", err)
	}
	s.LogInfo(ctx, "Backup stored",
		slog.String("backup_id", backup.BackupID),
		slog.Bool("automatic", backup.IsAutomatic),
		slog.Int("bytes", len(backup.Payload)))
	return &backup, nil
}

func (s *backupService) LatestBackup(ctx context.Context, userID string) (*domain.Backup, error) {
	backup, err := s.backupRepo.FindLatestBackup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return backup, nil
}
