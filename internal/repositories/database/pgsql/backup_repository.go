package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
)

// PgxBackupRepository persists backup snapshots in PostgreSQL.
type PgxBackupRepository struct {
	pool *pgxpool.Pool
}

func newPgxBackupRepository(pool *pgxpool.Pool) portsrepo.BackupRepository {
	return &PgxBackupRepository{pool: pool}
}

var _ portsrepo.BackupRepository = (*PgxBackupRepository)(nil)

func (r *PgxBackupRepository) SaveBackup(ctx context.Context, backup domain.Backup) error {
	query := `
		INSERT INTO backups (backup_id, user_id, is_automatic, snapshot_time, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		backup.BackupID,
		backup.UserID,
		backup.IsAutomatic,
		backup.Timestamp,
		backup.Payload,
		backup.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save backup %s: %w", backup.BackupID, err)
	}
	return nil
}

func (r *PgxBackupRepository) FindLatestBackup(ctx context.Context, userID string) (*domain.Backup, error) {
	query := `
		SELECT backup_id, user_id, is_automatic, snapshot_time, payload, created_at
		FROM backups
		WHERE user_id = $1
		ORDER BY snapshot_time DESC
		LIMIT 1;
	`
	var backup domain.Backup
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&backup.BackupID,
		&backup.UserID,
		&backup.IsAutomatic,
		&backup.Timestamp,
		&backup.Payload,
		&backup.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no backups for user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find latest backup for user %s: %w", userID, err)
	}
	return &backup, nil
}
