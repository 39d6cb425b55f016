package dto

import (
	"encoding/json"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
)

// CreateBackupRequest uploads one snapshot of the client's local data. The
// payload is stored opaquely.
type CreateBackupRequest struct {
	IsAutomatic bool            `json:"isAutomatic"`
	Timestamp   string          `json:"timestamp" binding:"required"`
	Data        json.RawMessage `json:"data" binding:"required"`
}

// BackupResponse is a stored snapshot on the wire.
type BackupResponse struct {
	ID          string          `json:"_id"`
	IsAutomatic bool            `json:"isAutomatic"`
	Timestamp   time.Time       `json:"timestamp"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToBackupResponse converts a domain backup to its wire form.
func ToBackupResponse(b *domain.Backup) BackupResponse {
	return BackupResponse{
		ID:          b.BackupID,
		IsAutomatic: b.IsAutomatic,
		Timestamp:   b.Timestamp,
		Data:        json.RawMessage(b.Payload),
		CreatedAt:   b.CreatedAt,
	}
}
