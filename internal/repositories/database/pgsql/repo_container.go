// Package pgsql implements the repository ports on PostgreSQL via pgx.
package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
)

// RepositoryContainer bundles the PostgreSQL-backed repositories.
type RepositoryContainer struct {
	User   portsrepo.UserRepository
	Debt   portsrepo.DebtRepository
	Backup portsrepo.BackupRepository
}

// NewRepositoryContainer creates all PostgreSQL repositories over one pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		User:   newPgxUserRepository(pool),
		Debt:   newPgxDebtRepository(pool),
		Backup: newPgxBackupRepository(pool),
	}
}
