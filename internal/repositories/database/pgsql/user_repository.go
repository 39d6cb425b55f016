package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
)

// PgxUserRepository persists users in PostgreSQL.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, email, password_hash, auth_type, refresh_token_hash, refresh_token_expiry_time, created_at, updated_at`

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, auth_type, refresh_token_hash, refresh_token_expiry_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		nullString(user.Email),
		nullString(user.PasswordHash),
		string(user.AuthType),
		nullString(user.RefreshTokenHash),
		user.RefreshTokenExpiryTime,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	return r.scanUser(r.pool.QueryRow(ctx, query, userID), userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return r.scanUser(r.pool.QueryRow(ctx, query, email), email)
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, auth_type = $5,
		    refresh_token_hash = $6, refresh_token_expiry_time = $7, updated_at = $8
		WHERE user_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		nullString(user.Email),
		nullString(user.PasswordHash),
		string(user.AuthType),
		nullString(user.RefreshTokenHash),
		user.RefreshTokenExpiryTime,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.UserID)
	}
	return nil
}

func (r *PgxUserRepository) scanUser(row pgx.Row, ident string) (*domain.User, error) {
	var user domain.User
	var email, passwordHash, refreshHash sql.NullString
	var authType string
	err := row.Scan(
		&user.UserID,
		&user.Name,
		&email,
		&passwordHash,
		&authType,
		&refreshHash,
		&user.RefreshTokenExpiryTime,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, ident)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", ident, err)
	}
	user.Email = email.String
	user.PasswordHash = passwordHash.String
	user.RefreshTokenHash = refreshHash.String
	user.AuthType = domain.AuthType(authType)
	return &user, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
