package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mindnest/wellness/internal/domain/entity"
)

// UserRepository stores accounts. Lookups of unknown users return errors.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// UpdateAvatar sets the stored avatar path and its public URL; empty values clear it
	UpdateAvatar(ctx context.Context, id uuid.UUID, path, url string) error
}

// RefreshTokenRepository stores hashed refresh tokens
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	// DeleteExpired removes expired tokens and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
