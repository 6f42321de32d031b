package repository

import (
	"context"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User, roles ...string) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetEmailConfirmed(ctx context.Context, id string) error
}

// AuditRepository persists identity audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e entity.AuditEntry) error
}
