package repository

import (
	"context"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
)

// TranslationLogRepository persists translation logs. All lookups are owner scoped.
type TranslationLogRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.TranslationLog, error)
	GetByIDForUser(ctx context.Context, id int, userID string) (*entity.TranslationLog, error)
	// Create inserts the log and bumps the owner's translations_count atomically.
	Create(ctx context.Context, t *entity.TranslationLog) error
	// DeleteForUser removes the log and decrements the owner's translations_count.
	DeleteForUser(ctx context.Context, id int, userID string) error
}

// FeedbackRepository persists feedback on translations.
type FeedbackRepository interface {
	Create(ctx context.Context, f *entity.Feedback) error
	ListByUser(ctx context.Context, userID string) ([]entity.Feedback, error)
	DeleteForUser(ctx context.Context, id int, userID string) error
}

// FavoriteRepository persists favorites.
type FavoriteRepository interface {
	Create(ctx context.Context, f *entity.Favorite) error
	ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error)
	DeleteForUser(ctx context.Context, id int, userID string) error
}
