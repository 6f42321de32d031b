package repository

import (
	"context"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
)

// LanguageRepository defines catalog persistence.
type LanguageRepository interface {
	List(ctx context.Context) ([]entity.Language, error)
	GetByID(ctx context.Context, id int) (*entity.Language, error)
	GetByCode(ctx context.Context, code string) (*entity.Language, error)
	Create(ctx context.Context, l *entity.Language) error
	Update(ctx context.Context, l *entity.Language) error
	Delete(ctx context.Context, id int) error
}
