package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	repo "github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type FavoriteService struct {
	Favorites repo.FavoriteRepository
	Logs      repo.TranslationLogRepository
	Logger    *logrus.Logger
}

func NewFavoriteService(favs repo.FavoriteRepository, logs repo.TranslationLogRepository, logger *logrus.Logger) *FavoriteService {
	return &FavoriteService{Favorites: favs, Logs: logs, Logger: discardIfNil(logger)}
}

func (s *FavoriteService) AddFavorite(ctx context.Context, translationID int, userID string) (*entity.Favorite, error) {
	t, err := s.Logs.GetByIDForUser(ctx, translationID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("translation", translationID)
		}
		return nil, err
	}
	f := &entity.Favorite{UserID: userID, TranslationLogID: translationID, CreatedAt: time.Now().UTC()}
	if err := s.Favorites.Create(ctx, f); err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return nil, ErrAlreadyFavorited
		case errors.Is(err, repo.ErrNotFound):
			return nil, notFound("translation", translationID)
		}
		return nil, err
	}
	f.Translation = t
	return f, nil
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]entity.Favorite, error) {
	return s.Favorites.ListByUser(ctx, userID)
}

func (s *FavoriteService) DeleteFavorite(ctx context.Context, id int, userID string) error {
	if err := s.Favorites.DeleteForUser(ctx, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("favorite", id)
		}
		return err
	}
	return nil
}
