package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	repo "github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
)

const languagesCacheKey = "languages:all"

// LanguageService manages the language catalog. Reads go through a Redis
// cache that every write invalidates.
type LanguageService struct {
	Repo     repo.LanguageRepository
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

type LanguageInput struct {
	Code   string
	Name   string
	Script *string
}

func NewLanguageService(r repo.LanguageRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *LanguageService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LanguageService{Repo: r, Redis: rdb, CacheTTL: ttl, Logger: discardIfNil(logger)}
}

func (s *LanguageService) List(ctx context.Context) ([]entity.Language, error) {
	return helpers.RedisCached(ctx, s.Redis, languagesCacheKey, s.CacheTTL, s.Repo.List, func(err error) {
		s.Logger.WithError(err).Warn("language cache unavailable")
	})
}

func (s *LanguageService) Get(ctx context.Context, id int) (*entity.Language, error) {
	l, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("language", id)
	}
	return l, err
}

func (s *LanguageService) Create(ctx context.Context, in LanguageInput) (*entity.Language, error) {
	l := &entity.Language{}
	if err := applyLanguageInput(l, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, l); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrLanguageCodeTaken
		}
		return nil, err
	}
	s.invalidate(ctx)
	return l, nil
}

func (s *LanguageService) Update(ctx context.Context, id int, in LanguageInput) (*entity.Language, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyLanguageInput(l, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, l); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, notFound("language", id)
		case errors.Is(err, repo.ErrConflict):
			return nil, ErrLanguageCodeTaken
		}
		return nil, err
	}
	s.invalidate(ctx)
	return l, nil
}

func (s *LanguageService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return notFound("language", id)
		case errors.Is(err, repo.ErrInUse):
			return ErrLanguageInUse
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func applyLanguageInput(l *entity.Language, in LanguageInput) error {
	code := strings.ToLower(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return ErrLanguageBlank
	}
	l.Code, l.Name = code, name
	l.Script = nil
	if in.Script != nil {
		if sc := strings.TrimSpace(*in.Script); sc != "" {
			l.Script = &sc
		}
	}
	return nil
}

func (s *LanguageService) invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, languagesCacheKey); err != nil {
		s.Logger.WithError(err).Warn("language cache invalidation failed")
	}
}
