package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	repo "github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type FeedbackService struct {
	Feedback repo.FeedbackRepository
	Logs     repo.TranslationLogRepository
	Logger   *logrus.Logger
}

type FeedbackInput struct {
	Rating  *int
	Comment *string
}

func NewFeedbackService(fb repo.FeedbackRepository, logs repo.TranslationLogRepository, logger *logrus.Logger) *FeedbackService {
	return &FeedbackService{Feedback: fb, Logs: logs, Logger: discardIfNil(logger)}
}

// AddFeedback attaches feedback to one of the caller's translations.
func (s *FeedbackService) AddFeedback(ctx context.Context, translationID int, userID string, in FeedbackInput) (*entity.Feedback, error) {
	var comment *string
	if in.Comment != nil {
		if c := strings.TrimSpace(*in.Comment); c != "" {
			comment = &c
		}
	}
	if in.Rating == nil && comment == nil {
		return nil, ErrFeedbackEmpty
	}
	if _, err := s.Logs.GetByIDForUser(ctx, translationID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("translation", translationID)
		}
		return nil, err
	}
	f := &entity.Feedback{
		UserID:           userID,
		TranslationLogID: translationID,
		Rating:           in.Rating,
		Comment:          comment,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Feedback.Create(ctx, f); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("translation", translationID)
		}
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context, userID string) ([]entity.Feedback, error) {
	return s.Feedback.ListByUser(ctx, userID)
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, id int, userID string) error {
	if err := s.Feedback.DeleteForUser(ctx, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("feedback", id)
		}
		return err
	}
	return nil
}
