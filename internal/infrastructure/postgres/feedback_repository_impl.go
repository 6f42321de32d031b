package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *entity.Feedback) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO feedback (user_id, translation_log_id, rating, comment)
			VALUES ($1, $2, $3, $4)
			RETURNING feedback_id, created_at
		`, f.UserID, f.TranslationLogID, f.Rating, f.Comment).Scan(&f.ID, &f.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE users SET feedback_count = feedback_count + 1 WHERE id = $1`, f.UserID)
		return err
	})
	return mapInsertError(err)
}

func (r *FeedbackRepository) ListByUser(ctx context.Context, userID string) ([]entity.Feedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT feedback_id, user_id::text, translation_log_id, rating, comment, created_at
		FROM feedback
		WHERE user_id = $1
		ORDER BY created_at DESC, feedback_id DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Feedback, 0, 16)
	for rows.Next() {
		var f entity.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.TranslationLogID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FeedbackRepository) DeleteForUser(ctx context.Context, id int, userID string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `DELETE FROM feedback WHERE feedback_id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		_, err = tx.Exec(ctx, `UPDATE users SET feedback_count = GREATEST(feedback_count - 1, 0) WHERE id = $1`, userID)
		return err
	})
	return mapError(err)
}

var _ repository.FeedbackRepository = (*FeedbackRepository)(nil)
