package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type TranslationLogRepository struct {
	pool *pgxpool.Pool
}

func NewTranslationLogRepository(pool *pgxpool.Pool) *TranslationLogRepository {
	return &TranslationLogRepository{pool: pool}
}

func (r *TranslationLogRepository) ListByUser(ctx context.Context, userID string) ([]entity.TranslationLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT translation_log_id, user_id::text, source_language_id, target_language_id,
			source_text, target_text, created_at
		FROM translation_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, translation_log_id DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	logs := make([]entity.TranslationLog, 0, 16)
	for rows.Next() {
		var t entity.TranslationLog
		if err := rows.Scan(&t.ID, &t.UserID, &t.SourceLanguageID, &t.TargetLanguageID,
			&t.SourceText, &t.TargetText, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Feedbacks = []entity.Feedback{}
		logs = append(logs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return logs, nil
	}

	ids := make([]int, 0, len(logs))
	byID := make(map[int]int, len(logs))
	for i, t := range logs {
		ids = append(ids, t.ID)
		byID[t.ID] = i
	}
	feedback, err := r.feedbackFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, f := range feedback {
		if i, ok := byID[f.TranslationLogID]; ok {
			logs[i].Feedbacks = append(logs[i].Feedbacks, f)
		}
	}
	return logs, nil
}

func (r *TranslationLogRepository) GetByIDForUser(ctx context.Context, id int, userID string) (*entity.TranslationLog, error) {
	t := &entity.TranslationLog{}
	err := r.pool.QueryRow(ctx, `
		SELECT translation_log_id, user_id::text, source_language_id, target_language_id,
			source_text, target_text, created_at
		FROM translation_logs
		WHERE translation_log_id = $1 AND user_id = $2
	`, id, userID).Scan(&t.ID, &t.UserID, &t.SourceLanguageID, &t.TargetLanguageID,
		&t.SourceText, &t.TargetText, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	feedback, err := r.feedbackFor(ctx, []int{t.ID})
	if err != nil {
		return nil, err
	}
	t.Feedbacks = feedback
	return t, nil
}

func (r *TranslationLogRepository) feedbackFor(ctx context.Context, ids []int) ([]entity.Feedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT feedback_id, user_id::text, translation_log_id, rating, comment, created_at
		FROM feedback
		WHERE translation_log_id = ANY($1)
		ORDER BY created_at, feedback_id
	`, ids)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Feedback, 0, len(ids))
	for rows.Next() {
		var f entity.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.TranslationLogID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *TranslationLogRepository) Create(ctx context.Context, t *entity.TranslationLog) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO translation_logs (user_id, source_language_id, target_language_id, source_text, target_text, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING translation_log_id
		`, t.UserID, t.SourceLanguageID, t.TargetLanguageID, t.SourceText, t.TargetText, t.CreatedAt).Scan(&t.ID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE users SET translations_count = translations_count + 1 WHERE id = $1`, t.UserID)
		return err
	})
	if err != nil {
		return mapInsertError(err)
	}
	if t.Feedbacks == nil {
		t.Feedbacks = []entity.Feedback{}
	}
	return nil
}

func (r *TranslationLogRepository) DeleteForUser(ctx context.Context, id int, userID string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var feedbackCount int
		if err := tx.QueryRow(ctx, `
			SELECT count(*) FROM feedback WHERE translation_log_id = $1 AND user_id = $2
		`, id, userID).Scan(&feedbackCount); err != nil {
			return err
		}
		res, err := tx.Exec(ctx, `DELETE FROM translation_logs WHERE translation_log_id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
			UPDATE users
			SET translations_count = GREATEST(translations_count - 1, 0),
				feedback_count = GREATEST(feedback_count - $2, 0)
			WHERE id = $1
		`, userID, feedbackCount)
		return err
	})
	return mapError(err)
}

var _ repository.TranslationLogRepository = (*TranslationLogRepository)(nil)
