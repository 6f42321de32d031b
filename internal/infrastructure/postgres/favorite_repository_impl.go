package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

func (r *FavoriteRepository) Create(ctx context.Context, f *entity.Favorite) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO favorites (user_id, translation_log_id)
		VALUES ($1, $2)
		RETURNING favorite_id, created_at
	`, f.UserID, f.TranslationLogID).Scan(&f.ID, &f.CreatedAt)
	return mapInsertError(err)
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.favorite_id, f.user_id::text, f.translation_log_id, f.created_at,
			t.source_language_id, t.target_language_id, t.source_text, t.target_text, t.created_at
		FROM favorites f
		JOIN translation_logs t ON t.translation_log_id = f.translation_log_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.favorite_id DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Favorite, 0, 16)
	for rows.Next() {
		var f entity.Favorite
		t := &entity.TranslationLog{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.TranslationLogID, &f.CreatedAt,
			&t.SourceLanguageID, &t.TargetLanguageID, &t.SourceText, &t.TargetText, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ID = f.TranslationLogID
		t.UserID = f.UserID
		f.Translation = t
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FavoriteRepository) DeleteForUser(ctx context.Context, id int, userID string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE favorite_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
