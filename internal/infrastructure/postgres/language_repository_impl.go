package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type LanguageRepository struct {
	pool *pgxpool.Pool
}

func NewLanguageRepository(pool *pgxpool.Pool) *LanguageRepository {
	return &LanguageRepository{pool: pool}
}

func (r *LanguageRepository) List(ctx context.Context) ([]entity.Language, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT language_id, language_code, language_name, script
		FROM languages
		ORDER BY language_name, language_id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Language, 0, 16)
	for rows.Next() {
		var l entity.Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.Script); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LanguageRepository) GetByID(ctx context.Context, id int) (*entity.Language, error) {
	l := &entity.Language{}
	err := r.pool.QueryRow(ctx, `
		SELECT language_id, language_code, language_name, script
		FROM languages WHERE language_id = $1
	`, id).Scan(&l.ID, &l.Code, &l.Name, &l.Script)
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *LanguageRepository) GetByCode(ctx context.Context, code string) (*entity.Language, error) {
	l := &entity.Language{}
	err := r.pool.QueryRow(ctx, `
		SELECT language_id, language_code, language_name, script
		FROM languages WHERE lower(language_code) = lower($1)
	`, code).Scan(&l.ID, &l.Code, &l.Name, &l.Script)
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *LanguageRepository) Create(ctx context.Context, l *entity.Language) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO languages (language_code, language_name, script)
		VALUES ($1, $2, $3)
		RETURNING language_id
	`, l.Code, l.Name, l.Script).Scan(&l.ID)
	return mapError(err)
}

func (r *LanguageRepository) Update(ctx context.Context, l *entity.Language) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE languages
		SET language_code = $1, language_name = $2, script = $3
		WHERE language_id = $4
	`, l.Code, l.Name, l.Script, l.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LanguageRepository) Delete(ctx context.Context, id int) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM languages WHERE language_id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.LanguageRepository = (*LanguageRepository)(nil)
