package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEntry) error {
	var md []byte
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		md = b
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
	`, nullIfEmpty(e.UserID), nullIfEmpty(e.Email), e.Action, nullIfEmpty(e.IP), nullIfEmpty(e.UserAgent), md)
	return mapError(err)
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
