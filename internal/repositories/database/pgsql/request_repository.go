package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
)

type PgxSupportRequestRepository struct {
	BaseRepository
}

func newPgxSupportRequestRepository(pool *pgxpool.Pool) portsrepo.SupportRequestRepository {
	return &PgxSupportRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SupportRequestRepository = (*PgxSupportRequestRepository)(nil)

func (r *PgxSupportRequestRepository) SaveRequest(ctx context.Context, req domain.SupportRequest) error {
	query := `
		INSERT INTO support_requests (request_id, username, email, title, concern, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		req.RequestID,
		req.Username,
		req.Email,
		req.Title,
		req.Concern,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save support request "+req.RequestID, err)
	}
	return nil
}

func (r *PgxSupportRequestRepository) ListRequestsByUsername(ctx context.Context, username string) ([]domain.SupportRequest, error) {
	query := `
		SELECT request_id, username, email, title, concern, status, created_at
		FROM support_requests
		WHERE username = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, username)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list support requests for "+username, err)
	}
	defer rows.Close()

	var requests []domain.SupportRequest
	for rows.Next() {
		var req domain.SupportRequest
		if err := rows.Scan(&req.RequestID, &req.Username, &req.Email, &req.Title, &req.Concern, &req.Status, &req.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan support request row", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate support request rows", err)
	}
	return requests, nil
}
