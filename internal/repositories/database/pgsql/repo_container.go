package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres-backed repositories.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Account:        newPgxAccountRepository(pool),
		SupportRequest: newPgxSupportRequestRepository(pool),
	}
}
