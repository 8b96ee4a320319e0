package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mixfeed/mixfeed/internal/domain/repository"
)

// Store is the Postgres-backed Entity Store adapter. Every mutation is a
// single statement or a single transaction, so a cancelled request never
// leaves a half-applied relationship behind. Referential cleanup on user and
// playlist deletion is delegated to ON DELETE CASCADE in the schema.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ repository.Store = (*Store)(nil)
