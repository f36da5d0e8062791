package leave

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// InTx runs fn inside a single database transaction; the txStore it hands
// out routes every statement through that transaction so the
// read-modify-write sequences in submit, approve, and cancel are atomic.
func (s *Store) InTx(ctx context.Context, fn func(tx TxAPI) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(&txStore{q: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txStore struct {
	q pgx.Tx
}

// LockUser serializes all submissions by the same user for the duration
// of the transaction, so the overlap check and the insert it guards form
// one unit against racing submissions.
func (t *txStore) LockUser(ctx context.Context, userID string) error {
	_, err := t.q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", userID)
	return err
}
