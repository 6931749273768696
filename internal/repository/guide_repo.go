package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecer es el subconjunto de pgxpool.Pool que usa el repositorio.
type pgExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GuideFlagRepository guarda flags booleanos por clave. Hoy existe uno solo: la guía del editor.
type GuideFlagRepository interface {
	IsSet(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string) error
}

type PgGuideFlagRepository struct {
	pool pgExecer
}

func NewPgGuideFlagRepository(pool pgExecer) *PgGuideFlagRepository {
	return &PgGuideFlagRepository{pool: pool}
}

func (r *PgGuideFlagRepository) IsSet(ctx context.Context, key string) (bool, error) {
	const query = `
		SELECT seen
		FROM guide_flags
		WHERE key = $1
	`
	var seen bool
	err := r.pool.QueryRow(ctx, query, key).Scan(&seen)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return seen, nil
}

func (r *PgGuideFlagRepository) Set(ctx context.Context, key string) error {
	const query = `
		INSERT INTO guide_flags (key, seen, updated_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (key) DO UPDATE SET seen = TRUE, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, key)
	return err
}
