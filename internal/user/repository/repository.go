package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/jobboard/internal/common/db"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/user/domain"
)

type Repository interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Upsert creates the user on first sight. Later calls only refresh the
// provider-owned profile fields, and skip the write when nothing changed.
// A conflicting row committed by a concurrent first sync is invisible to the
// statement snapshot, so that case is read back separately.
func (r *PgRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`WITH upserted AS (
			INSERT INTO users (id, name, email, image, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, email = EXCLUDED.email, image = EXCLUDED.image, updated_at = EXCLUDED.updated_at
			WHERE users.name IS DISTINCT FROM EXCLUDED.name
			   OR users.email IS DISTINCT FROM EXCLUDED.email
			   OR users.image IS DISTINCT FROM EXCLUDED.image
			RETURNING id, name, email, image, created_at, updated_at
		)
		SELECT id, name, email, image, created_at, updated_at FROM upserted
		UNION ALL
		SELECT id, name, email, image, created_at, updated_at FROM users
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM upserted)`,
		string(user.ID),
		user.Name,
		user.Email,
		user.Image,
		user.UpdatedAt,
	)

	var saved domain.User
	err := row.Scan(&saved.ID, &saved.Name, &saved.Email, &saved.Image, &saved.CreatedAt, &saved.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		db.MeasureQueryDuration("upsert user", start)
		return r.FindByID(ctx, user.ID)
	}
	if err := db.HandleQueryError(err, nil, "upsert user", start); err != nil {
		return domain.User{}, err
	}

	return saved, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, email, image, created_at, updated_at FROM users WHERE id = $1`,
		string(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Image, &user.CreatedAt, &user.UpdatedAt)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}
