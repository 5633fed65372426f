package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/jobboard/internal/application/domain"
	"github.com/AlibekovAA/jobboard/internal/common/db"
	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
)

type Repository interface {
	Exists(ctx context.Context, jobID, userID string) (bool, error)
	// Create stores app unless the user already applied for the job, in which
	// case it reports false without error.
	Create(ctx context.Context, app domain.Application) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]domain.ApplicationView, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	start := time.Now()

	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`,
		jobID,
		userID,
	).Scan(&exists)
	if err := db.HandleQueryError(err, nil, "check application exists", start); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *PgRepository) Create(ctx context.Context, app domain.Application) (bool, error) {
	start := time.Now()

	var id string
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO applications (id, job_id, user_id, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (job_id, user_id) DO NOTHING
		 RETURNING id`,
		app.ID,
		app.JobID,
		app.UserID,
		string(app.Status),
		app.AppliedAt,
	).Scan(&id)

	switch {
	case err == nil:
		db.MeasureQueryDuration("create application", start)
		return true, nil
	case errors.Is(err, pgx.ErrNoRows), db.IsUniqueViolation(err):
		db.MeasureQueryDuration("create application", start)
		return false, nil
	default:
		return false, db.HandleExecError(err, "create application", start)
	}
}

func (r *PgRepository) ListForUser(ctx context.Context, userID string) ([]domain.ApplicationView, error) {
	start := time.Now()

	rows, err := r.pool.Query(
		ctx,
		`SELECT a.id, a.job_id, a.user_id, a.status, a.applied_at,
		        j.title, j.company, j.location, j.type, j.posted_at, u.name
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN users u ON u.id = j.posted_by
		 WHERE a.user_id = $1
		 ORDER BY a.applied_at DESC, a.id DESC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list applications for user", start)
	}
	defer rows.Close()

	views := make([]domain.ApplicationView, 0)
	for rows.Next() {
		var (
			v       domain.ApplicationView
			status  string
			jobType string
		)
		if err := rows.Scan(
			&v.ID, &v.JobID, &v.UserID, &status, &v.AppliedAt,
			&v.Job.Title, &v.Job.Company, &v.Job.Location, &jobType, &v.Job.PostedAt, &v.PosterName,
		); err != nil {
			return nil, db.HandleQueryError(err, nil, "list applications for user", start)
		}

		if v.Status, err = domain.ParseStatus(status); err != nil {
			return nil, db.HandleQueryError(err, nil, "list applications for user", start)
		}
		if v.Job.Type, err = jobdomain.ParseType(jobType); err != nil {
			return nil, db.HandleQueryError(err, nil, "list applications for user", start)
		}
		v.Job.ID = v.JobID
		views = append(views, v)
	}

	if err := db.HandleQueryError(rows.Err(), nil, "list applications for user", start); err != nil {
		return nil, err
	}

	return views, nil
}
