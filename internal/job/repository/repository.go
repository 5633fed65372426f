package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/jobboard/internal/common/db"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/job/domain"
	"github.com/AlibekovAA/jobboard/internal/search"
)

type Repository interface {
	Create(ctx context.Context, job domain.Job) error
	FindByID(ctx context.Context, id string) (domain.JobView, error)
	List(ctx context.Context, criteria search.Criteria, opts domain.ListOptions) ([]domain.JobView, error)
	ListByPoster(ctx context.Context, posterID string) ([]domain.JobView, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const (
	selectJobView = `SELECT j.id, j.title, j.company, j.location, j.type, j.description, j.salary, j.posted_at, j.posted_by, u.name`
	countColumn   = `, (SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)`
	fromJobs      = ` FROM jobs j JOIN users u ON u.id = j.posted_by`
	orderNewest   = ` ORDER BY j.posted_at DESC, j.id DESC`
)

func (r *PgRepository) Create(ctx context.Context, job domain.Job) error {
	start := time.Now()

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO jobs (id, title, company, location, type, description, salary, posted_at, posted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		string(job.Type),
		job.Description,
		job.Salary,
		job.PostedAt,
		job.PostedBy,
	)
	return db.HandleExecError(err, "create job", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.JobView, error) {
	start := time.Now()

	row := r.pool.QueryRow(ctx, selectJobView+fromJobs+` WHERE j.id = $1`, id)

	view, err := scanJobView(row, false)
	if err := db.HandleQueryError(err, commonerrors.ErrJobNotFound, "find job by id", start); err != nil {
		return domain.JobView{}, err
	}

	return view, nil
}

func (r *PgRepository) List(ctx context.Context, criteria search.Criteria, opts domain.ListOptions) ([]domain.JobView, error) {
	start := time.Now()

	var sb strings.Builder
	sb.WriteString(selectJobView)
	if opts.WithApplicationCount {
		sb.WriteString(countColumn)
	}
	sb.WriteString(fromJobs)

	where, args := search.Where(criteria, 1)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(orderNewest)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return r.queryJobViews(ctx, "list jobs", start, opts.WithApplicationCount, sb.String(), args...)
}

func (r *PgRepository) ListByPoster(ctx context.Context, posterID string) ([]domain.JobView, error) {
	start := time.Now()

	query := selectJobView + countColumn + fromJobs + ` WHERE j.posted_by = $1` + orderNewest
	return r.queryJobViews(ctx, "list jobs by poster", start, true, query, posterID)
}

func (r *PgRepository) queryJobViews(ctx context.Context, operation string, start time.Time, withCount bool, query string, args ...any) ([]domain.JobView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}
	defer rows.Close()

	views := make([]domain.JobView, 0)
	for rows.Next() {
		view, err := scanJobView(rows, withCount)
		if err != nil {
			return nil, db.HandleQueryError(err, nil, operation, start)
		}
		views = append(views, view)
	}

	if err := db.HandleQueryError(rows.Err(), nil, operation, start); err != nil {
		return nil, err
	}

	return views, nil
}

func scanJobView(row pgx.Row, withCount bool) (domain.JobView, error) {
	var (
		view    domain.JobView
		jobType string
		count   int
	)

	dest := []any{
		&view.ID,
		&view.Title,
		&view.Company,
		&view.Location,
		&jobType,
		&view.Description,
		&view.Salary,
		&view.PostedAt,
		&view.PostedBy,
		&view.PosterName,
	}
	if withCount {
		dest = append(dest, &count)
	}

	if err := row.Scan(dest...); err != nil {
		return domain.JobView{}, err
	}

	t, err := domain.ParseType(jobType)
	if err != nil {
		return domain.JobView{}, err
	}
	view.Type = t

	if withCount {
		view.ApplicationCount = &count
	}

	return view, nil
}
