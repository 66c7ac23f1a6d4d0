package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hireloop/hireloop/internal/domain/job"
)

var _ job.Repo = (*JobRepo)(nil)

type JobRepo struct{ db *DB }

func NewJobRepo(db *DB) *JobRepo { return &JobRepo{db: db} }

const (
	qJobInsert = `
INSERT INTO jobs (title, description, company, location, salary_range, created_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at;`

	qJobByID = `
SELECT id, title, description, company, location, salary_range, created_by, created_at
FROM jobs
WHERE id = $1;`

	qJobList = `
SELECT id, title, description, company, location, salary_range, created_by, created_at
FROM jobs
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR company ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
ORDER BY id DESC
OFFSET $2 LIMIT $3;`

	qJobCount = `
SELECT count(*)
FROM jobs
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR company ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%');`

	qJobUpdate = `
UPDATE jobs
SET title = $2, description = $3, company = $4, location = $5, salary_range = $6
WHERE id = $1;`

	qJobDelete = `DELETE FROM jobs WHERE id = $1;`
)

func (r *JobRepo) Create(ctx context.Context, j *job.Job) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qJobInsert,
		j.Title, j.Description, j.Company, j.Location, j.SalaryRange, j.CreatedBy).
		Scan(&j.ID, &j.CreatedAt); err != nil {
		return fmt.Errorf("job insert: %w", err)
	}
	return nil
}

func (r *JobRepo) GetByID(ctx context.Context, id int64) (*job.Job, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var j job.Job
	if err := scanJob(r.db.execQueryer(ctx).QueryRow(ctx, qJobByID, id), &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepo) List(ctx context.Context, f job.Filter) ([]*job.Job, int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)

	var total int64
	if err := eq.QueryRow(ctx, qJobCount, f.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := eq.Query(ctx, qJobList, f.Search, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []*job.Job
	for rows.Next() {
		var j job.Job
		if err := scanJob(rows, &j); err != nil {
			return nil, 0, err
		}
		out = append(out, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return out, total, nil
}

func (r *JobRepo) Update(ctx context.Context, j *job.Job) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.execQueryer(ctx).Exec(ctx, qJobUpdate,
		j.ID, j.Title, j.Description, j.Company, j.Location, j.SalaryRange)
	if err != nil {
		return fmt.Errorf("job update: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.execQueryer(ctx).Exec(ctx, qJobDelete, id)
	if err != nil {
		return fmt.Errorf("job delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row, out *job.Job) error {
	if err := row.Scan(&out.ID, &out.Title, &out.Description, &out.Company,
		&out.Location, &out.SalaryRange, &out.CreatedBy, &out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan job: %w", err)
	}
	return nil
}
