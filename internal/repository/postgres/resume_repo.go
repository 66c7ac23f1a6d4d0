package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hireloop/hireloop/internal/domain/resume"
)

var _ resume.Repo = (*ResumeRepo)(nil)

type ResumeRepo struct{ db *DB }

func NewResumeRepo(db *DB) *ResumeRepo { return &ResumeRepo{db: db} }

const (
	qResumeInsert = `
INSERT INTO resumes (user_id, filename, storage_key, size_bytes)
VALUES ($1, $2, $3, $4)
RETURNING id, uploaded_at;`

	qResumeByID = `
SELECT id, user_id, filename, storage_key, size_bytes, uploaded_at
FROM resumes
WHERE id = $1;`

	qResumeByUser = `
SELECT id, user_id, filename, storage_key, size_bytes, uploaded_at
FROM resumes
WHERE user_id = $1
ORDER BY id DESC;`
)

func (r *ResumeRepo) Create(ctx context.Context, res *resume.Resume) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qResumeInsert, res.UserID, res.FileName, res.StorageKey, res.Size).
		Scan(&res.ID, &res.UploadedAt); err != nil {
		return fmt.Errorf("resume insert: %w", err)
	}
	return nil
}

func (r *ResumeRepo) GetByID(ctx context.Context, id int64) (*resume.Resume, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var res resume.Resume
	if err := scanResume(r.db.execQueryer(ctx).QueryRow(ctx, qResumeByID, id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ResumeRepo) ListByUser(ctx context.Context, userID int64) ([]*resume.Resume, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qResumeByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("query resumes: %w", err)
	}
	defer rows.Close()

	var out []*resume.Resume
	for rows.Next() {
		var res resume.Resume
		if err := scanResume(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanResume(row pgx.Row, out *resume.Resume) error {
	if err := row.Scan(&out.ID, &out.UserID, &out.FileName, &out.StorageKey,
		&out.Size, &out.UploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan resume: %w", err)
	}
	return nil
}
