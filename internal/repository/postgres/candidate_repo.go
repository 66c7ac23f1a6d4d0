package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hireloop/hireloop/internal/domain/candidate"
)

var _ candidate.Repo = (*CandidateRepo)(nil)

type CandidateRepo struct{ db *DB }

func NewCandidateRepo(db *DB) *CandidateRepo { return &CandidateRepo{db: db} }

const (
	qCandInsert = `
INSERT INTO candidates (name, email, phone, resume_url, job_id, skills, github_links)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at;`

	qCandByID = `
SELECT id, name, email, phone, resume_url, job_id, skills, github_links, created_at
FROM candidates
WHERE id = $1;`

	qCandList = `
SELECT id, name, email, phone, resume_url, job_id, skills, github_links, created_at
FROM candidates
WHERE ($1 = 0 OR job_id = $1)
ORDER BY id DESC
OFFSET $2 LIMIT $3;`

	qCandCount = `
SELECT count(*) FROM candidates WHERE ($1 = 0 OR job_id = $1);`

	qCandDelete = `DELETE FROM candidates WHERE id = $1;`
)

func (r *CandidateRepo) Create(ctx context.Context, c *candidate.Candidate) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	skills, links, err := marshalCandidateJSON(c)
	if err != nil {
		return err
	}

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qCandInsert,
		c.Name, c.Email, c.Phone, c.ResumeURL, c.JobID, skills, links).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("candidate insert: %w", err)
	}
	return nil
}

func (r *CandidateRepo) GetByID(ctx context.Context, id int64) (*candidate.Candidate, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var c candidate.Candidate
	if err := scanCandidate(r.db.execQueryer(ctx).QueryRow(ctx, qCandByID, id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepo) List(ctx context.Context, f candidate.Filter) ([]*candidate.Candidate, int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)

	var total int64
	if err := eq.QueryRow(ctx, qCandCount, f.JobID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	rows, err := eq.Query(ctx, qCandList, f.JobID, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []*candidate.Candidate
	for rows.Next() {
		var c candidate.Candidate
		if err := scanCandidate(rows, &c); err != nil {
			return nil, 0, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return out, total, nil
}

func (r *CandidateRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.execQueryer(ctx).Exec(ctx, qCandDelete, id)
	if err != nil {
		return fmt.Errorf("candidate delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalCandidateJSON(c *candidate.Candidate) ([]byte, []byte, error) {
	if c.Skills == nil {
		c.Skills = []candidate.Skill{}
	}
	if c.GitHubLinks == nil {
		c.GitHubLinks = []candidate.GitHubLink{}
	}
	skills, err := json.Marshal(c.Skills)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal skills: %w", err)
	}
	links, err := json.Marshal(c.GitHubLinks)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal github links: %w", err)
	}
	return skills, links, nil
}

func scanCandidate(row pgx.Row, out *candidate.Candidate) error {
	var skills, links []byte
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.ResumeURL,
		&out.JobID, &skills, &links, &out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan candidate: %w", err)
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &out.Skills); err != nil {
			return fmt.Errorf("unmarshal skills: %w", err)
		}
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &out.GitHubLinks); err != nil {
			return fmt.Errorf("unmarshal github links: %w", err)
		}
	}
	return nil
}
