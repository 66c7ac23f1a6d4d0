package candidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hireloop/hireloop/internal/domain/candidate"
	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/domain/outbox"
	intoutbox "github.com/hireloop/hireloop/internal/outbox"
	"github.com/hireloop/hireloop/internal/repository/postgres"
)

var (
	ErrNotFound   = errors.New("candidate not found")
	ErrJobUnknown = errors.New("job does not exist")
	ErrForbidden  = errors.New("candidate belongs to another user's posting")
	ErrInvalid    = errors.New("name, email and job_id are required")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Usecase struct {
	candidates candidate.Repo
	jobs       job.Repo
	outbox     outbox.Repository
	tx         postgres.Transactor
}

func NewUsecase(candidates candidate.Repo, jobs job.Repo, ob outbox.Repository, tx postgres.Transactor) *Usecase {
	return &Usecase{candidates: candidates, jobs: jobs, outbox: ob, tx: tx}
}

type Input struct {
	Name        string
	Email       string
	Phone       string
	ResumeURL   string
	JobID       int64
	Skills      []candidate.Skill
	GitHubLinks []candidate.GitHubLink
}

// Create stores the candidate and enqueues a candidate-created event in the
// same transaction, so the event exists iff the row does.
func (u *Usecase) Create(ctx context.Context, in Input) (*candidate.Candidate, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.JobID == 0 {
		return nil, ErrInvalid
	}
	if _, err := u.jobs.GetByID(ctx, in.JobID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrJobUnknown
		}
		return nil, err
	}

	c := &candidate.Candidate{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ResumeURL:   in.ResumeURL,
		JobID:       in.JobID,
		Skills:      in.Skills,
		GitHubLinks: in.GitHubLinks,
	}

	err := u.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.candidates.Create(txCtx, c); err != nil {
			return fmt.Errorf("insert candidate: %w", err)
		}

		payload := intoutbox.CandidateCreatedPayload{
			CandidateID: c.ID,
			JobID:       c.JobID,
			Name:        c.Name,
			At:          time.Now().UTC(),
		}
		b, _ := json.Marshal(payload)
		key := fmt.Sprintf("candidate:%d:%d", c.ID, payload.At.UnixNano())

		if err := u.outbox.Enqueue(txCtx, key, outbox.KindCandidateCreated, b); err != nil {
			return fmt.Errorf("outbox enqueue: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the candidate if the requester owns the posting it applied to.
// A candidate whose posting no longer exists is visible to anyone signed in.
func (u *Usecase) Get(ctx context.Context, requesterID, id int64) (*candidate.Candidate, error) {
	c, err := u.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	j, err := u.jobs.GetByID(ctx, c.JobID)
	if err != nil && !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}
	if j != nil && j.CreatedBy != requesterID {
		return nil, ErrForbidden
	}
	return c, nil
}

// List pages over candidates. Filtering by posting is allowed only for the
// posting's owner.
func (u *Usecase) List(ctx context.Context, requesterID int64, f candidate.Filter) ([]*candidate.Candidate, int64, error) {
	if f.JobID != 0 {
		j, err := u.jobs.GetByID(ctx, f.JobID)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				return nil, 0, ErrJobUnknown
			}
			return nil, 0, err
		}
		if j.CreatedBy != requesterID {
			return nil, 0, ErrForbidden
		}
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return u.candidates.List(ctx, f)
}

// Delete removes a candidate. Only the owner of the posting the candidate
// applied to may do that.
func (u *Usecase) Delete(ctx context.Context, requesterID, id int64) error {
	if _, err := u.Get(ctx, requesterID, id); err != nil {
		return err
	}
	if err := u.candidates.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
