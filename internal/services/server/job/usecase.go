package job

import (
	"context"
	"errors"
	"strings"

	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/repository/postgres"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrForbidden = errors.New("job belongs to another user")
	ErrInvalid   = errors.New("title and company are required")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Usecase struct {
	jobs job.Repo
}

func NewUsecase(jobs job.Repo) *Usecase {
	return &Usecase{jobs: jobs}
}

type Input struct {
	Title       string
	Description string
	Company     string
	Location    string
	SalaryRange string
}

func (in *Input) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Company) == "" {
		return ErrInvalid
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, ownerID int64, in Input) (*job.Job, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	j := &job.Job{
		Title:       in.Title,
		Description: in.Description,
		Company:     in.Company,
		Location:    in.Location,
		SalaryRange: in.SalaryRange,
		CreatedBy:   ownerID,
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (*job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrNotFound
	}
	return j, err
}

func (u *Usecase) List(ctx context.Context, f job.Filter) ([]*job.Job, int64, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return u.jobs.List(ctx, f)
}

// Update replaces a posting's fields. Only the user who created the posting
// may change it.
func (u *Usecase) Update(ctx context.Context, ownerID, id int64, in Input) (*job.Job, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	cur, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.CreatedBy != ownerID {
		return nil, ErrForbidden
	}

	cur.Title = in.Title
	cur.Description = in.Description
	cur.Company = in.Company
	cur.Location = in.Location
	cur.SalaryRange = in.SalaryRange

	if err := u.jobs.Update(ctx, cur); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cur, nil
}

func (u *Usecase) Delete(ctx context.Context, ownerID, id int64) error {
	cur, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if cur.CreatedBy != ownerID {
		return ErrForbidden
	}
	if err := u.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
