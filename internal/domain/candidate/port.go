package candidate

import "context"

type Filter struct {
	JobID  int64 // 0 means all jobs
	Offset int
	Limit  int
}

type Repo interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	List(ctx context.Context, f Filter) ([]*Candidate, int64, error)
	Delete(ctx context.Context, id int64) error
}
