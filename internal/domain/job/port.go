package job

import "context"

type Filter struct {
	Search string
	Offset int
	Limit  int
}

type Repo interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	List(ctx context.Context, f Filter) ([]*Job, int64, error)
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, id int64) error
}
