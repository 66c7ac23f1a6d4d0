package job

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJobs struct {
	byID   map[int64]*job.Job
	nextID int64
}

func newMemJobs() *memJobs { return &memJobs{byID: map[int64]*job.Job{}, nextID: 1} }

func (m *memJobs) Create(_ context.Context, j *job.Job) error {
	j.ID = m.nextID
	m.nextID++
	j.CreatedAt = time.Now().UTC()
	cp := *j
	m.byID[j.ID] = &cp
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id int64) (*job.Job, error) {
	j, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) List(_ context.Context, f job.Filter) ([]*job.Job, int64, error) {
	var out []*job.Job
	for _, j := range m.byID {
		if f.Search == "" || strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search)) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memJobs) Update(_ context.Context, j *job.Job) error {
	if _, ok := m.byID[j.ID]; !ok {
		return postgres.ErrNotFound
	}
	cp := *j
	m.byID[j.ID] = &cp
	return nil
}

func (m *memJobs) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func TestCreateRequiresTitleAndCompany(t *testing.T) {
	uc := NewUsecase(newMemJobs())

	_, err := uc.Create(context.Background(), 1, Input{Title: " ", Company: "Acme"})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = uc.Create(context.Background(), 1, Input{Title: "Engineer", Company: ""})
	assert.ErrorIs(t, err, ErrInvalid)

	j, err := uc.Create(context.Background(), 1, Input{Title: "Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), j.CreatedBy)
}

func TestUpdateOwnership(t *testing.T) {
	uc := NewUsecase(newMemJobs())

	j, err := uc.Create(context.Background(), 1, Input{Title: "Engineer", Company: "Acme"})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), 2, j.ID, Input{Title: "Hijacked", Company: "Evil"})
	assert.ErrorIs(t, err, ErrForbidden)

	upd, err := uc.Update(context.Background(), 1, j.ID, Input{Title: "Senior Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", upd.Title)
}

func TestDeleteOwnership(t *testing.T) {
	uc := NewUsecase(newMemJobs())

	j, err := uc.Create(context.Background(), 1, Input{Title: "Engineer", Company: "Acme"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(context.Background(), 2, j.ID), ErrForbidden)
	require.NoError(t, uc.Delete(context.Background(), 1, j.ID))
	assert.ErrorIs(t, uc.Delete(context.Background(), 1, j.ID), ErrNotFound)
}

func TestGetUnknown(t *testing.T) {
	uc := NewUsecase(newMemJobs())
	_, err := uc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListClampsPaging(t *testing.T) {
	repo := newMemJobs()
	uc := NewUsecase(repo)
	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), 1, Input{Title: "Engineer", Company: "Acme"})
		require.NoError(t, err)
	}

	items, total, err := uc.List(context.Background(), job.Filter{Limit: -5, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)
}
