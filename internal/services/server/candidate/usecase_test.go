package candidate

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hireloop/hireloop/internal/domain/candidate"
	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/domain/outbox"
	intoutbox "github.com/hireloop/hireloop/internal/outbox"
	"github.com/hireloop/hireloop/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCandidates struct {
	byID   map[int64]*candidate.Candidate
	nextID int64
}

func newMemCandidates() *memCandidates {
	return &memCandidates{byID: map[int64]*candidate.Candidate{}, nextID: 1}
}

func (m *memCandidates) Create(_ context.Context, c *candidate.Candidate) error {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCandidates) GetByID(_ context.Context, id int64) (*candidate.Candidate, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCandidates) List(_ context.Context, f candidate.Filter) ([]*candidate.Candidate, int64, error) {
	var out []*candidate.Candidate
	for _, c := range m.byID {
		if f.JobID == 0 || c.JobID == f.JobID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memCandidates) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memJobs struct {
	byID map[int64]*job.Job
}

func (m *memJobs) Create(_ context.Context, j *job.Job) error { panic("unused") }
func (m *memJobs) GetByID(_ context.Context, id int64) (*job.Job, error) {
	j, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return j, nil
}
func (m *memJobs) List(_ context.Context, _ job.Filter) ([]*job.Job, int64, error) {
	panic("unused")
}
func (m *memJobs) Update(_ context.Context, _ *job.Job) error { panic("unused") }
func (m *memJobs) Delete(_ context.Context, _ int64) error    { panic("unused") }

type memOutbox struct {
	enqueued []outbox.Message
}

func (m *memOutbox) Enqueue(_ context.Context, key string, kind outbox.Kind, data []byte) error {
	m.enqueued = append(m.enqueued, outbox.Message{IdempotencyKey: key, Kind: kind, Data: data})
	return nil
}

func (m *memOutbox) PickBatch(_ context.Context, _ int, _ time.Duration) ([]outbox.Message, error) {
	panic("unused")
}

func (m *memOutbox) MarkSuccess(_ context.Context, _ []string) error { panic("unused") }

type passTx struct{}

func (passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestUsecase() (*Usecase, *memCandidates, *memOutbox) {
	cands := newMemCandidates()
	jobs := &memJobs{byID: map[int64]*job.Job{
		10: {ID: 10, Title: "Engineer", Company: "Acme", CreatedBy: 1},
	}}
	ob := &memOutbox{}
	return NewUsecase(cands, jobs, ob, passTx{}), cands, ob
}

func TestCreateEnqueuesEvent(t *testing.T) {
	uc, _, ob := newTestUsecase()

	c, err := uc.Create(context.Background(), Input{
		Name: "Dana", Email: "dana@example.com", JobID: 10,
		Skills: []candidate.Skill{{Name: "Go", YearsExperience: 3}},
	})
	require.NoError(t, err)
	require.Len(t, ob.enqueued, 1)
	assert.Equal(t, outbox.KindCandidateCreated, ob.enqueued[0].Kind)

	var p intoutbox.CandidateCreatedPayload
	require.NoError(t, json.Unmarshal(ob.enqueued[0].Data, &p))
	assert.Equal(t, c.ID, p.CandidateID)
	assert.Equal(t, int64(10), p.JobID)
	assert.Equal(t, "Dana", p.Name)
}

func TestCreateValidation(t *testing.T) {
	uc, _, ob := newTestUsecase()

	_, err := uc.Create(context.Background(), Input{Name: "", Email: "x@y.z", JobID: 10})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = uc.Create(context.Background(), Input{Name: "Dana", Email: "x@y.z", JobID: 999})
	assert.ErrorIs(t, err, ErrJobUnknown)

	assert.Empty(t, ob.enqueued)
}

func TestDeleteRequiresPostingOwner(t *testing.T) {
	uc, _, _ := newTestUsecase()

	c, err := uc.Create(context.Background(), Input{Name: "Dana", Email: "d@e.f", JobID: 10})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(context.Background(), 2, c.ID), ErrForbidden)
	require.NoError(t, uc.Delete(context.Background(), 1, c.ID))
	assert.ErrorIs(t, uc.Delete(context.Background(), 1, c.ID), ErrNotFound)
}

func TestListFiltersByJob(t *testing.T) {
	uc, _, _ := newTestUsecase()

	_, err := uc.Create(context.Background(), Input{Name: "Dana", Email: "d@e.f", JobID: 10})
	require.NoError(t, err)

	items, total, err := uc.List(context.Background(), 1, candidate.Filter{JobID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	_, _, err = uc.List(context.Background(), 2, candidate.Filter{JobID: 10})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = uc.List(context.Background(), 1, candidate.Filter{JobID: 999})
	assert.ErrorIs(t, err, ErrJobUnknown)
}

func TestGetChecksPostingOwner(t *testing.T) {
	uc, _, _ := newTestUsecase()

	c, err := uc.Create(context.Background(), Input{Name: "Dana", Email: "d@e.f", JobID: 10})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = uc.Get(context.Background(), 2, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
