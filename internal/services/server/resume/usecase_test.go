package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hireloop/hireloop/internal/analysis"
	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/domain/outbox"
	"github.com/hireloop/hireloop/internal/domain/resume"
	"github.com/hireloop/hireloop/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memResumes struct {
	byID   map[int64]*resume.Resume
	nextID int64
}

func newMemResumes() *memResumes { return &memResumes{byID: map[int64]*resume.Resume{}, nextID: 1} }

func (m *memResumes) Create(_ context.Context, r *resume.Resume) error {
	r.ID = m.nextID
	m.nextID++
	r.UploadedAt = time.Now().UTC()
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memResumes) GetByID(_ context.Context, id int64) (*resume.Resume, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memResumes) ListByUser(_ context.Context, userID int64) ([]*resume.Resume, error) {
	var out []*resume.Resume
	for _, r := range m.byID {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memJobs struct {
	byID map[int64]*job.Job
}

func (m *memJobs) Create(_ context.Context, _ *job.Job) error { panic("unused") }
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

type memBlobs struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBlobs) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

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

func newTestUsecase(analyzer *analysis.Client) (*Usecase, *memResumes, *memBlobs, *memOutbox) {
	resumes := newMemResumes()
	blobs := newMemBlobs()
	ob := &memOutbox{}
	jobs := &memJobs{byID: map[int64]*job.Job{7: {ID: 7, Title: "Engineer", CreatedBy: 1}}}
	uc := NewUsecase(resumes, jobs, blobs, analyzer, ob, passTx{}, 1024)
	return uc, resumes, blobs, ob
}

func TestUploadStoresBlobAndRow(t *testing.T) {
	uc, resumes, blobs, _ := newTestUsecase(nil)

	body := strings.NewReader("%PDF-1.4 fake")
	rec, err := uc.Upload(context.Background(), 5, "cv.PDF", int64(body.Len()), body)
	require.NoError(t, err)

	assert.Equal(t, int64(5), rec.UserID)
	assert.Equal(t, "cv.PDF", rec.FileName)
	assert.True(t, strings.HasPrefix(rec.StorageKey, "resumes/5/"))
	assert.True(t, strings.HasSuffix(rec.StorageKey, ".pdf"))

	assert.Equal(t, []byte("%PDF-1.4 fake"), blobs.objects[rec.StorageKey])
	assert.Equal(t, "application/pdf", blobs.types[rec.StorageKey])
	assert.Len(t, resumes.byID, 1)
}

func TestUploadRejectsBadExtension(t *testing.T) {
	uc, _, blobs, _ := newTestUsecase(nil)

	_, err := uc.Upload(context.Background(), 5, "malware.exe", 10, strings.NewReader("xx"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, blobs.objects)
}

func TestUploadRejectsOversize(t *testing.T) {
	uc, _, blobs, _ := newTestUsecase(nil)

	_, err := uc.Upload(context.Background(), 5, "cv.pdf", 2048, bytes.NewReader(make([]byte, 2048)))
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = uc.Upload(context.Background(), 5, "cv.pdf", 0, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, blobs.objects)
}

func TestGetHidesOtherUsers(t *testing.T) {
	uc, _, _, _ := newTestUsecase(nil)

	rec, err := uc.Upload(context.Background(), 5, "cv.pdf", 4, strings.NewReader("abcd"))
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), 6, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := uc.Get(context.Background(), 5, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestAnalyzeProxiesAndEnqueues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(analysis.Report{ID: 3, Score: 71.0})
	}))
	defer srv.Close()

	analyzer := analysis.NewClient(analysis.Config{BaseURL: srv.URL, Timeout: time.Second})
	uc, _, _, ob := newTestUsecase(analyzer)

	rec, err := uc.Upload(context.Background(), 5, "cv.pdf", 4, strings.NewReader("abcd"))
	require.NoError(t, err)

	rep, err := uc.Analyze(context.Background(), 5, rec.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 71.0, rep.Score)

	require.Len(t, ob.enqueued, 1)
	assert.Equal(t, outbox.KindAnalysisCompleted, ob.enqueued[0].Kind)
}

func TestAnalyzeUnknownJob(t *testing.T) {
	uc, _, _, ob := newTestUsecase(nil)

	rec, err := uc.Upload(context.Background(), 5, "cv.pdf", 4, strings.NewReader("abcd"))
	require.NoError(t, err)

	_, err = uc.Analyze(context.Background(), 5, rec.ID, 999)
	assert.ErrorIs(t, err, ErrJobUnknown)
	assert.Empty(t, ob.enqueued)
}
