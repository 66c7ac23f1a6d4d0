package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/hireloop/internal/analysis"
	"github.com/hireloop/hireloop/internal/domain/job"
	"github.com/hireloop/hireloop/internal/domain/outbox"
	"github.com/hireloop/hireloop/internal/domain/resume"
	intoutbox "github.com/hireloop/hireloop/internal/outbox"
	"github.com/hireloop/hireloop/internal/repository/postgres"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrJobUnknown      = errors.New("job does not exist")
	ErrUnsupportedType = errors.New("only .pdf, .doc and .docx files are accepted")
	ErrTooLarge        = errors.New("file exceeds the upload limit")
)

const DefaultMaxUploadBytes = 10 << 20

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type Usecase struct {
	resumes  resume.Repo
	jobs     job.Repo
	blobs    resume.BlobStore
	analyzer *analysis.Client
	outbox   outbox.Repository
	tx       postgres.Transactor
	maxBytes int64
}

func NewUsecase(
	resumes resume.Repo,
	jobs job.Repo,
	blobs resume.BlobStore,
	analyzer *analysis.Client,
	ob outbox.Repository,
	tx postgres.Transactor,
	maxBytes int64,
) *Usecase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Usecase{
		resumes: resumes, jobs: jobs, blobs: blobs,
		analyzer: analyzer, outbox: ob, tx: tx, maxBytes: maxBytes,
	}
}

func (u *Usecase) MaxBytes() int64 { return u.maxBytes }

// Upload validates the file, stores the body in the blob store and records
// the resume row. The blob write happens first so a failed DB insert leaves
// at worst an orphan object, never a row without a file.
func (u *Usecase) Upload(ctx context.Context, userID int64, fileName string, size int64, body io.Reader) (*resume.Resume, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if size <= 0 || size > u.maxBytes {
		return nil, ErrTooLarge
	}

	key := fmt.Sprintf("resumes/%d/%s%s", userID, uuid.New(), ext)
	if err := u.blobs.Put(ctx, key, io.LimitReader(body, u.maxBytes), size, contentType); err != nil {
		return nil, fmt.Errorf("store resume blob: %w", err)
	}

	rec := &resume.Resume{
		UserID:     userID,
		FileName:   fileName,
		StorageKey: key,
		Size:       size,
	}
	if err := u.resumes.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert resume: %w", err)
	}
	return rec, nil
}

func (u *Usecase) List(ctx context.Context, userID int64) ([]*resume.Resume, error) {
	return u.resumes.ListByUser(ctx, userID)
}

// Get hides other users' resumes behind ErrNotFound rather than a forbidden
// status, so ids cannot be probed.
func (u *Usecase) Get(ctx context.Context, userID, id int64) (*resume.Resume, error) {
	rec, err := u.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Analyze proxies the scoring request to the external service and enqueues an
// analysis-completed event for downstream consumers.
func (u *Usecase) Analyze(ctx context.Context, userID, resumeID, jobID int64) (*analysis.Report, error) {
	if _, err := u.Get(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	if _, err := u.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrJobUnknown
		}
		return nil, err
	}

	rep, err := u.analyzer.Analyze(ctx, resumeID, jobID)
	if err != nil {
		return nil, err
	}

	payload := intoutbox.AnalysisCompletedPayload{
		ResumeID: resumeID,
		JobID:    jobID,
		Score:    rep.Score,
		At:       time.Now().UTC(),
	}
	b, _ := json.Marshal(payload)
	key := fmt.Sprintf("analysis:%d:%d:%d", resumeID, jobID, payload.At.UnixNano())

	err = u.tx.WithTx(ctx, func(txCtx context.Context) error {
		return u.outbox.Enqueue(txCtx, key, outbox.KindAnalysisCompleted, b)
	})
	if err != nil {
		return nil, fmt.Errorf("outbox enqueue: %w", err)
	}
	return rep, nil
}

func (u *Usecase) History(ctx context.Context, userID int64) ([]analysis.Report, error) {
	return u.analyzer.History(ctx, userID)
}

func (u *Usecase) Report(ctx context.Context, reportID int64) (*analysis.Report, error) {
	return u.analyzer.ByID(ctx, reportID)
}
