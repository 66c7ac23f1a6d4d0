package resume

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hireloop/hireloop/internal/analysis"
	"github.com/hireloop/hireloop/internal/services/server/auth"
	"github.com/hireloop/hireloop/internal/services/server/httpx"
	"go.uber.org/zap"
)

type Controller struct {
	log *zap.Logger
	uc  *Usecase
}

func NewController(uc *Usecase, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.L()
	}
	return &Controller{log: log, uc: uc}
}

func (c *Controller) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /api/resumes", guard(http.HandlerFunc(c.handleUpload)))
	mux.Handle("GET /api/resumes", guard(http.HandlerFunc(c.handleList)))
	mux.Handle("GET /api/resumes/{id}", guard(http.HandlerFunc(c.handleGet)))
	mux.Handle("POST /api/resumes/{id}/analyze", guard(http.HandlerFunc(c.handleAnalyze)))
	mux.Handle("GET /api/dashboard/analyses", guard(http.HandlerFunc(c.handleHistory)))
	mux.Handle("GET /api/dashboard/analyses/{id}", guard(http.HandlerFunc(c.handleReport)))
}

func (c *Controller) handleUpload(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	// one extra MiB for the multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, c.uc.MaxBytes()+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	rec, err := c.uc.Upload(r.Context(), u.ID, header.Filename, header.Size, file)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	c.log.Info("resume uploaded",
		zap.Int64("resume_id", rec.ID), zap.Int64("user_id", u.ID), zap.Int64("size", rec.Size))
	httpx.JSON(w, http.StatusCreated, rec)
}

func (c *Controller) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	items, err := c.uc.List(r.Context(), u.ID)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (c *Controller) handleGet(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := c.uc.Get(r.Context(), u.ID, id)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (c *Controller) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	jobID, err := strconv.ParseInt(r.URL.Query().Get("job_id"), 10, 64)
	if err != nil || jobID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "job_id query parameter is required")
		return
	}

	rep, err := c.uc.Analyze(r.Context(), u.ID, id, jobID)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (c *Controller) handleHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	reps, err := c.uc.History(r.Context(), u.ID)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reps)
}

func (c *Controller) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	rep, err := c.uc.Report(r.Context(), id)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (c *Controller) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrJobUnknown), errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrTooLarge):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analysis.ErrTimeout):
		httpx.Error(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, analysis.ErrUnavailable):
		httpx.Error(w, http.StatusBadGateway, err.Error())
	default:
		c.log.Error("resume handler error", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
