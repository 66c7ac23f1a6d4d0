package job

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hireloop/hireloop/internal/domain/job"
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

// Register mounts the job routes. Listing and reading postings is public;
// anything that mutates goes through the guard.
func (c *Controller) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /api/jobs", guard(http.HandlerFunc(c.handleCreate)))
	mux.HandleFunc("GET /api/jobs", c.handleList)
	mux.HandleFunc("GET /api/jobs/{id}", c.handleGet)
	mux.Handle("PUT /api/jobs/{id}", guard(http.HandlerFunc(c.handleUpdate)))
	mux.Handle("DELETE /api/jobs/{id}", guard(http.HandlerFunc(c.handleDelete)))
}

type jobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	SalaryRange string `json:"salary_range"`
}

func (r jobRequest) input() Input {
	return Input{
		Title:       r.Title,
		Description: r.Description,
		Company:     r.Company,
		Location:    r.Location,
		SalaryRange: r.SalaryRange,
	}
}

type listResponse struct {
	Items []*job.Job `json:"items"`
	Total int64      `json:"total"`
}

func (c *Controller) handleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	var req jobRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	j, err := c.uc.Create(r.Context(), u.ID, req.input())
	if err != nil {
		c.writeErr(w, err)
		return
	}
	c.log.Info("job created", zap.Int64("job_id", j.ID), zap.Int64("user_id", u.ID))
	httpx.JSON(w, http.StatusCreated, j)
}

func (c *Controller) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := job.Filter{
		Search: q.Get("search"),
		Offset: atoiDefault(q.Get("offset"), 0),
		Limit:  atoiDefault(q.Get("limit"), 0),
	}
	items, total, err := c.uc.List(r.Context(), f)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

func (c *Controller) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	j, err := c.uc.Get(r.Context(), id)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (c *Controller) handleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req jobRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	j, err := c.uc.Update(r.Context(), u.ID, id, req.input())
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (c *Controller) handleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := c.uc.Delete(r.Context(), u.ID, id); err != nil {
		c.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		httpx.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalid):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		c.log.Error("job handler error", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
