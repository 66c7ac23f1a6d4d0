package candidate

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hireloop/hireloop/internal/domain/candidate"
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

// Register mounts the candidate routes. Applying (create) is open so that
// candidates without an account can submit; everything else is guarded.
func (c *Controller) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/candidates", c.handleCreate)
	mux.Handle("GET /api/candidates", guard(http.HandlerFunc(c.handleList)))
	mux.Handle("GET /api/candidates/{id}", guard(http.HandlerFunc(c.handleGet)))
	mux.Handle("DELETE /api/candidates/{id}", guard(http.HandlerFunc(c.handleDelete)))
}

type candidateRequest struct {
	Name        string                 `json:"name"`
	Email       string                 `json:"email"`
	Phone       string                 `json:"phone"`
	ResumeURL   string                 `json:"resume_url"`
	JobID       int64                  `json:"job_id"`
	Skills      []candidate.Skill      `json:"skills"`
	GitHubLinks []candidate.GitHubLink `json:"github_links"`
}

type listResponse struct {
	Items []*candidate.Candidate `json:"items"`
	Total int64                  `json:"total"`
}

func (c *Controller) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	cand, err := c.uc.Create(r.Context(), Input{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ResumeURL:   req.ResumeURL,
		JobID:       req.JobID,
		Skills:      req.Skills,
		GitHubLinks: req.GitHubLinks,
	})
	if err != nil {
		c.writeErr(w, err)
		return
	}
	c.log.Info("candidate created",
		zap.Int64("candidate_id", cand.ID), zap.Int64("job_id", cand.JobID))
	httpx.JSON(w, http.StatusCreated, cand)
}

func (c *Controller) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	q := r.URL.Query()
	f := candidate.Filter{
		Offset: atoiDefault(q.Get("offset"), 0),
		Limit:  atoiDefault(q.Get("limit"), 0),
	}
	if v := q.Get("job_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid job_id")
			return
		}
		f.JobID = id
	}

	items, total, err := c.uc.List(r.Context(), u.ID, f)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

func (c *Controller) handleGet(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	cand, err := c.uc.Get(r.Context(), u.ID, id)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cand)
}

func (c *Controller) handleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
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
	case errors.Is(err, ErrJobUnknown):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		httpx.Error(w, http.StatusForbidden, err.Error())
	default:
		c.log.Error("candidate handler error", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
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
