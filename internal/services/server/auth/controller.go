package auth

import (
	"errors"
	"net/http"
	"time"

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

func (c *Controller) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", c.handleRegister)
	mux.HandleFunc("POST /api/auth/login", c.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", c.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", c.handleLogout)
	mux.Handle("GET /api/users/me", c.RequireAuth(http.HandlerFunc(c.handleMe)))
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionResponse struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func toSessionResponse(p *SessionPair) sessionResponse {
	return sessionResponse{
		ID:           p.User.ID,
		Email:        p.User.Email,
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
		TokenType:    "bearer",
		CreatedAt:    p.User.CreatedAt,
	}
}

func (c *Controller) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	c.log.Info("auth.register", zap.String("email", req.Email))

	pair, err := c.uc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toSessionResponse(pair))
}

func (c *Controller) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	c.log.Info("auth.login", zap.String("email", req.Email))

	pair, err := c.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSessionResponse(pair))
}

func (c *Controller) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	pair, err := c.uc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		c.writeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSessionResponse(pair))
}

func (c *Controller) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := c.uc.Logout(r.Context(), req.RefreshToken); err != nil {
		c.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Controller) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	httpx.JSON(w, http.StatusOK, meResponse{
		ID: u.ID, Email: u.Email, Active: u.Active, CreatedAt: u.CreatedAt,
	})
}

func (c *Controller) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrEmailTaken):
		httpx.Error(w, http.StatusConflict, err.Error())
	default:
		c.log.Error("auth handler error", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
