package httpapi

import (
	"net/http"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
	svcerrors "github.com/MathHub-Labs/calc-service/internal/errors"
	"github.com/MathHub-Labs/calc-service/internal/httputil"
	"github.com/MathHub-Labs/calc-service/internal/middleware"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	User        user.User `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	h.metrics.RecordAuth("register", err == nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	session, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	h.metrics.RecordAuth("login", err == nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresIn:   session.ExpiresIn,
		User:        session.User,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		h.writeError(w, svcerrors.Unauthorized(""))
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

// Tokens are stateless, so logout is a client-side discard. The endpoint
// exists so clients have a uniform call to end a session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "successfully logged out",
	})
}
