package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salescli/internal/errors"
)

// AuthHandler implements the password gate. The dashboard pipelines are not
// reachable until a session exists.
type AuthHandler struct {
	password []byte
	sessions *SessionStore
	logger   *slog.Logger
}

// NewAuthHandler creates the auth handler around the configured secret.
func NewAuthHandler(password string, sessions *SessionStore, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		password: []byte(password),
		sessions: sessions,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// Routes returns the auth routes.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	return r
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. A correct password yields a session
// cookie; a wrong one is answered uniformly regardless of how it was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInvalidRequest))
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), h.password) != 1 {
		h.logger.WarnContext(r.Context(), "login rejected",
			slog.String("remote_addr", r.RemoteAddr))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrWrongPassword))
		return
	}

	token := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(r.Context(), "login accepted")
	render.JSON(w, r, map[string]interface{}{"status": "success"})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Destroy(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	render.JSON(w, r, map[string]interface{}{"status": "success"})
}

// RequireSession guards the dashboard routes: requests without a live
// session never reach the core pipelines.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || !h.sessions.Valid(cookie.Value) {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}
