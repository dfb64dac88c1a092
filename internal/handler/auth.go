package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ineffable/agency-server/internal/audit"
	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/service"
)

type AuthHandler struct {
	authService    *service.AuthService
	authMiddleware func(http.Handler) http.Handler
	loginLimiter   func(http.Handler) http.Handler
}

func NewAuthHandler(
	authService *service.AuthService,
	authMiddleware func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
		loginLimiter:   loginLimiter,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.loginLimiter)
		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
	})

	r.With(h.authMiddleware).Get("/me", h.Me)

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginParams
	if !decode(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		event := audit.Event{
			Type:    audit.EventLoginFailure,
			Details: map[string]interface{}{"email": service.NormalizeEmail(req.Email)},
		}
		if apperrors.GetCode(err) == apperrors.ErrCodeAwaitingApproval {
			event.Type = audit.EventLoginPending
		}
		audit.LogFromRequest(r, event)
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLoginSuccess,
		ActorID: result.Admin.ID,
	})
	writeJSON(w, http.StatusOK, result)
}

// Signup files an access request. No token is issued; the account can log
// in once a super admin approves it.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupParams
	if !decode(w, r, &req) {
		return
	}

	summary, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventSignup,
		ActorID: summary.ID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Access request submitted. An administrator must approve it before you can sign in.",
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	summary, err := h.authService.Me(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
