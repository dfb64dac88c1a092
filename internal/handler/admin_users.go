package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ineffable/agency-server/internal/audit"
	"github.com/ineffable/agency-server/internal/middleware"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/service"
)

type AdminUsersHandler struct {
	adminUserService *service.AdminUserService
	authMiddleware   func(http.Handler) http.Handler
}

func NewAdminUsersHandler(adminUserService *service.AdminUserService, authMiddleware func(http.Handler) http.Handler) *AdminUsersHandler {
	return &AdminUsersHandler{
		adminUserService: adminUserService,
		authMiddleware:   authMiddleware,
	}
}

func (h *AdminUsersHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.authMiddleware)
	r.Use(middleware.RequireRole(model.RoleSuperAdmin))

	r.Get("/", h.List)
	r.With(middleware.SelfGuard("id", service.MsgSelfApprove)).Put("/{id}/approve", h.Approve)
	r.With(middleware.SelfGuard("id", service.MsgSelfRole)).Put("/{id}/role", h.ChangeRole)
	r.With(middleware.SelfGuard("id", service.MsgSelfDelete)).Delete("/{id}", h.Delete)

	return r
}

func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	accounts, err := h.adminUserService.ListAccounts(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *AdminUsersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	summary, err := h.adminUserService.Approve(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventAccountApprove,
		ActorID:  actor.AccountID,
		TargetID: id,
	})
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminUsersHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req struct {
		Role model.Role `json:"role" validate:"required"`
	}
	if !decode(w, r, &req) {
		return
	}

	summary, err := h.adminUserService.ChangeRole(r.Context(), actor, id, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventAccountRoleChange,
		ActorID:  actor.AccountID,
		TargetID: id,
		Details:  map[string]interface{}{"role": string(req.Role)},
	})
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.adminUserService.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventAccountDelete,
		ActorID:  actor.AccountID,
		TargetID: id,
	})
	writeSuccess(w)
}
