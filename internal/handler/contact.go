package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
	authMiddleware func(http.Handler) http.Handler
	submitLimiter  func(http.Handler) http.Handler
}

func NewContactHandler(contactService *service.ContactService, authMiddleware func(http.Handler) http.Handler, submitsPerMin int) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		authMiddleware: authMiddleware,
		submitLimiter: httprate.Limit(submitsPerMin, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, apperrors.RateLimitExceeded())
			}),
		),
	}
}

func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.submitLimiter).Post("/", h.Submit)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/", h.List)
		r.Put("/{id}/read", h.MarkRead)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.CreateContactMessageParams
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      msg.ID,
	})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page := ParsePagination(r)

	messages, total, err := h.contactService.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  messages,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
