package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/service"
)

// ContentHandler serves the public site content. Reads are public, writes
// need an authenticated admin of either role.
type ContentHandler struct {
	contentService *service.ContentService
	authMiddleware func(http.Handler) http.Handler
}

func NewContentHandler(contentService *service.ContentService, authMiddleware func(http.Handler) http.Handler) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		authMiddleware: authMiddleware,
	}
}

func (h *ContentHandler) ServiceRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListServices)
	r.Get("/{slug}", h.GetService)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/", h.CreateService)
		r.Put("/{id}", h.UpdateService)
		r.Delete("/{id}", h.DeleteService)
	})

	return r
}

func (h *ContentHandler) ProjectRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListProjects)
	r.Get("/slug/{slug}", h.GetProject)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/", h.CreateProject)
		r.Put("/{id}", h.UpdateProject)
		r.Delete("/{id}", h.DeleteProject)
	})

	return r
}

func (h *ContentHandler) TeamRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListActiveTeam)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/admin", h.ListAllTeam)
		r.Post("/", h.CreateTeamMember)
		r.Put("/{id}", h.UpdateTeamMember)
		r.Delete("/{id}", h.DeleteTeamMember)
	})

	return r
}

func (h *ContentHandler) TestimonialRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTestimonials)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/", h.CreateTestimonial)
		r.Put("/{id}", h.UpdateTestimonial)
		r.Delete("/{id}", h.DeleteTestimonial)
	})

	return r
}

// Services

func (h *ContentHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.contentService.ListServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *ContentHandler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.contentService.GetService(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *ContentHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req model.ServiceParams
	if !decode(w, r, &req) {
		return
	}
	svc, err := h.contentService.CreateService(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (h *ContentHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req model.ServiceParams
	if !decode(w, r, &req) {
		return
	}
	svc, err := h.contentService.UpdateService(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *ContentHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

// Projects

func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.contentService.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ContentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.contentService.GetProject(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ContentHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectParams
	if !decode(w, r, &req) {
		return
	}
	project, err := h.contentService.CreateProject(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ContentHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectParams
	if !decode(w, r, &req) {
		return
	}
	project, err := h.contentService.UpdateProject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ContentHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

// Team

func (h *ContentHandler) ListActiveTeam(w http.ResponseWriter, r *http.Request) {
	members, err := h.contentService.ListActiveTeam(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *ContentHandler) ListAllTeam(w http.ResponseWriter, r *http.Request) {
	members, err := h.contentService.ListAllTeam(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *ContentHandler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req model.TeamMemberParams
	if !decode(w, r, &req) {
		return
	}
	member, err := h.contentService.CreateTeamMember(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *ContentHandler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req model.TeamMemberParams
	if !decode(w, r, &req) {
		return
	}
	member, err := h.contentService.UpdateTeamMember(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *ContentHandler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteTeamMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}

// Testimonials

func (h *ContentHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.contentService.ListTestimonials(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, testimonials)
}

func (h *ContentHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req model.TestimonialParams
	if !decode(w, r, &req) {
		return
	}
	testimonial, err := h.contentService.CreateTestimonial(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, testimonial)
}

func (h *ContentHandler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req model.TestimonialParams
	if !decode(w, r, &req) {
		return
	}
	testimonial, err := h.contentService.UpdateTestimonial(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, testimonial)
}

func (h *ContentHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteTestimonial(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
