package service

import (
	"context"
	"errors"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/repository"
)

// ContentService is the store-backed CRUD behind the public site: services,
// projects, team members and testimonials.
type ContentService struct {
	serviceRepo     repository.ServiceRepository
	projectRepo     repository.ProjectRepository
	teamRepo        repository.TeamMemberRepository
	testimonialRepo repository.TestimonialRepository
}

func NewContentService(
	serviceRepo repository.ServiceRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamMemberRepository,
	testimonialRepo repository.TestimonialRepository,
) *ContentService {
	return &ContentService{
		serviceRepo:     serviceRepo,
		projectRepo:     projectRepo,
		teamRepo:        teamRepo,
		testimonialRepo: testimonialRepo,
	}
}

// Services

func (s *ContentService) ListServices(ctx context.Context) ([]model.Service, error) {
	services, err := s.serviceRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return services, nil
}

func (s *ContentService) GetService(ctx context.Context, slug string) (*model.Service, error) {
	service, err := s.serviceRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if service == nil {
		return nil, apperrors.NotFound("Service")
	}
	return service, nil
}

func (s *ContentService) CreateService(ctx context.Context, params model.ServiceParams) (*model.Service, error) {
	service, err := s.serviceRepo.Create(ctx, params)
	if err != nil {
		return nil, mapSlugError(err, "Service")
	}
	return service, nil
}

func (s *ContentService) UpdateService(ctx context.Context, id string, params model.ServiceParams) (*model.Service, error) {
	if !isValidID(id) {
		return nil, apperrors.NotFound("Service")
	}
	service, err := s.serviceRepo.Update(ctx, id, params)
	if err != nil {
		return nil, mapSlugError(err, "Service")
	}
	if service == nil {
		return nil, apperrors.NotFound("Service")
	}
	return service, nil
}

func (s *ContentService) DeleteService(ctx context.Context, id string) error {
	return mutateByID(ctx, id, "Service", s.serviceRepo.Delete)
}

// Projects

func (s *ContentService) ListProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return projects, nil
}

func (s *ContentService) GetProject(ctx context.Context, slug string) (*model.Project, error) {
	project, err := s.projectRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if project == nil {
		return nil, apperrors.NotFound("Project")
	}
	return project, nil
}

func (s *ContentService) CreateProject(ctx context.Context, params model.ProjectParams) (*model.Project, error) {
	project, err := s.projectRepo.Create(ctx, params)
	if err != nil {
		return nil, mapSlugError(err, "Project")
	}
	return project, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, id string, params model.ProjectParams) (*model.Project, error) {
	if !isValidID(id) {
		return nil, apperrors.NotFound("Project")
	}
	project, err := s.projectRepo.Update(ctx, id, params)
	if err != nil {
		return nil, mapSlugError(err, "Project")
	}
	if project == nil {
		return nil, apperrors.NotFound("Project")
	}
	return project, nil
}

func (s *ContentService) DeleteProject(ctx context.Context, id string) error {
	return mutateByID(ctx, id, "Project", s.projectRepo.Delete)
}

// Team

func (s *ContentService) ListActiveTeam(ctx context.Context) ([]model.TeamMember, error) {
	members, err := s.teamRepo.FindActive(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return members, nil
}

func (s *ContentService) ListAllTeam(ctx context.Context) ([]model.TeamMember, error) {
	members, err := s.teamRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return members, nil
}

func (s *ContentService) CreateTeamMember(ctx context.Context, params model.TeamMemberParams) (*model.TeamMember, error) {
	member, err := s.teamRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return member, nil
}

func (s *ContentService) UpdateTeamMember(ctx context.Context, id string, params model.TeamMemberParams) (*model.TeamMember, error) {
	if !isValidID(id) {
		return nil, apperrors.NotFound("Team member")
	}
	member, err := s.teamRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if member == nil {
		return nil, apperrors.NotFound("Team member")
	}
	return member, nil
}

func (s *ContentService) DeleteTeamMember(ctx context.Context, id string) error {
	return mutateByID(ctx, id, "Team member", s.teamRepo.Delete)
}

// Testimonials

func (s *ContentService) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	testimonials, err := s.testimonialRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return testimonials, nil
}

func (s *ContentService) CreateTestimonial(ctx context.Context, params model.TestimonialParams) (*model.Testimonial, error) {
	testimonial, err := s.testimonialRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return testimonial, nil
}

func (s *ContentService) UpdateTestimonial(ctx context.Context, id string, params model.TestimonialParams) (*model.Testimonial, error) {
	if !isValidID(id) {
		return nil, apperrors.NotFound("Testimonial")
	}
	testimonial, err := s.testimonialRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if testimonial == nil {
		return nil, apperrors.NotFound("Testimonial")
	}
	return testimonial, nil
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	return mutateByID(ctx, id, "Testimonial", s.testimonialRepo.Delete)
}

func mapSlugError(err error, resource string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateSlug):
		return apperrors.AlreadyExists(resource + " slug")
	case errors.Is(err, repository.ErrUnknownService):
		return apperrors.ValidationError("Unknown service")
	default:
		return apperrors.StoreFailure(err)
	}
}

func mutateByID(ctx context.Context, id, resource string, apply func(context.Context, string) (bool, error)) error {
	if !isValidID(id) {
		return apperrors.NotFound(resource)
	}
	found, err := apply(ctx, id)
	if err != nil {
		return apperrors.StoreFailure(err)
	}
	if !found {
		return apperrors.NotFound(resource)
	}
	return nil
}
