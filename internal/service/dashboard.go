package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/repository"
)

type DashboardStats struct {
	Services       int `json:"services"`
	Projects       int `json:"projects"`
	Team           int `json:"team"`
	Testimonials   int `json:"testimonials"`
	UnreadMessages int `json:"unreadMessages"`
}

type DashboardService struct {
	serviceRepo     repository.ServiceRepository
	projectRepo     repository.ProjectRepository
	teamRepo        repository.TeamMemberRepository
	testimonialRepo repository.TestimonialRepository
	messageRepo     repository.ContactMessageRepository
}

func NewDashboardService(
	serviceRepo repository.ServiceRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamMemberRepository,
	testimonialRepo repository.TestimonialRepository,
	messageRepo repository.ContactMessageRepository,
) *DashboardService {
	return &DashboardService{
		serviceRepo:     serviceRepo,
		projectRepo:     projectRepo,
		teamRepo:        teamRepo,
		testimonialRepo: testimonialRepo,
		messageRepo:     messageRepo,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&stats.Services, s.serviceRepo.Count)
	count(&stats.Projects, s.projectRepo.Count)
	count(&stats.Team, s.teamRepo.Count)
	count(&stats.Testimonials, s.testimonialRepo.Count)
	count(&stats.UnreadMessages, s.messageRepo.CountUnread)

	if err := g.Wait(); err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return &stats, nil
}
