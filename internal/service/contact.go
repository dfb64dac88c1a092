package service

import (
	"context"
	"strings"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/repository"
)

type ContactService struct {
	messageRepo repository.ContactMessageRepository
}

func NewContactService(messageRepo repository.ContactMessageRepository) *ContactService {
	return &ContactService{messageRepo: messageRepo}
}

func (s *ContactService) Submit(ctx context.Context, params model.CreateContactMessageParams) (*model.ContactMessage, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = NormalizeEmail(params.Email)
	params.Message = strings.TrimSpace(params.Message)

	message, err := s.messageRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return message, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]model.ContactMessage, int, error) {
	messages, err := s.messageRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.StoreFailure(err)
	}
	total, err := s.messageRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.StoreFailure(err)
	}
	return messages, total, nil
}

func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	return mutateByID(ctx, id, "Message", s.messageRepo.MarkRead)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return mutateByID(ctx, id, "Message", s.messageRepo.Delete)
}
