package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/repository"
)

const (
	MsgSelfApprove = "You cannot approve yourself"
	MsgSelfRole    = "You cannot change your own role"
	MsgSelfDelete  = "You cannot delete yourself"
	msgSuperOnly   = "Super admin access required"
)

// TokenRevoker invalidates every session token already issued to an account.
type TokenRevoker interface {
	Revoke(ctx context.Context, accountID string) error
}

// AdminUserService manages accounts other than the acting one. Every
// operation requires a SUPER_ADMIN actor.
type AdminUserService struct {
	accountRepo repository.AccountRepository
	revoker     TokenRevoker
}

func NewAdminUserService(accountRepo repository.AccountRepository, revoker TokenRevoker) *AdminUserService {
	return &AdminUserService{
		accountRepo: accountRepo,
		revoker:     revoker,
	}
}

func (s *AdminUserService) ListAccounts(ctx context.Context, actor model.Identity) ([]model.AccountSummary, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	summaries := make([]model.AccountSummary, len(accounts))
	for i := range accounts {
		summaries[i] = accounts[i].Summary()
	}
	return summaries, nil
}

// Approve is idempotent: approving an approved account succeeds unchanged.
func (s *AdminUserService) Approve(ctx context.Context, actor model.Identity, targetID string) (*model.AccountSummary, error) {
	id, err := guard(actor, targetID, MsgSelfApprove)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.NotFound("Admin")
	}

	approved := true
	account, err := s.accountRepo.Update(ctx, id, model.UpdateAccountParams{Approved: &approved})
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Admin")
	}

	summary := account.Summary()
	return &summary, nil
}

func (s *AdminUserService) ChangeRole(ctx context.Context, actor model.Identity, targetID string, role model.Role) (*model.AccountSummary, error) {
	id, err := guard(actor, targetID, MsgSelfRole)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.InvalidRole()
	}
	if id == "" {
		return nil, apperrors.NotFound("Admin")
	}

	account, err := s.accountRepo.ChangeRole(ctx, id, role)
	if errors.Is(err, repository.ErrLastSuperAdmin) {
		return nil, apperrors.LastSuperAdmin()
	}
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Admin")
	}

	s.revoke(ctx, id)

	summary := account.Summary()
	return &summary, nil
}

func (s *AdminUserService) Delete(ctx context.Context, actor model.Identity, targetID string) error {
	id, err := guard(actor, targetID, MsgSelfDelete)
	if err != nil {
		return err
	}
	if id == "" {
		return apperrors.NotFound("Admin")
	}

	deleted, err := s.accountRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrLastSuperAdmin) {
		return apperrors.LastSuperAdmin()
	}
	if err != nil {
		return apperrors.StoreFailure(err)
	}
	if !deleted {
		return apperrors.NotFound("Admin")
	}

	s.revoke(ctx, id)
	return nil
}

// revoke failures are logged, not returned: the account change is already
// committed and outstanding tokens still expire on their own.
func (s *AdminUserService) revoke(ctx context.Context, accountID string) {
	if err := s.revoker.Revoke(ctx, accountID); err != nil {
		log.Error().Err(err).Str("accountId", accountID).Msg("failed to revoke session tokens")
	}
}

// guard runs the role check and then the self-action check, both before the
// target is looked up. It returns the canonical form of targetID, or "" when
// targetID is not an account id.
func guard(actor model.Identity, targetID, selfMessage string) (string, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return "", err
	}
	id := model.CanonicalID(targetID)
	if id != "" && id == model.CanonicalID(actor.AccountID) {
		return "", apperrors.SelfActionDenied(selfMessage)
	}
	return id, nil
}

func requireSuperAdmin(actor model.Identity) error {
	if actor.AccountID == "" {
		return apperrors.Unauthorized()
	}
	if actor.Role != model.RoleSuperAdmin {
		return apperrors.Forbidden(msgSuperOnly)
	}
	return nil
}

func isValidID(id string) bool {
	return model.CanonicalID(id) != ""
}
