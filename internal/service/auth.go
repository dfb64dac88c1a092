package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/repository"
	"github.com/ineffable/agency-server/internal/util"
)

type TokenIssuer interface {
	Issue(identity model.Identity, ttl time.Duration) (string, time.Time, error)
}

type LoginParams struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupParams struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginResult struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Admin     model.AccountSummary `json:"admin"`
}

type BootstrapParams struct {
	Name         string
	Email        string
	PasswordHash string
}

type AuthService struct {
	accountRepo repository.AccountRepository
	hasher      *util.PasswordHasher
	tokens      TokenIssuer
	tokenTTL    time.Duration
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	hasher *util.PasswordHasher,
	tokens TokenIssuer,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		hasher:      hasher,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
	}
}

// NormalizeEmail makes email lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login exchanges credentials for a session token. An unknown email and a
// wrong password fail identically; an unapproved account is reported as such.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if params.Password == "" {
		return nil, apperrors.MissingRequired("password")
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if account == nil {
		s.hasher.VerifyMissing(params.Password)
		return nil, apperrors.InvalidCredentials()
	}

	if !account.Approved {
		return nil, apperrors.AwaitingApproval()
	}

	if !s.hasher.Verify(params.Password, account.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(model.Identity{
		AccountID: account.ID,
		Role:      account.Role,
	}, s.tokenTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token").WithCause(err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     account.Summary(),
	}, nil
}

// Signup records an access request. The account starts unapproved with the
// ADMIN role and cannot log in until another admin approves it.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*model.AccountSummary, error) {
	name := strings.TrimSpace(params.Name)
	email := NormalizeEmail(params.Email)
	switch {
	case name == "":
		return nil, apperrors.MissingRequired("name")
	case email == "":
		return nil, apperrors.MissingRequired("email")
	case params.Password == "":
		return nil, apperrors.MissingRequired("password")
	}

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if existing != nil {
		return nil, apperrors.DuplicateEmail()
	}

	hash, err := s.hasher.Hash(params.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.ValidationError("Password is too long")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Approved:     false,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, apperrors.DuplicateEmail()
	}
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	summary := account.Summary()
	return &summary, nil
}

// Me returns the current state of the acting account.
func (s *AuthService) Me(ctx context.Context, identity model.Identity) (*model.AccountSummary, error) {
	account, err := s.accountRepo.FindByID(ctx, identity.AccountID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if account == nil || !account.Approved {
		return nil, apperrors.Unauthorized()
	}

	summary := account.Summary()
	return &summary, nil
}

// EnsureBootstrapAdmin seeds an approved SUPER_ADMIN when none exists, so a
// fresh deployment has someone able to approve further accounts. It reports
// whether anything was written.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, params BootstrapParams) (bool, error) {
	count, err := s.accountRepo.CountByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		return false, apperrors.StoreFailure(err)
	}
	if count > 0 {
		return false, nil
	}

	email := NormalizeEmail(params.Email)
	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, apperrors.StoreFailure(err)
	}

	if existing != nil {
		approved := true
		if _, err := s.accountRepo.Update(ctx, existing.ID, model.UpdateAccountParams{Approved: &approved}); err != nil {
			return false, apperrors.StoreFailure(err)
		}
		if _, err := s.accountRepo.ChangeRole(ctx, existing.ID, model.RoleSuperAdmin); err != nil {
			return false, apperrors.StoreFailure(err)
		}
		log.Info().Str("accountId", existing.ID).Msg("promoted existing account to bootstrap super admin")
		return true, nil
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Name:         params.Name,
		Email:        email,
		PasswordHash: params.PasswordHash,
		Role:         model.RoleSuperAdmin,
		Approved:     true,
	})
	if err != nil {
		return false, apperrors.StoreFailure(err)
	}

	log.Info().Str("accountId", account.ID).Msg("created bootstrap super admin")
	return true, nil
}
