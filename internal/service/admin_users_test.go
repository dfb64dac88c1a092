package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/model"
)

const missingID = "11111111-1111-1111-1111-111111111111"

func identityOf(a *model.Account) model.Identity {
	return model.Identity{AccountID: a.ID, Role: a.Role}
}

func TestAdminUserService_SelfGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("denied before the store is consulted", func(t *testing.T) {
		repo := new(mockAccountRepo)
		svc := NewAdminUserService(repo, new(mockRevoker))
		actor := model.Identity{AccountID: "22222222-2222-2222-2222-222222222222", Role: model.RoleSuperAdmin}

		_, err := svc.Approve(ctx, actor, actor.AccountID)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		_, err = svc.ChangeRole(ctx, actor, actor.AccountID, model.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		_, err = svc.ChangeRole(ctx, actor, actor.AccountID, "MANAGER")
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		err = svc.Delete(ctx, actor, actor.AccountID)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		assert.Empty(t, repo.Calls)
	})

	t.Run("own id in upper case is still denied", func(t *testing.T) {
		repo := new(mockAccountRepo)
		svc := NewAdminUserService(repo, new(mockRevoker))
		actor := model.Identity{AccountID: "abcdef12-3456-7890-abcd-ef1234567890", Role: model.RoleSuperAdmin}
		upper := strings.ToUpper(actor.AccountID)

		_, err := svc.Approve(ctx, actor, upper)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		_, err = svc.ChangeRole(ctx, actor, upper, model.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		err = svc.Delete(ctx, actor, upper)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		assert.Empty(t, repo.Calls)
	})

	t.Run("messages name the action", func(t *testing.T) {
		svc := NewAdminUserService(new(mockAccountRepo), new(mockRevoker))
		actor := model.Identity{AccountID: missingID, Role: model.RoleSuperAdmin}

		_, err := svc.Approve(ctx, actor, missingID)
		assert.Equal(t, "You cannot approve yourself", err.(*apperrors.AppError).Message)

		_, err = svc.ChangeRole(ctx, actor, missingID, model.RoleAdmin)
		assert.Equal(t, "You cannot change your own role", err.(*apperrors.AppError).Message)

		err = svc.Delete(ctx, actor, missingID)
		assert.Equal(t, "You cannot delete yourself", err.(*apperrors.AppError).Message)
	})
}

func TestAdminUserService_RoleGate(t *testing.T) {
	ctx := context.Background()
	repo := new(mockAccountRepo)
	svc := NewAdminUserService(repo, new(mockRevoker))
	admin := model.Identity{AccountID: "33333333-3333-3333-3333-333333333333", Role: model.RoleAdmin}

	_, err := svc.ListAccounts(ctx, admin)
	assert.ErrorIs(t, err, apperrors.Forbidden(""))

	_, err = svc.Approve(ctx, admin, missingID)
	assert.ErrorIs(t, err, apperrors.Forbidden(""))

	_, err = svc.ChangeRole(ctx, admin, missingID, model.RoleSuperAdmin)
	assert.ErrorIs(t, err, apperrors.Forbidden(""))

	err = svc.Delete(ctx, admin, missingID)
	assert.ErrorIs(t, err, apperrors.Forbidden(""))

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		_, err := svc.ListAccounts(ctx, model.Identity{})
		assert.ErrorIs(t, err, apperrors.Unauthorized())
	})

	assert.Empty(t, repo.Calls)
}

func TestAdminUserService_ListAccounts(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryAccountRepo()
	boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
	seedAccount(t, repo, "first@x.com", "secret123", model.RoleAdmin, false)
	seedAccount(t, repo, "second@x.com", "secret123", model.RoleAdmin, true)
	svc := NewAdminUserService(repo, &recordingRevoker{})

	accounts, err := svc.ListAccounts(ctx, identityOf(boss))
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "second@x.com", accounts[0].Email)
	assert.Equal(t, "first@x.com", accounts[1].Email)
	assert.Equal(t, "boss@x.com", accounts[2].Email)
}

func TestAdminUserService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		bob := seedAccount(t, repo, "bob@x.com", "secret123", model.RoleAdmin, false)
		svc := NewAdminUserService(repo, &recordingRevoker{})

		first, err := svc.Approve(ctx, identityOf(boss), bob.ID)
		require.NoError(t, err)
		assert.True(t, first.Approved)

		second, err := svc.Approve(ctx, identityOf(boss), bob.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown target", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		svc := NewAdminUserService(repo, &recordingRevoker{})

		_, err := svc.Approve(ctx, identityOf(boss), missingID)
		assert.ErrorIs(t, err, apperrors.NotFound("Admin"))

		_, err = svc.Approve(ctx, identityOf(boss), "not-a-uuid")
		assert.ErrorIs(t, err, apperrors.NotFound("Admin"))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("Update", mock.Anything, missingID, mock.Anything).Return(nil, errors.New("deadlock"))
		svc := NewAdminUserService(repo, new(mockRevoker))

		_, err := svc.Approve(ctx, model.Identity{AccountID: "44444444-4444-4444-4444-444444444444", Role: model.RoleSuperAdmin}, missingID)
		assert.Equal(t, apperrors.ErrCodeStoreFailure, apperrors.GetCode(err))
	})
}

func TestAdminUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid role leaves target unchanged", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		bob := seedAccount(t, repo, "bob@x.com", "secret123", model.RoleAdmin, true)
		svc := NewAdminUserService(repo, &recordingRevoker{})

		_, err := svc.ChangeRole(ctx, identityOf(boss), bob.ID, "MANAGER")
		assert.ErrorIs(t, err, apperrors.InvalidRole())

		stored, _ := repo.FindByID(ctx, bob.ID)
		assert.Equal(t, model.RoleAdmin, stored.Role)
	})

	t.Run("promotes and revokes outstanding tokens", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		bob := seedAccount(t, repo, "bob@x.com", "secret123", model.RoleAdmin, true)
		revoker := &recordingRevoker{}
		svc := NewAdminUserService(repo, revoker)

		summary, err := svc.ChangeRole(ctx, identityOf(boss), bob.ID, model.RoleSuperAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleSuperAdmin, summary.Role)
		assert.Equal(t, []string{bob.ID}, revoker.revoked)
	})

	t.Run("upper-case target is stored and revoked in canonical form", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		bob := seedAccount(t, repo, "bob@x.com", "secret123", model.RoleAdmin, true)
		revoker := &recordingRevoker{}
		svc := NewAdminUserService(repo, revoker)

		summary, err := svc.ChangeRole(ctx, identityOf(boss), strings.ToUpper(bob.ID), model.RoleSuperAdmin)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, summary.ID)
		assert.Equal(t, []string{bob.ID}, revoker.revoked)

		require.NoError(t, svc.Delete(ctx, identityOf(boss), strings.ToUpper(bob.ID)))
		assert.Equal(t, []string{bob.ID, bob.ID}, revoker.revoked)
	})

	t.Run("refuses to demote the last super admin", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		only := seedAccount(t, repo, "only@x.com", "secret123", model.RoleSuperAdmin, true)
		svc := NewAdminUserService(repo, &recordingRevoker{})
		// A forged identity other than the target, since self-demotion is guarded separately.
		actor := model.Identity{AccountID: missingID, Role: model.RoleSuperAdmin}

		_, err := svc.ChangeRole(ctx, actor, only.ID, model.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.LastSuperAdmin())

		stored, _ := repo.FindByID(ctx, only.ID)
		assert.Equal(t, model.RoleSuperAdmin, stored.Role)
	})

	t.Run("unknown target", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		revoker := &recordingRevoker{}
		svc := NewAdminUserService(repo, revoker)

		_, err := svc.ChangeRole(ctx, identityOf(boss), missingID, model.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.NotFound("Admin"))
		assert.Empty(t, revoker.revoked)
	})

	t.Run("revocation failure does not fail the change", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("ChangeRole", mock.Anything, missingID, model.RoleAdmin).
			Return(&model.Account{ID: missingID, Role: model.RoleAdmin, Approved: true}, nil)
		revoker := new(mockRevoker)
		revoker.On("Revoke", mock.Anything, missingID).Return(errors.New("redis down"))
		svc := NewAdminUserService(repo, revoker)

		summary, err := svc.ChangeRole(ctx, model.Identity{AccountID: "55555555-5555-5555-5555-555555555555", Role: model.RoleSuperAdmin}, missingID, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, summary.Role)
		revoker.AssertExpectations(t)
	})
}

func TestAdminUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("hard deletes and revokes", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		bob := seedAccount(t, repo, "bob@x.com", "secret123", model.RoleAdmin, true)
		revoker := &recordingRevoker{}
		svc := NewAdminUserService(repo, revoker)

		require.NoError(t, svc.Delete(ctx, identityOf(boss), bob.ID))

		stored, _ := repo.FindByID(ctx, bob.ID)
		assert.Nil(t, stored)
		assert.Equal(t, []string{bob.ID}, revoker.revoked)
	})

	t.Run("unknown target", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		boss := seedAccount(t, repo, "boss@x.com", "secret123", model.RoleSuperAdmin, true)
		svc := NewAdminUserService(repo, &recordingRevoker{})

		err := svc.Delete(ctx, identityOf(boss), missingID)
		assert.ErrorIs(t, err, apperrors.NotFound("Admin"))
	})

	t.Run("refuses to delete the last super admin", func(t *testing.T) {
		repo := newMemoryAccountRepo()
		only := seedAccount(t, repo, "only@x.com", "secret123", model.RoleSuperAdmin, true)
		svc := NewAdminUserService(repo, &recordingRevoker{})

		err := svc.Delete(ctx, model.Identity{AccountID: missingID, Role: model.RoleSuperAdmin}, only.ID)
		assert.ErrorIs(t, err, apperrors.LastSuperAdmin())
	})
}

// Signup, pending login, approval by a super admin, then a successful login
// whose token carries the ADMIN role.
func TestAccessRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	auth, repo, tokens := newTestAuth(t)
	admins := NewAdminUserService(repo, &recordingRevoker{})
	boss := seedAccount(t, repo, "boss@x.com", "boss-password", model.RoleSuperAdmin, true)

	bob, err := auth.Signup(ctx, SignupParams{Name: "Bob", Email: "bob@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, LoginParams{Email: "bob@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.AwaitingApproval())

	approved, err := admins.Approve(ctx, identityOf(boss), bob.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	result, err := auth.Login(ctx, LoginParams{Email: "bob@x.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	t.Run("super admin cannot demote itself", func(t *testing.T) {
		_, err := admins.ChangeRole(ctx, identityOf(boss), boss.ID, model.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.SelfActionDenied(""))

		stored, _ := repo.FindByID(ctx, boss.ID)
		assert.Equal(t, model.RoleSuperAdmin, stored.Role)
	})

	t.Run("admin cannot manage others", func(t *testing.T) {
		_, err := admins.ChangeRole(ctx, claims.Identity(), boss.ID, model.RoleAdmin)
		assert.ErrorIs(t, err, apperrors.Forbidden(""))

		err = admins.Delete(ctx, claims.Identity(), boss.ID)
		assert.ErrorIs(t, err, apperrors.Forbidden(""))
	})
}
