package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/repository"
)

// Mock repositories

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindAll(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) ChangeRole(ctx context.Context, id string, role model.Role) (*model.Account, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccountRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) Revoke(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// memoryAccountRepo is an in-memory credential store with the same
// semantics as the Postgres repository, for end-to-end flows.
type memoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	clock    time.Time
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{
		accounts: make(map[string]*model.Account),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memoryAccountRepo) copyOf(a *model.Account) *model.Account {
	c := *a
	return &c
}

func (r *memoryAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return r.copyOf(a), nil
	}
	return nil, nil
}

func (r *memoryAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return r.copyOf(a), nil
		}
	}
	return nil, nil
}

func (r *memoryAccountRepo) FindAll(ctx context.Context) ([]model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	accounts := make([]model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, *a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *memoryAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == params.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	r.clock = r.clock.Add(time.Minute)
	a := &model.Account{
		ID:           uuid.NewString(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		Approved:     params.Approved,
		CreatedAt:    r.clock,
		UpdatedAt:    r.clock,
	}
	r.accounts[a.ID] = a
	return r.copyOf(a), nil
}

func (r *memoryAccountRepo) Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	if params.Name != nil {
		a.Name = *params.Name
	}
	if params.Approved != nil {
		a.Approved = *params.Approved
	}
	return r.copyOf(a), nil
}

func (r *memoryAccountRepo) ChangeRole(ctx context.Context, id string, role model.Role) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	if a.Role == model.RoleSuperAdmin && a.Approved && role != model.RoleSuperAdmin && r.superAdmins() <= 1 {
		return nil, repository.ErrLastSuperAdmin
	}
	a.Role = role
	return r.copyOf(a), nil
}

func (r *memoryAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	if a.Role == model.RoleSuperAdmin && a.Approved && r.superAdmins() <= 1 {
		return false, repository.ErrLastSuperAdmin
	}
	delete(r.accounts, id)
	return true, nil
}

func (r *memoryAccountRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.accounts {
		if a.Role == role && a.Approved {
			n++
		}
	}
	return n, nil
}

func (r *memoryAccountRepo) superAdmins() int {
	n := 0
	for _, a := range r.accounts {
		if a.Role == model.RoleSuperAdmin && a.Approved {
			n++
		}
	}
	return n
}

type recordingRevoker struct {
	mu      sync.Mutex
	revoked []string
}

func (r *recordingRevoker) Revoke(ctx context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked = append(r.revoked, accountID)
	return nil
}
