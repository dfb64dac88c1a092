package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/repository"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	clock    time.Time
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[string]model.Account),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindAll(ctx context.Context) ([]model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]model.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (f *fakeAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == params.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	f.clock = f.clock.Add(time.Second)
	a := model.Account{
		ID:           uuid.NewString(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		Approved:     params.Approved,
		CreatedAt:    f.clock,
		UpdatedAt:    f.clock,
	}
	f.accounts[a.ID] = a
	return &a, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	if params.Name != nil {
		a.Name = *params.Name
	}
	if params.Approved != nil {
		a.Approved = *params.Approved
	}
	f.accounts[id] = a
	return &a, nil
}

func (f *fakeAccountRepo) ChangeRole(ctx context.Context, id string, role model.Role) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	if a.Role == model.RoleSuperAdmin && role != model.RoleSuperAdmin && f.superAdmins() <= 1 {
		return nil, repository.ErrLastSuperAdmin
	}
	a.Role = role
	f.accounts[id] = a
	return &a, nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return false, nil
	}
	if a.Role == model.RoleSuperAdmin && f.superAdmins() <= 1 {
		return false, repository.ErrLastSuperAdmin
	}
	delete(f.accounts, id)
	return true, nil
}

func (f *fakeAccountRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role == model.RoleSuperAdmin {
		return f.superAdmins(), nil
	}
	n := 0
	for _, a := range f.accounts {
		if a.Role == role && a.Approved {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountRepo) superAdmins() int {
	n := 0
	for _, a := range f.accounts {
		if a.Role == model.RoleSuperAdmin && a.Approved {
			n++
		}
	}
	return n
}
