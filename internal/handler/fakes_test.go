package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/repository"
	"github.com/iliyamo/pet-adoption-api/internal/utils"
)

// In-memory stores standing in for the MySQL repositories. They follow the
// same contracts, including the sentinel errors, so handler behavior can be
// exercised without a database.

type fakeAccounts struct {
	mu      sync.Mutex
	nextID  uint64
	byEmail map[string]*model.Account
	byID    map[uint64]*model.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byEmail: make(map[string]*model.Account),
		byID:    make(map[uint64]*model.Account),
	}
}

func (f *fakeAccounts) Create(_ context.Context, a *model.Account, password string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[a.Email]; ok {
		return repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	f.nextID++
	a.ID = f.nextID
	a.PasswordHash = hash
	f.byEmail[a.Email] = a
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id uint64) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, a *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[a.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	f.byID[a.ID] = a
	f.byEmail[a.Email] = a
	return nil
}

type likeKey struct {
	adopterID, petID uint64
}

// fakeStore implements both PetStore and LikeStore over shared state so the
// delete cascade (liked rows vanish with the listing) can be observed the
// same way it happens in MySQL.
type fakeStore struct {
	mu     sync.Mutex
	nextID uint64
	pets   map[uint64]*model.Pet
	likes  []likeKey
}

func newFakeStore() *fakeStore {
	return &fakeStore{pets: make(map[uint64]*model.Pet)}
}

func (f *fakeStore) Create(_ context.Context, p *model.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	p.Status = model.StatusAvailable
	cp := *p
	f.pets[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (*model.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pets[id]
	if !ok {
		return nil, repository.ErrPetNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListAvailable(_ context.Context) ([]*model.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Pet
	for _, p := range f.pets {
		if p.Status == model.StatusAvailable {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID uint64) ([]*model.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Pet
	for _, p := range f.pets {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, ownerID uint64, p *model.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.pets[p.ID]
	if !ok || cur.OwnerID != ownerID {
		return repository.ErrPetNotFound
	}
	cp := *p
	f.pets[p.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id, ownerID uint64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pets[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repository.ErrPetNotFound
	}
	urls := p.Images
	delete(f.pets, id)
	kept := f.likes[:0]
	for _, l := range f.likes {
		if l.petID != id {
			kept = append(kept, l)
		}
	}
	f.likes = kept
	return urls, nil
}

func (f *fakeStore) Like(_ context.Context, adopterID, petID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pets[petID]; !ok {
		return repository.ErrPetNotFound
	}
	for _, l := range f.likes {
		if l == (likeKey{adopterID, petID}) {
			return repository.ErrAlreadyLiked
		}
	}
	f.likes = append(f.likes, likeKey{adopterID, petID})
	return nil
}

func (f *fakeStore) Unlike(_ context.Context, adopterID, petID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.likes[:0]
	for _, l := range f.likes {
		if l != (likeKey{adopterID, petID}) {
			kept = append(kept, l)
		}
	}
	f.likes = kept
	return nil
}

func (f *fakeStore) ListLiked(_ context.Context, adopterID uint64) ([]*model.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Pet
	for _, l := range f.likes {
		if l.adopterID != adopterID {
			continue
		}
		if p, ok := f.pets[l.petID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
