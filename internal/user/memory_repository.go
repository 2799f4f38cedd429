package user

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
	order []string // insertion order, stands in for created_at sorting
}

// NewMemoryRepository builds an in-memory user store. It backs tests and the
// dev fallback when no database is configured.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
		if u.PartnerID != "" && existing.PartnerID == u.PartnerID {
			return ErrPartnerIDExists
		}
	}
	r.users[u.ID] = cloneUser(u)
	r.order = append(r.order, u.ID)
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryRepository) FindPartner(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.Role != RolePartner {
		return User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryRepository) ListPartners(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	partners := []User{}
	for _, id := range r.order {
		if u := r.users[id]; u.Role == RolePartner {
			partners = append(partners, cloneUser(u))
		}
	}
	return partners, nil
}

func (r *memoryRepository) LatestPartnerID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		u := r.users[r.order[i]]
		if u.Role == RolePartner && u.PartnerID != "" {
			return u.PartnerID, nil
		}
	}
	return "", nil
}

func (r *memoryRepository) UpdatePartner(_ context.Context, id string, patch PartnerPatch) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Role != RolePartner {
		return User{}, ErrNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *patch.Email {
				return User{}, ErrEmailExists
			}
		}
	}
	patch.Apply(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *memoryRepository) SetPartnerActive(_ context.Context, id string, active bool) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Role != RolePartner {
		return User{}, ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *memoryRepository) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.users {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// cloneUser copies pointer fields so callers cannot mutate stored records.
func cloneUser(u User) User {
	c := u
	if u.FeePercent != nil {
		fee := *u.FeePercent
		c.FeePercent = &fee
	}
	if u.StartDate != nil {
		t := *u.StartDate
		c.StartDate = &t
	}
	if u.EndDate != nil {
		t := *u.EndDate
		c.EndDate = &t
	}
	if u.PasswordHash != nil {
		c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	}
	return c
}
