package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory profile store for single-node deployments and
// tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]*Profile)}
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepo) Upsert(_ context.Context, p *Profile) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	cp := *p
	if prev, ok := m.profiles[p.ID]; ok {
		cp.CreatedAt = prev.CreatedAt
	} else {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	m.profiles[p.ID] = &cp
	out := cp
	return &out, nil
}
