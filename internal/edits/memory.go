package edits

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps the edit log in memory, one slice per document.
type MemoryRepo struct {
	mu   sync.RWMutex
	recs map[string][]*Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{recs: make(map[string][]*Record)}
}

func (m *MemoryRepo) Append(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs[rec.DocumentID] = append(m.recs[rec.DocumentID], &cp)
	return nil
}

func (m *MemoryRepo) ListByDocument(_ context.Context, documentID string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.recs[documentID]
	out := make([]*Record, 0, len(src))
	for _, r := range src {
		cp := *r
		out = append(out, &cp)
	}
	// appends already arrive in time order; sort keeps the contract when
	// writer clocks interleave
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MemoryRepo) DeleteAllForDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, documentID)
	return nil
}
