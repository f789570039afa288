package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coedit/coedit/internal/document"
)

// MemoryRepo is an in-memory document store used for single-node deployments
// and unit tests. Every operation takes the lock once, so each call is atomic
// with respect to concurrent readers.
type MemoryRepo struct {
	mu    sync.RWMutex
	docs  map[string]*document.Document
	order []string // ids in insertion order, newest last
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]*document.Document)}
}

func (m *MemoryRepo) Create(_ context.Context, doc *document.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.LastModifiedAt = now
	cp := *doc
	m.docs[doc.ID] = &cp
	m.order = append(m.order, doc.ID)
	return doc.ID, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, document.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// ListByOwner returns the owner's documents, most recently created first.
func (m *MemoryRepo) ListByOwner(_ context.Context, owner string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for i := len(m.order) - 1; i >= 0; i-- {
		d, ok := m.docs[m.order[i]]
		if !ok || d.CreatedBy != owner {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

// UpdateContent replaces the content wholesale and stamps the modifier.
// Last write wins: concurrent updates are not merged, the later one simply
// overwrites.
func (m *MemoryRepo) UpdateContent(_ context.Context, id, content, editorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return document.ErrNotFound
	}
	d.Content = content
	d.LastModifiedBy = editorID
	d.LastModifiedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return document.ErrNotFound
	}
	delete(m.docs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
