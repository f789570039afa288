package repository

import (
	"context"

	"github.com/coedit/coedit/internal/document"
)

// Repository defines persistence operations for documents.
// Implementations: MemoryRepo and MongoRepo.
type Repository interface {
	Create(ctx context.Context, doc *document.Document) (string, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	ListByOwner(ctx context.Context, owner string) ([]*document.Document, error)
	UpdateContent(ctx context.Context, id, content, editorID string) error
	Delete(ctx context.Context, id string) error
}
