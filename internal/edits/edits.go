// Package edits holds the append-only history of content snapshots per
// document. Records are never mutated; the only deletion path is the cascade
// that runs when the parent document is removed.
package edits

import (
	"context"
	"time"
)

// Record is one content snapshot written by an editor.
type Record struct {
	DocumentID     string    `json:"documentId" bson:"documentId"`
	UserID         string    `json:"userId" bson:"userId"`
	Content        string    `json:"content" bson:"content"`
	CursorPosition int       `json:"cursorPosition" bson:"cursorPosition"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
}

// Repository defines persistence operations for the edit log.
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	// ListByDocument returns the document's records ordered by timestamp
	// ascending.
	ListByDocument(ctx context.Context, documentID string) ([]*Record, error)
	DeleteAllForDocument(ctx context.Context, documentID string) error
}
