// Package presence tracks which users are active on which document. A record
// is upserted on every heartbeat; liveness is decided lazily at read time by
// comparing lastSeen against a fixed window, so there is no notion of an
// explicit disconnect. Stale rows may linger until a hygiene sweep or TTL
// removes them; readers never depend on that.
package presence

import (
	"context"
	"time"
)

// LivenessWindow is how long after its last heartbeat a record still counts
// as active.
const LivenessWindow = 5 * time.Minute

// Record is the ephemeral per (document, user) presence row.
type Record struct {
	DocumentID     string    `json:"documentId" bson:"documentId"`
	UserID         string    `json:"userId" bson:"userId"`
	UserName       string    `json:"userName" bson:"userName"`
	CursorPosition int       `json:"cursorPosition" bson:"cursorPosition"`
	LastSeen       time.Time `json:"lastSeen" bson:"lastSeen"`
}

// Active reports whether the record counts as live at the given instant.
func (r *Record) Active(now time.Time) bool {
	return r.LastSeen.After(now.Add(-LivenessWindow))
}

// Repository defines persistence operations for presence records.
// Implementations: MemoryRepo and RedisRepo.
type Repository interface {
	// Heartbeat upserts the (document, user) record: cursor and lastSeen are
	// overwritten when the record exists, otherwise it is inserted.
	Heartbeat(ctx context.Context, rec *Record) error
	// ListActive returns records for the document whose lastSeen falls inside
	// the liveness window relative to now, excluding excludeUserID. Ordering
	// is implementation-defined.
	ListActive(ctx context.Context, documentID, excludeUserID string, now time.Time) ([]*Record, error)
	DeleteAllForDocument(ctx context.Context, documentID string) error
}

// Sweeper is implemented by repositories that support physically deleting
// long-stale rows. Purely storage hygiene; correctness comes from read-time
// filtering.
type Sweeper interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int, error)
}
