// Package sync is the operation surface of the document synchronization
// engine. It authenticates every call, composes the document store, edit log
// and presence tracker, and publishes change events. Concurrency policy is
// last-write-wins on whole-content replacement: concurrent updates are not
// merged, the later commit silently wins.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coedit/coedit/internal/document"
	"github.com/coedit/coedit/internal/document/repository"
	"github.com/coedit/coedit/internal/edits"
	"github.com/coedit/coedit/internal/presence"
	"github.com/coedit/coedit/internal/users"
	"github.com/coedit/coedit/pkg/logger"
	"github.com/coedit/coedit/pkg/metrics"
)

// Archiver exports a document's edit history before its cascade delete.
// Failures are logged and never block the delete.
type Archiver interface {
	ArchiveHistory(ctx context.Context, documentID string, recs []*edits.Record) error
}

// Service is the synchronization facade.
type Service struct {
	docs     repository.Repository
	log      edits.Repository
	presence presence.Repository
	profiles *users.Service
	notifier *Notifier
	archiver Archiver
	now      func() time.Time
}

func NewService(docs repository.Repository, log edits.Repository, pres presence.Repository, profiles *users.Service, notifier *Notifier) *Service {
	return &Service{
		docs:     docs,
		log:      log,
		presence: pres,
		profiles: profiles,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetArchiver enables history export on delete.
func (s *Service) SetArchiver(a Archiver) { s.archiver = a }

// SetClock overrides the wall clock; tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Notifier exposes the change feed for transport collaborators.
func (s *Service) Notifier() *Notifier { return s.notifier }

func authenticated(callerID string) error {
	if callerID == "" {
		return document.ErrUnauthenticated
	}
	return nil
}

// CreateDocument creates an empty document owned by the caller. The body's
// language/kind pairing is validated before any mutation.
func (s *Service) CreateDocument(ctx context.Context, callerID, title string, body document.Body) (string, error) {
	if err := authenticated(callerID); err != nil {
		return "", err
	}
	if err := body.Validate(); err != nil {
		return "", err
	}
	doc := &document.Document{
		Title:          title,
		Content:        "",
		Body:           body,
		CreatedBy:      callerID,
		LastModifiedBy: callerID,
	}
	id, err := s.docs.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	metrics.DocumentsCreated.Inc()
	return id, nil
}

func (s *Service) GetDocument(ctx context.Context, callerID, documentID string) (*document.Document, error) {
	if err := authenticated(callerID); err != nil {
		return nil, err
	}
	return s.docs.Get(ctx, documentID)
}

// ListDocuments returns the caller's own documents, most recently created
// first.
func (s *Service) ListDocuments(ctx context.Context, callerID string) ([]*document.Document, error) {
	if err := authenticated(callerID); err != nil {
		return nil, err
	}
	return s.docs.ListByOwner(ctx, callerID)
}

// UpdateDocument replaces the document's content and appends an edit record.
// Any authenticated caller holding the id may edit; there is no ACL beyond
// owner-only delete. The update and the modification stamps commit together;
// the edit append follows, so a duplicate retry after a mid-call failure would
// duplicate history, which is the caller's responsibility to avoid.
func (s *Service) UpdateDocument(ctx context.Context, callerID, documentID, content string, cursorPosition int) error {
	if err := authenticated(callerID); err != nil {
		return err
	}
	if err := s.docs.UpdateContent(ctx, documentID, content, callerID); err != nil {
		return err
	}
	rec := &edits.Record{
		DocumentID:     documentID,
		UserID:         callerID,
		Content:        content,
		CursorPosition: cursorPosition,
		Timestamp:      s.now(),
	}
	if err := s.log.Append(ctx, rec); err != nil {
		return fmt.Errorf("append edit: %w", err)
	}
	metrics.EditsApplied.Inc()
	s.notifier.Publish(Event{DocumentID: documentID, Kind: EventUpdated, UserID: callerID, At: rec.Timestamp})
	return nil
}

// DeleteDocument removes the document and all its dependent rows. Owner only.
// Dependents go first so an interrupted cascade never leaves history for a
// live document; leftovers referencing a deleted id are lazily reclaimed
// garbage.
func (s *Service) DeleteDocument(ctx context.Context, callerID, documentID string) error {
	if err := authenticated(callerID); err != nil {
		return err
	}
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.CreatedBy != callerID {
		return fmt.Errorf("%w: only the owner may delete a document", document.ErrForbidden)
	}
	if s.archiver != nil {
		if recs, err := s.log.ListByDocument(ctx, documentID); err == nil {
			if err := s.archiver.ArchiveHistory(ctx, documentID, recs); err != nil {
				logger.Sugar.Warnf("history archive for %s failed: %v", documentID, err)
			}
		} else {
			logger.Sugar.Warnf("history read for archive of %s failed: %v", documentID, err)
		}
	}
	if err := s.log.DeleteAllForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("cascade edit log: %w", err)
	}
	if err := s.presence.DeleteAllForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("cascade presence: %w", err)
	}
	if err := s.docs.Delete(ctx, documentID); err != nil {
		return err
	}
	metrics.DocumentsDeleted.Inc()
	s.notifier.Publish(Event{DocumentID: documentID, Kind: EventDeleted, UserID: callerID, At: s.now()})
	return nil
}

// UpdatePresence upserts the caller's heartbeat for the document. The caller
// must have a resolvable profile; the display name prefers profile name, then
// email, then "Anonymous".
func (s *Service) UpdatePresence(ctx context.Context, callerID, documentID string, cursorPosition int) error {
	if err := authenticated(callerID); err != nil {
		return err
	}
	p, err := s.profiles.Get(ctx, callerID)
	if err != nil {
		return fmt.Errorf("profile lookup: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: user %s", document.ErrNotFound, callerID)
	}
	rec := &presence.Record{
		DocumentID:     documentID,
		UserID:         callerID,
		UserName:       p.DisplayName(),
		CursorPosition: cursorPosition,
		LastSeen:       s.now(),
	}
	if err := s.presence.Heartbeat(ctx, rec); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	metrics.PresenceHeartbeats.Inc()
	return nil
}

// GetActiveUsers lists users seen on the document within the liveness window,
// never including the caller's own record.
func (s *Service) GetActiveUsers(ctx context.Context, callerID, documentID string) ([]*presence.Record, error) {
	if err := authenticated(callerID); err != nil {
		return nil, err
	}
	return s.presence.ListActive(ctx, documentID, callerID, s.now())
}

// GetHistory returns the document's edit log, oldest first.
func (s *Service) GetHistory(ctx context.Context, callerID, documentID string) ([]*edits.Record, error) {
	if err := authenticated(callerID); err != nil {
		return nil, err
	}
	if _, err := s.docs.Get(ctx, documentID); err != nil {
		return nil, err
	}
	return s.log.ListByDocument(ctx, documentID)
}

// StartPresenceSweeper periodically deletes presence rows idle longer than
// maxIdle when the repository supports it. Hygiene only; safe to never run.
func (s *Service) StartPresenceSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	sweeper, ok := s.presence.(presence.Sweeper)
	if !ok {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := sweeper.DeleteIdleBefore(ctx, s.now().Add(-maxIdle))
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Sugar.Warnf("presence sweep failed: %v", err)
				} else if n > 0 {
					logger.Sugar.Debugf("presence sweep removed %d stale rows", n)
				}
			}
		}
	}()
}
