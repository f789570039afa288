// Package users resolves opaque user ids to profile data. Identity issuance
// lives in an external service; this package only looks up and caches what
// the verifier's claims provide.
package users

import (
	"context"
	"time"
)

// Profile is the minimal user record the engine needs.
type Profile struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DisplayName derives the name shown in presence listings: name, then email,
// then a literal fallback.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return "Anonymous"
}

// Repository defines persistence operations for profiles. GetByID returns
// (nil, nil) when the id is unknown.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
}

// Service encapsulates profile lookup for the sync facade.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpsertFromClaims creates or refreshes a profile from verified token claims.
// Returns nil when the claims carry no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Profile, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, nil
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return s.repo.Upsert(ctx, &Profile{ID: sub, Name: name, Email: email})
}
