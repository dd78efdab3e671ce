package store

import (
	"context"

	"github.com/edakseva/grievance-server/internal/model"
)

// Store exposes persistence operations required by the lifecycle controller
// and the session service. Implementations live under internal/store/ and are
// document stores: every complaint mutation rewrites the whole collection
// under its versioned key (spec'd for local-dashboard scale, not indexing).
type Store interface {
	Complaints() Complaints
	Sessions() Sessions
	Prefs() Prefs
}

// Complaints is the ordered complaint collection, most recent first.
type Complaints interface {
	// Add inserts a new record at the front of the collection.
	// Returns model.ErrConflict when the identifier already exists.
	Add(ctx context.Context, rec *model.ComplaintRecord) error
	// Update replaces the record with the same identifier, preserving its
	// relative position. Returns model.ErrNotFound for unknown identifiers.
	Update(ctx context.Context, rec *model.ComplaintRecord) error
	// Get returns the record with the given identifier.
	Get(ctx context.Context, id string) (*model.ComplaintRecord, error)
	// List returns the full collection, most recent first.
	List(ctx context.Context) ([]*model.ComplaintRecord, error)
}

// Sessions holds the single active login.
type Sessions interface {
	Put(ctx context.Context, s *model.UserSession) error
	// Get returns the active session or model.ErrNotFound.
	Get(ctx context.Context) (*model.UserSession, error)
	Clear(ctx context.Context) error
}

// Prefs holds scalar display preferences.
type Prefs interface {
	Get(ctx context.Context) (*model.Prefs, error)
	Put(ctx context.Context, p *model.Prefs) error
}
