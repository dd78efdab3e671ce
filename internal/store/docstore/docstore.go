// Package docstore implements store.Store over any kv.KV backend.
//
// The complaint collection is held in memory and serialized as one JSON
// document under a versioned key on every mutation; it is deserialized once
// at construction. A corrupt or missing payload loads as an empty collection,
// never a fatal error. A version bump in the key name abandons prior data;
// there is no migration path.
package docstore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/store"
	"github.com/edakseva/grievance-server/internal/store/kv"
)

// Versioned storage keys. The suffix tracks the record schema generation.
const (
	complaintsKey = "dak_seva_complaints_v4_1"
	sessionKey    = "dak_seva_session_v4_1"
	langKey       = "dak_seva_lang"
	scaleKey      = "dak_seva_font_size"
)

const (
	defaultLanguage = "en"
	defaultScale    = 100
)

type docStore struct {
	backend kv.KV
	log     zerolog.Logger

	// mu serializes whole-collection writes. There is deliberately no
	// per-record version check: concurrent updates to the same identifier
	// are last-write-wins.
	mu      sync.RWMutex
	records []*model.ComplaintRecord
}

// New loads the complaint collection from the backend and returns the store.
func New(ctx context.Context, backend kv.KV, log zerolog.Logger) (store.Store, error) {
	ds := &docStore{backend: backend, log: log}

	raw, err := backend.Get(ctx, complaintsKey)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &ds.records); jsonErr != nil {
			log.Warn().Err(jsonErr).Msg("complaint collection corrupt, starting empty")
			ds.records = nil
		}
	case err == model.ErrNotFound:
		// first run
	default:
		return nil, err
	}
	return ds, nil
}

func (ds *docStore) Complaints() store.Complaints { return (*complaints)(ds) }
func (ds *docStore) Sessions() store.Sessions     { return (*sessions)(ds) }
func (ds *docStore) Prefs() store.Prefs           { return (*prefs)(ds) }

// HealthPing implements health.HealthPinger by probing the backend.
func (ds *docStore) HealthPing(ctx context.Context) error {
	return ds.backend.HealthPing(ctx)
}

// flush writes the entire collection back to the backend. Callers must hold mu.
func (ds *docStore) flush(ctx context.Context) error {
	raw, err := json.Marshal(ds.records)
	if err != nil {
		return err
	}
	return ds.backend.Put(ctx, complaintsKey, raw)
}

func copyRecord(r *model.ComplaintRecord) *model.ComplaintRecord {
	cp := *r
	return &cp
}

// --- Complaints ---

type complaints docStore

func (c *complaints) Add(ctx context.Context, rec *model.ComplaintRecord) error {
	ds := (*docStore)(c)
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for _, existing := range ds.records {
		if existing.ID == rec.ID {
			return model.ErrConflict
		}
	}
	// most recent first
	ds.records = append([]*model.ComplaintRecord{copyRecord(rec)}, ds.records...)
	if err := ds.flush(ctx); err != nil {
		ds.records = ds.records[1:]
		return err
	}
	return nil
}

func (c *complaints) Update(ctx context.Context, rec *model.ComplaintRecord) error {
	ds := (*docStore)(c)
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for i, existing := range ds.records {
		if existing.ID == rec.ID {
			prev := ds.records[i]
			ds.records[i] = copyRecord(rec)
			if err := ds.flush(ctx); err != nil {
				ds.records[i] = prev
				return err
			}
			return nil
		}
	}
	return model.ErrNotFound
}

func (c *complaints) Get(_ context.Context, id string) (*model.ComplaintRecord, error) {
	ds := (*docStore)(c)
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	for _, rec := range ds.records {
		if rec.ID == id {
			return copyRecord(rec), nil
		}
	}
	return nil, model.ErrNotFound
}

func (c *complaints) List(context.Context) ([]*model.ComplaintRecord, error) {
	ds := (*docStore)(c)
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	out := make([]*model.ComplaintRecord, len(ds.records))
	for i, rec := range ds.records {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

// --- Sessions ---

type sessions docStore

func (s *sessions) Put(ctx context.Context, sess *model.UserSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return (*docStore)(s).backend.Put(ctx, sessionKey, raw)
}

func (s *sessions) Get(ctx context.Context) (*model.UserSession, error) {
	raw, err := (*docStore)(s).backend.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	var sess model.UserSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		// unreadable session is treated as logged out
		return nil, model.ErrNotFound
	}
	return &sess, nil
}

func (s *sessions) Clear(ctx context.Context) error {
	return (*docStore)(s).backend.Delete(ctx, sessionKey)
}

// --- Prefs ---

type prefs docStore

func (p *prefs) Get(ctx context.Context) (*model.Prefs, error) {
	ds := (*docStore)(p)
	out := &model.Prefs{Language: defaultLanguage, DisplayScale: defaultScale}

	if raw, err := ds.backend.Get(ctx, langKey); err == nil && len(raw) > 0 {
		out.Language = string(raw)
	}
	if raw, err := ds.backend.Get(ctx, scaleKey); err == nil {
		if n, convErr := strconv.Atoi(string(raw)); convErr == nil {
			out.DisplayScale = n
		}
	}
	return out, nil
}

func (p *prefs) Put(ctx context.Context, in *model.Prefs) error {
	ds := (*docStore)(p)
	if err := ds.backend.Put(ctx, langKey, []byte(in.Language)); err != nil {
		return err
	}
	return ds.backend.Put(ctx, scaleKey, []byte(strconv.Itoa(in.DisplayScale)))
}
