// Package storetest holds a compliance suite shared by store backends.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	// Complaints: Add prepends, List is most-recent-first.
	first := &model.ComplaintRecord{
		ID:           uuid.New().String(),
		OriginalText: "parcel stuck in transit",
		Subject:      "Delayed parcel",
		CustomerID:   "1234509876",
		Status:       model.StatusPending,
		Source:       model.SourcePortal,
		Timestamp:    now,
	}
	if err := s.Complaints().Add(ctx, first); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	second := &model.ComplaintRecord{
		ID:           uuid.New().String(),
		OriginalText: "box arrived torn",
		Subject:      "Damaged parcel",
		CustomerID:   "9876501234",
		Status:       model.StatusPending,
		Source:       model.SourceMail,
		Timestamp:    now.Add(time.Minute),
	}
	if err := s.Complaints().Add(ctx, second); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	lst, err := s.Complaints().List(ctx)
	if err != nil || len(lst) != 2 {
		t.Fatalf("List: n=%d err=%v", len(lst), err)
	}
	if lst[0].ID != second.ID || lst[1].ID != first.ID {
		t.Fatalf("List order: want most-recent-first, got %s then %s", lst[0].ID, lst[1].ID)
	}

	// Duplicate identifiers are rejected.
	if err := s.Complaints().Add(ctx, first); err != model.ErrConflict {
		t.Fatalf("Add duplicate: want ErrConflict, got %v", err)
	}

	// Update replaces in place and preserves position.
	updated := *first
	updated.Status = model.StatusDrafted
	updated.FormalEmailDraft = "Dear Customer, ..."
	if err := s.Complaints().Update(ctx, &updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	lst, _ = s.Complaints().List(ctx)
	if lst[1].Status != model.StatusDrafted || lst[1].FormalEmailDraft == "" {
		t.Fatalf("Update not applied: %+v", lst[1])
	}
	if lst[0].ID != second.ID {
		t.Fatalf("Update moved records: got %s first", lst[0].ID)
	}

	if err := s.Complaints().Update(ctx, &model.ComplaintRecord{ID: "unknown"}); err != model.ErrNotFound {
		t.Fatalf("Update unknown: want ErrNotFound, got %v", err)
	}

	got, err := s.Complaints().Get(ctx, first.ID)
	if err != nil || got.Subject != "Delayed parcel" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
	// Returned records are copies, not aliases into the store.
	got.Subject = "mutated"
	again, _ := s.Complaints().Get(ctx, first.ID)
	if again.Subject != "Delayed parcel" {
		t.Fatalf("Get returned aliased record")
	}

	// Sessions: single active, replace on put, ErrNotFound after clear.
	if _, err := s.Sessions().Get(ctx); err != model.ErrNotFound {
		t.Fatalf("Sessions.Get empty: want ErrNotFound, got %v", err)
	}
	if err := s.Sessions().Put(ctx, &model.UserSession{CustomerID: "1234509876", Role: model.RoleCitizen, Name: "Citizen User"}); err != nil {
		t.Fatalf("Sessions.Put: %v", err)
	}
	if err := s.Sessions().Put(ctx, &model.UserSession{CustomerID: "admin", Role: model.RoleOfficial, Name: "Post Master"}); err != nil {
		t.Fatalf("Sessions.Put replace: %v", err)
	}
	sess, err := s.Sessions().Get(ctx)
	if err != nil || sess.CustomerID != "admin" || sess.Role != model.RoleOfficial {
		t.Fatalf("Sessions.Get: got=%+v err=%v", sess, err)
	}
	if err := s.Sessions().Clear(ctx); err != nil {
		t.Fatalf("Sessions.Clear: %v", err)
	}
	if _, err := s.Sessions().Get(ctx); err != model.ErrNotFound {
		t.Fatalf("Sessions.Get after clear: want ErrNotFound, got %v", err)
	}

	// Prefs: defaults before first write, round-trip after.
	p, err := s.Prefs().Get(ctx)
	if err != nil || p.Language != "en" || p.DisplayScale != 100 {
		t.Fatalf("Prefs defaults: got=%+v err=%v", p, err)
	}
	if err := s.Prefs().Put(ctx, &model.Prefs{Language: "hi", DisplayScale: 125}); err != nil {
		t.Fatalf("Prefs.Put: %v", err)
	}
	p, _ = s.Prefs().Get(ctx)
	if p.Language != "hi" || p.DisplayScale != 125 {
		t.Fatalf("Prefs round-trip: got=%+v", p)
	}
}
