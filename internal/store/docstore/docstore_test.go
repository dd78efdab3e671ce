package docstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/store"
	"github.com/edakseva/grievance-server/internal/store/docstore"
	"github.com/edakseva/grievance-server/internal/store/memkv"
	"github.com/edakseva/grievance-server/internal/store/sqlitekv"
	"github.com/edakseva/grievance-server/internal/store/storetest"
)

func TestDocStoreMemoryBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := docstore.New(context.Background(), memkv.New(), zerolog.Nop())
		if err != nil {
			t.Fatalf("docstore.New: %v", err)
		}
		return s
	})
}

func TestDocStoreSQLiteBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		backend, err := sqlitekv.New(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("sqlitekv.New: %v", err)
		}
		t.Cleanup(func() { backend.Close() })
		s, err := docstore.New(context.Background(), backend, zerolog.Nop())
		if err != nil {
			t.Fatalf("docstore.New: %v", err)
		}
		return s
	})
}

func TestDocStoreReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reload.db")

	backend, err := sqlitekv.New(path)
	if err != nil {
		t.Fatalf("sqlitekv.New: %v", err)
	}
	s, err := docstore.New(ctx, backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("docstore.New: %v", err)
	}
	rec := &model.ComplaintRecord{
		ID:           "c-1",
		OriginalText: "article not delivered",
		Subject:      "Missing article",
		CustomerID:   "1234509876",
		Status:       model.StatusPending,
		Source:       model.SourcePortal,
	}
	if err := s.Complaints().Add(ctx, rec); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	backend2, err := sqlitekv.New(path)
	if err != nil {
		t.Fatalf("sqlitekv.New reopen: %v", err)
	}
	defer backend2.Close()
	s2, err := docstore.New(ctx, backend2, zerolog.Nop())
	if err != nil {
		t.Fatalf("docstore.New reopen: %v", err)
	}
	got, err := s2.Complaints().Get(ctx, "c-1")
	if err != nil || got.Subject != "Missing article" {
		t.Fatalf("Get after reopen: got=%+v err=%v", got, err)
	}
}

func TestDocStoreCorruptPayloadLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := memkv.New()
	if err := backend.Put(ctx, "dak_seva_complaints_v4_1", []byte("{not json")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s, err := docstore.New(ctx, backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("docstore.New: %v", err)
	}
	lst, err := s.Complaints().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lst) != 0 {
		t.Fatalf("corrupt payload should load as empty, got %d records", len(lst))
	}
	// The store stays writable afterwards.
	if err := s.Complaints().Add(ctx, &model.ComplaintRecord{ID: "c-2", Status: model.StatusPending}); err != nil {
		t.Fatalf("Add after corrupt load: %v", err)
	}
}
