//go:build integration

package postgreskv_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/edakseva/grievance-server/internal/store/postgreskv"
)

func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "dakseva",
			"POSTGRES_USER":     "dakseva",
			"POSTGRES_PASSWORD": "dakseva",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://dakseva:dakseva@%s:%s/dakseva?sslmode=disable", host, port.Port())
}

func TestPostgresKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := startPostgres(t, ctx)

	kv, err := postgreskv.New(dsn)
	if err != nil {
		t.Fatalf("postgreskv.New: %v", err)
	}
	defer kv.Close()

	if err := kv.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}

	if err := kv.Put(ctx, "dak_seva_lang", []byte(`"hi"`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := kv.Get(ctx, "dak_seva_lang")
	if err != nil || string(got) != `"hi"` {
		t.Fatalf("Get: got=%q err=%v", got, err)
	}

	// Upsert overwrites.
	if err := kv.Put(ctx, "dak_seva_lang", []byte(`"te"`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _ = kv.Get(ctx, "dak_seva_lang")
	if string(got) != `"te"` {
		t.Fatalf("Put did not overwrite: got=%q", got)
	}

	if err := kv.Delete(ctx, "dak_seva_lang"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "dak_seva_lang"); err == nil {
		t.Fatalf("Get after delete: want error, got nil")
	}
}
