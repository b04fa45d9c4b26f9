package migration

import (
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestLoadOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_more.up.sql": {Data: []byte("SELECT 2;")},
		"migrations/0001_init.up.sql": {Data: []byte("SELECT 1;")},
		"migrations/README.md":        {Data: []byte("ignored")},
	}
	got, err := load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != "0001_init" || got[1].Version != "0002_more" {
		t.Fatalf("unexpected order: %s, %s", got[0].Version, got[1].Version)
	}
}

func TestEmbeddedSchema(t *testing.T) {
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no embedded migrations")
	}
	schema := got[0].SQL
	for _, want := range []string{
		"UNIQUE (room_id, month)",
		"payment_proofs_one_unverified",
		"billing_due_day BETWEEN 1 AND 31",
		"ON DELETE CASCADE",
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set, skip migration integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if _, err := Run(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	n, err := Run(ctx, pool, zerolog.Nop())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing to apply on second run, applied %d", n)
	}
}
