package test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/binarylab/projecthub/internal/profile"
	"github.com/binarylab/projecthub/store"
	"github.com/binarylab/projecthub/store/db"
)

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

func getTestingProfile(t *testing.T) *profile.Profile {
	p := &profile.Profile{
		Mode:              "dev",
		Driver:            getDriverFromEnv(),
		Scorer:            "lexical",
		TitleWeight:       0.4,
		DescriptionWeight: 0.6,
		TopK:              5,
	}
	switch p.Driver {
	case "sqlite":
		p.Data = t.TempDir()
		p.DSN = fmt.Sprintf("%s/projecthub_test.db", p.Data)
	case "postgres":
		dsn := os.Getenv("POSTGRES_TEST_DSN")
		if dsn == "" {
			t.Skip("POSTGRES_TEST_DSN not set, skipping postgres store tests")
		}
		p.DSN = dsn
	default:
		t.Fatalf("unsupported test driver %q", p.Driver)
	}
	return p
}

// NewTestingStore creates a store over a fresh database for one test.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	p := getTestingProfile(t)

	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return ts
}
