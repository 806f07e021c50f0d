package db

import (
	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/internal/profile"
	"github.com/binarylab/projecthub/store"
	"github.com/binarylab/projecthub/store/db/postgres"
	"github.com/binarylab/projecthub/store/db/sqlite"
)

// PostgreSQL is the production database and carries the full feature set,
// including embedding persistence via pgvector. SQLite covers development
// and tests; embedding persistence is not available there.

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
