package store

import (
	"fmt"
	"time"

	"github.com/binarylab/projecthub/internal/profile"
	"github.com/binarylab/projecthub/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Caches
	projectCache *cache.Cache // cache for projects by ID
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:       driver,
		profile:      profile,
		projectCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.projectCache.Close()
	return s.driver.Close()
}

func projectCacheKey(id int32) string {
	return fmt.Sprintf("project:%d", id)
}
