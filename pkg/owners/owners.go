// Package owners stores the parking lot owners served by the owners API.
package owners

import (
	"context"
	"strings"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

// Owner is a parking lot owner.
type Owner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store lists owners.
type Store interface {
	// List returns all owners ordered by ID.
	List(ctx context.Context) ([]Owner, error)

	// Close releases the store's resources.
	Close() error
}

// Seed is the owner every new store starts with.
var Seed = []Owner{{ID: 1, Name: "Alice"}}

// Open opens the store selected by driver ("memory" or "sqlite").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "memory":
		return NewMemory(Seed...), nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	default:
		return nil, perrors.New(perrors.CodeStoreFailure).
			WithDetailf("unknown owners driver %q", driver)
	}
}
