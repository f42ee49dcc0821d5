package profile

import (
	"context"

	"github.com/google/uuid"
)

// Store is the read/write contract for applicant profiles. The engine only
// uses the read path; Save exists for the CLI and for tests.
type Store interface {
	// FindByApplicationID returns the profile for an application, or a
	// *NotFoundError if none exists.
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*Profile, error)

	// Save inserts or replaces a profile snapshot.
	Save(ctx context.Context, p *Profile) error

	// Close releases resources held by the store.
	Close() error
}
