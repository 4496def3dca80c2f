package profile

import (
	"context"
	"errors"
)

// StorageKey is the fixed key under which the single emergency profile is
// persisted. Earlier client releases used the same key, so existing data
// loads unchanged.
const StorageKey = "EmergencyProfile"

// ErrNoProfile is returned by Load when no usable profile exists under
// StorageKey. Absent, unreadable, and undecodable records are all reported
// the same way; the caller falls back to a default profile.
var ErrNoProfile = errors.New("no stored profile")

// Repository persists the one profile owned by this process.
type Repository interface {
	Save(ctx context.Context, p *EmergencyProfile) error
	Load(ctx context.Context) (*EmergencyProfile, error)
	// Clear removes the stored profile. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}
