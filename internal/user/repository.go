package user

import "context"

// Repository persists user records. Partner-scoped methods match on
// {id, role=PARTNER} and return ErrNotFound on a miss so callers can tell
// "nothing to update" apart from hard failures.
type Repository interface {
	// Create inserts a record, surfacing ErrEmailExists or ErrPartnerIDExists
	// when a unique constraint rejects it.
	Create(ctx context.Context, u User) error

	// FindByEmail looks up any role by lowercased email, hash included; this
	// is the one read path that exposes the password hash, for credential checks.
	FindByEmail(ctx context.Context, email string) (User, error)

	FindByID(ctx context.Context, id string) (User, error)
	FindPartner(ctx context.Context, id string) (User, error)

	// ListPartners returns all partner records in creation order.
	ListPartners(ctx context.Context) ([]User, error)

	// LatestPartnerID returns the partner id of the most recently created
	// partner, or "" when none exist.
	LatestPartnerID(ctx context.Context) (string, error)

	// UpdatePartner applies a sparse patch and returns the updated record.
	UpdatePartner(ctx context.Context, id string, patch PartnerPatch) (User, error)

	// SetPartnerActive persists the active flag and returns the updated record.
	SetPartnerActive(ctx context.Context, id string, active bool) (User, error)

	// EmailTaken reports whether another record (excluding excludeID) already
	// uses the email.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}
