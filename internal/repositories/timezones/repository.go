package timezones

import "context"

// Record is a user's saved region, country and timezone, captured during
// main registration and carried over to alt registrations.
type Record struct {
	UserID   string `json:"user_id"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

// Repository defines persistence for saved timezones.
type Repository interface {
	// Get retrieves the user's saved timezone.
	Get(ctx context.Context, userID string) (*Record, error)

	// Set stores or replaces the user's saved timezone.
	Set(ctx context.Context, rec *Record) error

	// Delete removes the user's saved timezone. Deleting an absent
	// record is a no-op.
	Delete(ctx context.Context, userID string) error
}
