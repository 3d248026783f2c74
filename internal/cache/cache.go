package cache

import "context"

// EntityKind is the closed set of invalidation keys. Using typed constants
// instead of ad hoc strings means a misspelled key is a compile error, not a
// silently stale dashboard.
type EntityKind string

const (
	EntityBooking EntityKind = "booking"
	EntityDeposit EntityKind = "deposit"
	EntityPoints  EntityKind = "points"
	EntityVehicle EntityKind = "vehicle"
)

// Invalidator publishes entity-change events so cached views can drop stale
// state. Implementations must be safe for concurrent use.
type Invalidator interface {
	Invalidate(ctx context.Context, kind EntityKind, id int32) error
}

// DashboardCounters is the realtime ops overview. Values are cached in redis
// and refreshed by a scheduled job; readers fall back to SQL when cold.
type DashboardCounters struct {
	ActiveRentals   int32 `json:"active_rentals"`
	PendingBookings int32 `json:"pending_bookings"`
	AuthorizedHolds int32 `json:"authorized_holds"`
}

// CounterStore caches the dashboard counters between refreshes.
type CounterStore interface {
	// GetCounters returns (nil, nil) on a cache miss.
	GetCounters(ctx context.Context) (*DashboardCounters, error)
	SetCounters(ctx context.Context, counters *DashboardCounters) error
}

// Noop discards invalidations; used in tests and when redis is not
// configured.
type Noop struct{}

func (Noop) Invalidate(ctx context.Context, kind EntityKind, id int32) error { return nil }
