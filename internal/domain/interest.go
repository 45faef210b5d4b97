package domain

import "context"

// InterestRepository owns the per-(user,event) interest marks and the cached
// interested_count column on events. Mark and Unmark must apply the presence
// change and the counter adjustment as a single atomic unit so the counter can
// never drift from the number of marks.
type InterestRepository interface {
	// Mark inserts the interest mark if absent and increments the event's
	// interested count in the same transaction. Returns marked=false when the
	// mark already existed (no counter change). Returns ErrNotFound when the
	// event does not exist.
	Mark(ctx context.Context, userID, eventID string) (marked bool, err error)
	// Unmark removes the interest mark if present and decrements the counter in
	// the same transaction. Removing an absent mark is a no-op.
	Unmark(ctx context.Context, userID, eventID string) (removed bool, err error)
	IsInterested(ctx context.Context, userID, eventID string) (bool, error)
	// CountForEvent counts the mark rows for an event (not the cached column).
	CountForEvent(ctx context.Context, eventID string) (int, error)
}

// AttendanceRepository owns confirmed-attendance presence rows. The attendee
// count is always derived by counting rows, never cached.
type AttendanceRepository interface {
	// Add inserts the attendance row if absent. Returns added=false when the
	// user already attends.
	Add(ctx context.Context, userID, eventID string) (added bool, err error)
	ListForEvent(ctx context.Context, eventID string) ([]*UserSummary, error)
}

// InterestService applies interest toggles against visible events. Toggling a
// non-visible event reports ErrNotFound, matching the directory's masking.
type InterestService interface {
	MarkInterested(ctx context.Context, viewerID, eventID string) error
	UnmarkInterested(ctx context.Context, viewerID, eventID string) error
	IsInterested(ctx context.Context, viewerID, eventID string) (bool, error)
}
