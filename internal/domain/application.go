package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the state of an attendance application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ParseApplicationDecision maps a request decision string to the terminal
// status it produces. Only "accept" and "reject" are valid.
func ParseApplicationDecision(s string) (ApplicationStatus, bool) {
	switch s {
	case "accept":
		return ApplicationAccepted, true
	case "reject":
		return ApplicationRejected, true
	}
	return "", false
}

// Application is a per-(user,event) attendance request for events that gate
// attendance by owner approval. Transitions only pending → accepted or
// pending → rejected, never back.
type Application struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	EventID   string            `json:"event_id"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ApplicationRepository defines the interface for application storage.
type ApplicationRepository interface {
	// Create inserts a pending row unless one already exists for the pair in
	// any status. Returns created=false when a row exists (existing decisions
	// are never overwritten).
	Create(ctx context.Context, userID, eventID string) (created bool, err error)
	// Decide transitions the row to status only if currently pending. Returns
	// decided=false when no pending row matches.
	Decide(ctx context.Context, userID, eventID string, status ApplicationStatus) (decided bool, err error)
	// ListPendingByOwner returns pending applications for events owned by
	// ownerID, oldest first.
	ListPendingByOwner(ctx context.Context, ownerID string) ([]*Application, error)
}

// ApplicationService covers the attendance application workflow.
type ApplicationService interface {
	Apply(ctx context.Context, viewerID, eventID string) error
	// Respond requires the caller to own the event (ErrForbidden otherwise) and
	// reports ErrNotFound when no pending application matches, including the
	// already-decided case.
	Respond(ctx context.Context, callerID, userID, eventID string, status ApplicationStatus) error
	ListPending(ctx context.Context, ownerID string) ([]*Application, error)
}
