package domain

import (
	"context"
	"time"
)

// FriendshipStatus is the state of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

// FriendshipDecision is the answer a recipient gives to a pending request.
type FriendshipDecision string

const (
	DecisionAccept FriendshipDecision = "accept"
	DecisionReject FriendshipDecision = "reject"
)

// ParseFriendshipDecision returns the decision for s and whether s named a valid one.
func ParseFriendshipDecision(s string) (FriendshipDecision, bool) {
	switch FriendshipDecision(s) {
	case DecisionAccept:
		return DecisionAccept, true
	case DecisionReject:
		return DecisionReject, true
	}
	return "", false
}

// Friendship is a directional request record over an unordered user pair.
// At most one row exists per pair; accepted edges are symmetric for visibility
// regardless of who requested.
type Friendship struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requester_id"`
	RecipientID string           `json:"recipient_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// PendingFriendRequest is an incoming pending request enriched with the
// requester's identity summary.
type PendingFriendRequest struct {
	Requester UserSummary `json:"requester"`
	CreatedAt time.Time   `json:"created_at"`
}

// FriendshipRepository defines the interface for friendship edge storage.
type FriendshipRepository interface {
	// AreFriends reports whether an accepted edge exists for the unordered pair.
	AreFriends(ctx context.Context, a, b string) (bool, error)
	// FriendIDsOf returns all peers with an accepted edge to userID.
	FriendIDsOf(ctx context.Context, userID string) ([]string, error)
	// CreateRequest inserts a pending row if no row exists for the pair in any
	// state or direction. Returns created=false (and no error) when a row
	// already exists.
	CreateRequest(ctx context.Context, requesterID, recipientID string) (created bool, err error)
	// UpdatePending transitions the pending row for (requester → recipient) to
	// status. Returns updated=false when no pending row matches that direction.
	UpdatePending(ctx context.Context, requesterID, recipientID string, status FriendshipStatus) (updated bool, err error)
	// GetByPair returns the row for the unordered pair, if any.
	GetByPair(ctx context.Context, a, b string) (*Friendship, error)
	// ListPendingFor returns incoming pending requests for recipientID, oldest first.
	ListPendingFor(ctx context.Context, recipientID string) ([]*PendingFriendRequest, error)
}

// FriendshipService covers the friend request workflow.
type FriendshipService interface {
	// SendRequest creates a pending request. It is a silent no-op when a row for
	// the pair already exists in any state; re-requesting after rejection is not
	// supported.
	SendRequest(ctx context.Context, requesterID, recipientID string) error
	// Respond transitions a pending request addressed to recipientID. Returns
	// ErrNotFound when no pending row matches the pair in that direction.
	Respond(ctx context.Context, requesterID, recipientID string, decision FriendshipDecision) error
	ListPending(ctx context.Context, recipientID string) ([]*PendingFriendRequest, error)
	// GetWithUser returns the friendship between the viewer and the given user,
	// or ErrNotFound when none exists.
	GetWithUser(ctx context.Context, viewerID, otherID string) (*Friendship, error)
}
