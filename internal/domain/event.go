package domain

import (
	"context"
	"time"
)

// Audience is the per-event visibility class.
type Audience string

const (
	AudiencePublic  Audience = "public"
	AudienceFriends Audience = "friends"
)

// ParseAudience returns the Audience for s and whether s named a valid one.
func ParseAudience(s string) (Audience, bool) {
	switch Audience(s) {
	case AudiencePublic:
		return AudiencePublic, true
	case AudienceFriends:
		return AudienceFriends, true
	}
	return "", false
}

// Event represents a social event published by a user.
// Date is an ISO date string (YYYY-MM-DD); stored as text so chronological
// ordering and free-text search operate on the same representation.
// InterestedCount is a denormalized cache of the interest marks for the event,
// maintained transactionally by the InterestRepository.
type Event struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Date            string    `json:"date"`
	ImageRef        *string   `json:"image_ref,omitempty"`
	Audience        Audience  `json:"audience"`
	MaxAttendees    *int      `json:"max_attendees,omitempty"`
	InterestedCount int       `json:"interested"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(ownerID, title, description, location, date string, audience Audience, maxAttendees *int, imageRef *string, createdAt time.Time) *Event {
	return &Event{
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		Location:     location,
		Date:         date,
		ImageRef:     imageRef,
		Audience:     audience,
		MaxAttendees: maxAttendees,
		CreatedAt:    createdAt,
	}
}

// EnrichedEvent is an Event joined with its organizer summary and live counts
// for list and detail responses. Image is the resolved media URL for ImageRef.
type EnrichedEvent struct {
	Event
	Organizer     UserSummary `json:"organizer"`
	Image         *string     `json:"image"`
	AttendeeCount int         `json:"attendees"`
	CommentCount  int         `json:"comments"`
}

// EventDetail is an EnrichedEvent plus the full attendee and comment lists.
type EventDetail struct {
	EnrichedEvent
	Attendees []*UserSummary `json:"attendee_list"`
	Comments  []*Comment     `json:"comment_list"`
}

// VisibilityScope selects one of the fixed visibility predicates used when
// listing events. Predicates are parameterized statements chosen by this enum,
// never assembled from untrusted strings.
type VisibilityScope int

const (
	// ScopeAnonymous lists public events only.
	ScopeAnonymous VisibilityScope = iota
	// ScopeViewer lists public events, friends-only events owned by a friend of
	// the viewer, and the viewer's own events.
	ScopeViewer
	// ScopeFriends restricts the candidate set to events owned by the viewer's
	// friends, plus the viewer's own events.
	ScopeFriends
)

// EventFilter carries the resolved viewer identity, friend set, scope, and
// optional search text for a listing query.
type EventFilter struct {
	Scope     VisibilityScope
	ViewerID  string
	FriendIDs []string
	Search    string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListVisible returns enriched events matching the filter, ordered by date
	// ascending with id as tie-break.
	ListVisible(ctx context.Context, filter EventFilter) ([]*EnrichedEvent, error)
	// ListByOwnerID returns the owner's enriched events, date descending.
	ListByOwnerID(ctx context.Context, ownerID string) ([]*EnrichedEvent, error)
	GetEnrichedByID(ctx context.Context, id string) (*EnrichedEvent, error)
	Delete(ctx context.Context, id string) error
}

// EventService is the event directory: it composes the friendship graph, the
// event store, and the ledgers to answer visibility-filtered queries and to
// apply mutations with correct counter side effects.
type EventService interface {
	// ListEvents lists events visible to the viewer. viewerID may be empty
	// (anonymous). audienceFilter narrows the candidate set; AudienceFriends
	// requires an authenticated viewer.
	ListEvents(ctx context.Context, viewerID string, audienceFilter *Audience, search string) ([]*EnrichedEvent, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*EnrichedEvent, error)
	// GetEventDetail applies the visibility predicate to a single event and
	// returns ErrNotFound both when the event is absent and when it is not
	// visible to the viewer.
	GetEventDetail(ctx context.Context, viewerID, eventID string) (*EventDetail, error)
	CreateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
	Attend(ctx context.Context, viewerID, eventID string) (joined bool, err error)
	AddComment(ctx context.Context, viewerID, eventID, content string) (*Comment, error)
}
