package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"socialevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	friendshipRepo domain.FriendshipRepository
	attendanceRepo domain.AttendanceRepository
	commentRepo    domain.CommentRepository
	media          domain.MediaStore
	contextTimeout time.Duration
}

// NewEventService creates the event directory service. It holds no state of its
// own; every call composes the friendship graph, the event store, and the
// ledgers for one request.
func NewEventService(eventRepo domain.EventRepository,
	friendshipRepo domain.FriendshipRepository,
	attendanceRepo domain.AttendanceRepository,
	commentRepo domain.CommentRepository,
	media domain.MediaStore,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		friendshipRepo: friendshipRepo,
		attendanceRepo: attendanceRepo,
		commentRepo:    commentRepo,
		media:          media,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context, viewerID string, audienceFilter *domain.Audience, search string) ([]*domain.EnrichedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter := domain.EventFilter{
		ViewerID: viewerID,
		Search:   strings.TrimSpace(search),
	}
	switch {
	case viewerID == "":
		if audienceFilter != nil {
			return nil, domain.ErrUnauthorized
		}
		filter.Scope = domain.ScopeAnonymous
	case audienceFilter != nil && *audienceFilter == domain.AudienceFriends:
		filter.Scope = domain.ScopeFriends
	default:
		// No filter and audience=public behave the same for an authenticated
		// viewer.
		filter.Scope = domain.ScopeViewer
	}

	if filter.Scope != domain.ScopeAnonymous {
		friendIDs, err := s.friendshipRepo.FriendIDsOf(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("resolve friend set: %w", err)
		}
		filter.FriendIDs = friendIDs
	}

	events, err := s.eventRepo.ListVisible(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	s.resolveImages(events)
	return events, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.EnrichedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list own events: %w", err)
	}
	s.resolveImages(events)
	return events, nil
}

func (s *eventService) GetEventDetail(ctx context.Context, viewerID, eventID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetEnrichedByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	visible, err := eventVisibleTo(ctx, s.friendshipRepo, viewerID, &event.Event)
	if err != nil {
		return nil, fmt.Errorf("check visibility: %w", err)
	}
	if !visible {
		// Absent and non-visible are indistinguishable on purpose.
		return nil, domain.ErrNotFound
	}

	attendees, err := s.attendanceRepo.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	comments, err := s.commentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	detail := &domain.EventDetail{
		EnrichedEvent: *event,
		Attendees:     attendees,
		Comments:      comments,
	}
	s.resolveImages([]*domain.EnrichedEvent{&detail.EnrichedEvent})
	return detail, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("event owner is required: %w", domain.ErrInvalidInput)
	}
	if event.Title == "" || event.Description == "" || event.Date == "" || event.Location == "" {
		return fmt.Errorf("missing required fields: %w", domain.ErrInvalidInput)
	}
	if event.Audience == "" {
		event.Audience = domain.AudiencePublic
	}
	if _, ok := domain.ParseAudience(string(event.Audience)); !ok {
		return fmt.Errorf("invalid audience %q: %w", event.Audience, domain.ErrInvalidInput)
	}
	if event.MaxAttendees != nil && *event.MaxAttendees <= 0 {
		return fmt.Errorf("max_attendees must be positive: %w", domain.ErrInvalidInput)
	}

	event.CreatedAt = time.Now()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return s.eventRepo.Delete(ctx, eventID)
}

func (s *eventService) Attend(ctx context.Context, viewerID, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireVisible(ctx, viewerID, eventID); err != nil {
		return false, err
	}
	joined, err := s.attendanceRepo.Add(ctx, viewerID, eventID)
	if err != nil {
		return false, fmt.Errorf("add attendance: %w", err)
	}
	return joined, nil
}

func (s *eventService) AddComment(ctx context.Context, viewerID, eventID, content string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", domain.ErrInvalidInput)
	}
	if err := s.requireVisible(ctx, viewerID, eventID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		EventID:   eventID,
		UserID:    viewerID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// requireVisible fetches the event and masks both absence and non-visibility as
// ErrNotFound.
func (s *eventService) requireVisible(ctx context.Context, viewerID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	visible, err := eventVisibleTo(ctx, s.friendshipRepo, viewerID, event)
	if err != nil {
		return fmt.Errorf("check visibility: %w", err)
	}
	if !visible {
		return domain.ErrNotFound
	}
	return nil
}

func (s *eventService) resolveImages(events []*domain.EnrichedEvent) {
	if s.media == nil {
		return
	}
	for _, e := range events {
		if e.ImageRef != nil {
			url := s.media.URL(*e.ImageRef)
			e.Image = &url
		}
	}
}

// eventVisibleTo evaluates the per-event visibility predicate: public events
// are visible to everyone, owners always see their own events, and
// friends-only events require an accepted edge between viewer and owner.
func eventVisibleTo(ctx context.Context, friendships domain.FriendshipRepository, viewerID string, event *domain.Event) (bool, error) {
	if event.Audience == domain.AudiencePublic {
		return true, nil
	}
	if viewerID == "" {
		return false, nil
	}
	if viewerID == event.OwnerID {
		return true, nil
	}
	return friendships.AreFriends(ctx, viewerID, event.OwnerID)
}
