package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialevents/internal/domain"
)

type applicationService struct {
	applicationRepo domain.ApplicationRepository
	eventRepo       domain.EventRepository
	friendshipRepo  domain.FriendshipRepository
	contextTimeout  time.Duration
}

// NewApplicationService creates an ApplicationService over the application workflow.
func NewApplicationService(applicationRepo domain.ApplicationRepository,
	eventRepo domain.EventRepository,
	friendshipRepo domain.FriendshipRepository,
	timeout time.Duration,
) domain.ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		eventRepo:       eventRepo,
		friendshipRepo:  friendshipRepo,
		contextTimeout:  timeout,
	}
}

func (s *applicationService) Apply(ctx context.Context, viewerID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

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
	// Insert-if-absent: an existing application in any status wins.
	if _, err := s.applicationRepo.Create(ctx, viewerID, eventID); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *applicationService) Respond(ctx context.Context, callerID, userID, eventID string, status domain.ApplicationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return domain.ErrForbidden
	}
	decided, err := s.applicationRepo.Decide(ctx, userID, eventID, status)
	if err != nil {
		return fmt.Errorf("decide application: %w", err)
	}
	if !decided {
		// No pending row: either never applied or already decided. Both
		// surface as not found.
		return domain.ErrNotFound
	}
	return nil
}

func (s *applicationService) ListPending(ctx context.Context, ownerID string) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	apps, err := s.applicationRepo.ListPendingByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pending applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.Application{}
	}
	return apps, nil
}
